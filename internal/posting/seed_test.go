package posting

import (
	"context"
	"testing"
	"time"
)

func TestSeedReplacesExistingRows(t *testing.T) {
	repo := NewMemoryRepository()
	stale := JobPosting{ID: "stale", JobTitle: "Old"}
	if err := repo.Create(context.Background(), &stale); err != nil {
		t.Fatalf("create: %v", err)
	}

	ts := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	seeded, err := Seed(context.Background(), repo, now)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(seeded) != 4 {
		t.Fatalf("expected 4 postings, got %d", len(seeded))
	}

	items, _ := repo.List(context.Background(), Filter{})
	if len(items) != 4 {
		t.Fatalf("expected 4 stored postings, got %d", len(items))
	}
	if items[0].JobTitle != "DevOps Engineer" || items[3].JobTitle != "Full Stack Developer" {
		t.Fatalf("unexpected order: %v", titles(items))
	}
	for _, j := range items {
		if !j.JobType.Valid() || j.ID == "" || j.ApplicationDeadline.IsZero() {
			t.Fatalf("incomplete sample: %+v", j)
		}
		if !j.CreatedAt.Equal(j.UpdatedAt) {
			t.Fatalf("timestamps differ for %s", j.JobTitle)
		}
	}
}
