package posting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobboard/internal/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *MemoryRepository, *recordingPublisher, *fakeClock) {
	t.Helper()
	repo := NewMemoryRepository()
	pub := &recordingPublisher{}
	clock := &fakeClock{now: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(repo, pub, zaptest.NewLogger(t))
	svc.now = clock.Now
	return svc, repo, pub, clock
}

func validInput() CreateInput {
	return CreateInput{
		JobTitle:            "Backend Engineer",
		CompanyName:         "Acme",
		Location:            "Remote",
		JobType:             "FULL_TIME",
		SalaryRange:         "$100,000 - $140,000",
		JobDescription:      "Build APIs.",
		Requirements:        "Go experience.",
		Responsibilities:    "Own services.",
		ApplicationDeadline: "2025-06-30T00:00:00.000Z",
	}
}

func TestCreateEchoesFields(t *testing.T) {
	svc, _, pub, _ := newTestService(t)
	in := validInput()

	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", created.ID)
	}
	if created.JobTitle != in.JobTitle || created.CompanyName != in.CompanyName ||
		created.Location != in.Location || string(created.JobType) != in.JobType ||
		created.SalaryRange != in.SalaryRange || created.JobDescription != in.JobDescription ||
		created.Requirements != in.Requirements || created.Responsibilities != in.Responsibilities {
		t.Fatalf("business fields not echoed: %+v", created)
	}
	want := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	if !created.ApplicationDeadline.Equal(want) {
		t.Fatalf("unexpected deadline: %s", created.ApplicationDeadline)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("createdAt %s != updatedAt %s", created.CreatedAt, created.UpdatedAt)
	}
	if got := pub.types(); len(got) != 1 || got[0] != EventCreated {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		created, err := svc.Create(context.Background(), validInput())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id %s", created.ID)
		}
		seen[created.ID] = true
	}
}

func TestCreateRejectsMissingField(t *testing.T) {
	blankers := map[string]func(*CreateInput){
		"jobTitle":            func(in *CreateInput) { in.JobTitle = "" },
		"companyName":         func(in *CreateInput) { in.CompanyName = "" },
		"location":            func(in *CreateInput) { in.Location = "" },
		"jobType":             func(in *CreateInput) { in.JobType = "" },
		"salaryRange":         func(in *CreateInput) { in.SalaryRange = "" },
		"jobDescription":      func(in *CreateInput) { in.JobDescription = "" },
		"requirements":        func(in *CreateInput) { in.Requirements = "" },
		"responsibilities":    func(in *CreateInput) { in.Responsibilities = "" },
		"applicationDeadline": func(in *CreateInput) { in.ApplicationDeadline = "" },
	}

	for field, blank := range blankers {
		t.Run(field, func(t *testing.T) {
			svc, repo, pub, _ := newTestService(t)
			in := validInput()
			blank(&in)

			_, err := svc.Create(context.Background(), in)
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected missing fields error, got %v", err)
			}
			if apperr.KindOf(err) != apperr.KindInvalidInput {
				t.Fatalf("expected invalid input, got %s", apperr.KindOf(err))
			}
			if apperr.MessageOf(err) != "All fields are required" {
				t.Fatalf("unexpected message %q", apperr.MessageOf(err))
			}
			items, _ := repo.List(context.Background(), Filter{})
			if len(items) != 0 {
				t.Fatalf("expected no records, got %d", len(items))
			}
			if len(pub.types()) != 0 {
				t.Fatal("no event expected for rejected create")
			}
		})
	}
}

func TestCreateMissingFieldWinsOverInvalidJobType(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	in := validInput()
	in.JobType = "FREELANCE"
	in.Location = ""

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields error, got %v", err)
	}
}

func TestCreateRejectsInvalidJobType(t *testing.T) {
	for _, jt := range []string{"FREELANCE", "full_time", "Full-time"} {
		svc, _, _, _ := newTestService(t)
		in := validInput()
		in.JobType = jt

		_, err := svc.Create(context.Background(), in)
		if !errors.Is(err, ErrInvalidJobType) {
			t.Fatalf("%s: expected invalid job type, got %v", jt, err)
		}
		if apperr.MessageOf(err) != "Invalid job type" {
			t.Fatalf("%s: unexpected message %q", jt, apperr.MessageOf(err))
		}
	}
}

func TestCreateRejectsUnparsableDeadline(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	in := validInput()
	in.ApplicationDeadline = "next tuesday"

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrInvalidDeadline) {
		t.Fatalf("expected invalid deadline, got %v", err)
	}
	if apperr.KindOf(err) != apperr.KindInvalidInput {
		t.Fatalf("expected invalid input, got %s", apperr.KindOf(err))
	}
}

func TestGetUnknownAndMalformedIDs(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		_, err := svc.Get(context.Background(), id)
		if apperr.KindOf(err) != apperr.KindNotFound {
			t.Fatalf("%q: expected not found, got %v", id, err)
		}
	}
}

func TestUpdateNotFoundPerformsNoMutation(t *testing.T) {
	svc, repo, pub, _ := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), uuid.NewString(), UpdateInput{Location: "Berlin", JobType: "NOPE"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found before job type validation, got %v", err)
	}

	stored, _ := repo.Get(context.Background(), created.ID)
	if *stored != *created {
		t.Fatalf("existing record changed: %+v", stored)
	}
	if got := pub.types(); len(got) != 1 {
		t.Fatalf("expected only the create event, got %v", got)
	}
}

func TestUpdateOnlyLocation(t *testing.T) {
	svc, _, _, clock := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(time.Minute)

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Location: "Berlin"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	want := *created
	want.Location = "Berlin"
	want.UpdatedAt = updated.UpdatedAt
	if *updated != want {
		t.Fatalf("unexpected record:\n got %+v\nwant %+v", *updated, want)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatal("updatedAt was not refreshed")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("createdAt changed")
	}
}

func TestUpdateSkipsEmptyValues(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{JobTitle: "", JobType: "CONTRACT"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.JobTitle != created.JobTitle {
		t.Fatalf("empty jobTitle should be ignored, got %q", updated.JobTitle)
	}
	if updated.JobType != JobTypeContract {
		t.Fatalf("expected CONTRACT, got %s", updated.JobType)
	}
}

func TestUpdateReparsesDeadline(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{ApplicationDeadline: "2026-01-15"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.ApplicationDeadline.Equal(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected deadline %s", updated.ApplicationDeadline)
	}

	_, err = svc.Update(context.Background(), created.ID, UpdateInput{ApplicationDeadline: "soon"})
	if !errors.Is(err, ErrInvalidDeadline) {
		t.Fatalf("expected invalid deadline, got %v", err)
	}
}

func TestUpdateRejectsInvalidJobType(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), created.ID, UpdateInput{JobType: "TEMP", Location: "Berlin"})
	if !errors.Is(err, ErrInvalidJobType) {
		t.Fatalf("expected invalid job type, got %v", err)
	}
	stored, _ := repo.Get(context.Background(), created.ID)
	if stored.Location != created.Location {
		t.Fatal("rejected update must not mutate")
	}
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	svc, _, pub, _ := newTestService(t)
	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if got := pub.types(); len(got) != 2 || got[1] != EventDeleted {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestPublishFailureDoesNotFailChange(t *testing.T) {
	svc, _, pub, _ := newTestService(t)
	pub.err = errors.New("nats down")

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("create should succeed despite publish failure: %v", err)
	}
}

type failingRepo struct {
	MemoryRepository
}

func (*failingRepo) List(context.Context, Filter) ([]JobPosting, error) {
	return nil, errors.New("connection refused")
}

func TestListRepositoryFailureIsInternal(t *testing.T) {
	svc := NewService(&failingRepo{}, nil, zaptest.NewLogger(t))

	_, err := svc.List(context.Background(), Filter{})
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestListFiltersAndOrdering(t *testing.T) {
	svc, _, _, clock := newTestService(t)
	mk := func(title, loc string, jt JobType, salary string) {
		in := validInput()
		in.JobTitle, in.Location, in.JobType, in.SalaryRange = title, loc, string(jt), salary
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		clock.Advance(time.Second)
	}
	mk("Senior ENGINEER II", "Berlin", JobTypeFullTime, "$120,000")
	mk("Designer", "New York, NY", JobTypeContract, "$80,000")
	mk("Platform engineer", "new york", JobTypeContract, "$95,000")
	mk("Intern", "Austin, TX", JobTypeInternship, "$15 per hour")

	all, err := svc.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].JobTitle != "Intern" || all[3].JobTitle != "Senior ENGINEER II" {
		t.Fatalf("expected newest first, got %v", titles(all))
	}

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"title case-insensitive", Filter{JobTitle: "engineer"}, []string{"Platform engineer", "Senior ENGINEER II"}},
		{"location substring", Filter{Location: "NEW YORK"}, []string{"Platform engineer", "Designer"}},
		{"job type exact", Filter{JobType: JobTypeContract}, []string{"Platform engineer", "Designer"}},
		{"salary substring", Filter{Salary: "per hour"}, []string{"Intern"}},
		{"combined", Filter{JobTitle: "engineer", JobType: JobTypeFullTime}, []string{"Senior ENGINEER II"}},
		{"no match", Filter{JobTitle: "chef"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), tc.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !equalStrings(titles(got), tc.want) {
				t.Fatalf("got %v, want %v", titles(got), tc.want)
			}
		})
	}
}

func titles(items []JobPosting) []string {
	out := make([]string, 0, len(items))
	for _, j := range items {
		out = append(out, j.JobTitle)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
