package posting

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps postings in process memory. It backs the "memory"
// store driver and the package tests.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]JobPosting
	seq   map[string]int
	next  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]JobPosting),
		seq:   make(map[string]int),
	}
}

func (r *MemoryRepository) List(ctx context.Context, f Filter) ([]JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]JobPosting, 0, len(r.items))
	for _, j := range r.items {
		if f.Matches(j) {
			out = append(out, j)
		}
	}
	// newest first; insertion order breaks ties so equal timestamps stay stable
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return r.seq[out[a].ID] > r.seq[out[b].ID]
	})
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &j, nil
}

func (r *MemoryRepository) Create(ctx context.Context, j *JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.items[j.ID] = *j
	r.seq[j.ID] = r.next
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, p Patch) (*JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Apply(&j)
	r.items[id] = j
	return &j, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]JobPosting)
	r.seq = make(map[string]int)
	return nil
}
