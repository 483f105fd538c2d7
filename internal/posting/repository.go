package posting

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("job posting not found")
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidJobType  = errors.New("invalid job type")
	ErrInvalidDeadline = errors.New("invalid application deadline")
)

// Repository is the record store. Implementations return ErrNotFound when
// the addressed posting does not exist.
type Repository interface {
	List(ctx context.Context, f Filter) ([]JobPosting, error)
	Get(ctx context.Context, id string) (*JobPosting, error)
	Create(ctx context.Context, j *JobPosting) error
	Update(ctx context.Context, id string, p Patch) (*JobPosting, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
