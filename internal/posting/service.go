package posting

import (
	"context"
	"errors"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	msgNotFound        = "Job not found"
	msgMissingFields   = "All fields are required"
	msgInvalidJobType  = "Invalid job type"
	msgInvalidDeadline = "Invalid application deadline"
)

// CreateInput carries the nine business fields. All of them are mandatory.
type CreateInput struct {
	JobTitle            string `validate:"required"`
	CompanyName         string `validate:"required"`
	Location            string `validate:"required"`
	JobType             string `validate:"required,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP"`
	SalaryRange         string `validate:"required"`
	JobDescription      string `validate:"required"`
	Requirements        string `validate:"required"`
	Responsibilities    string `validate:"required"`
	ApplicationDeadline string `validate:"required"`
}

// UpdateInput carries any subset of the business fields. Empty strings mean
// "not supplied".
type UpdateInput struct {
	JobTitle            string
	CompanyName         string
	Location            string
	JobType             string
	SalaryRange         string
	JobDescription      string
	Requirements        string
	Responsibilities    string
	ApplicationDeadline string
}

type Service struct {
	repo      Repository
	publisher Publisher
	logger    *zap.Logger
	tracer    trace.Tracer
	validate  *validator.Validate

	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, publisher Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		tracer:    telemetry.GetTracer("jobboard/posting"),
		validate:  validator.New(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context, f Filter) ([]JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "posting.List")
	defer span.End()

	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, s.fail(span, apperr.Internal("listing job postings", err))
	}
	if items == nil {
		items = []JobPosting{}
	}
	span.SetAttributes(telemetry.Int("postings.count", len(items)))
	return items, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "posting.Create")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return nil, s.fail(span, createValidationError(err))
	}
	deadline, err := ParseDeadline(in.ApplicationDeadline)
	if err != nil {
		return nil, s.fail(span, apperr.InvalidInput(msgInvalidDeadline, errors.Join(ErrInvalidDeadline, err)))
	}

	now := s.now().UTC()
	j := &JobPosting{
		ID:                  s.newID(),
		JobTitle:            in.JobTitle,
		CompanyName:         in.CompanyName,
		Location:            in.Location,
		JobType:             JobType(in.JobType),
		SalaryRange:         in.SalaryRange,
		JobDescription:      in.JobDescription,
		Requirements:        in.Requirements,
		Responsibilities:    in.Responsibilities,
		ApplicationDeadline: deadline,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, s.fail(span, apperr.Internal("creating job posting", err))
	}
	span.SetAttributes(telemetry.String("posting.id", j.ID))

	s.publish(ctx, Event{Type: EventCreated, ID: j.ID, Posting: j, At: now})
	return j, nil
}

func createValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validating job posting", err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return apperr.InvalidInput(msgMissingFields, ErrMissingFields)
		}
	}
	return apperr.InvalidInput(msgInvalidJobType, ErrInvalidJobType)
}

func (s *Service) Get(ctx context.Context, id string) (*JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "posting.Get")
	defer span.End()
	span.SetAttributes(telemetry.String("posting.id", id))

	j, err := s.lookup(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return j, nil
}

// Update applies the non-empty fields of in. The posting must exist before
// the job type or deadline are even looked at.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "posting.Update")
	defer span.End()
	span.SetAttributes(telemetry.String("posting.id", id))

	if _, err := s.lookup(ctx, id); err != nil {
		return nil, s.fail(span, err)
	}

	jt := JobType(in.JobType)
	if jt != "" && !jt.Valid() {
		return nil, s.fail(span, apperr.InvalidInput(msgInvalidJobType, ErrInvalidJobType))
	}

	now := s.now().UTC()
	patch := Patch{
		JobTitle:         in.JobTitle,
		CompanyName:      in.CompanyName,
		Location:         in.Location,
		JobType:          jt,
		SalaryRange:      in.SalaryRange,
		JobDescription:   in.JobDescription,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		UpdatedAt:        now,
	}
	if in.ApplicationDeadline != "" {
		deadline, err := ParseDeadline(in.ApplicationDeadline)
		if err != nil {
			return nil, s.fail(span, apperr.InvalidInput(msgInvalidDeadline, errors.Join(ErrInvalidDeadline, err)))
		}
		patch.ApplicationDeadline = &deadline
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, s.fail(span, apperr.NotFound(msgNotFound, err))
		}
		return nil, s.fail(span, apperr.Internal("updating job posting", err))
	}

	s.publish(ctx, Event{Type: EventUpdated, ID: id, Posting: updated, At: now})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "posting.Delete")
	defer span.End()
	span.SetAttributes(telemetry.String("posting.id", id))

	if _, err := s.lookup(ctx, id); err != nil {
		return s.fail(span, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.fail(span, apperr.NotFound(msgNotFound, err))
		}
		return s.fail(span, apperr.Internal("deleting job posting", err))
	}

	s.publish(ctx, Event{Type: EventDeleted, ID: id, At: s.now().UTC()})
	return nil
}

// lookup resolves id to a stored posting. Identifiers that are not UUIDs
// cannot name a posting and are reported as not found.
func (s *Service) lookup(ctx context.Context, id string) (*JobPosting, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(msgNotFound, ErrNotFound)
	}
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(msgNotFound, err)
		}
		return nil, apperr.Internal("loading job posting", err)
	}
	return j, nil
}

func (s *Service) publish(ctx context.Context, ev Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish job posting event",
			zap.String("type", string(ev.Type)),
			zap.String("id", ev.ID),
			zap.Error(err))
	}
}

func (s *Service) fail(span trace.Span, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
