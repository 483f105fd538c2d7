package posting

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) List(ctx context.Context, f Filter) ([]JobPosting, error) {
	var rows []JobPosting
	if err := r.listQuery(ctx, f).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	return rows, nil
}

func (r *GormRepository) listQuery(ctx context.Context, f Filter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&JobPosting{})
	return scopeFilter(q, f).Order("created_at desc")
}

func scopeFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.IsEmpty() {
		return q
	}
	if f.JobTitle != "" {
		q = q.Where("job_title ILIKE ?", likePattern(f.JobTitle))
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", likePattern(f.Location))
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", string(f.JobType))
	}
	if f.Salary != "" {
		q = q.Where("salary_range ILIKE ?", likePattern(f.Salary))
	}
	return q
}

func (r *GormRepository) Get(ctx context.Context, id string) (*JobPosting, error) {
	var j JobPosting
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&j).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job posting %s: %w", id, err)
	}
	return &j, nil
}

func (r *GormRepository) Create(ctx context.Context, j *JobPosting) error {
	if err := r.DB.WithContext(ctx).Create(j).Error; err != nil {
		return fmt.Errorf("create job posting: %w", err)
	}
	return nil
}

func (r *GormRepository) Update(ctx context.Context, id string, p Patch) (*JobPosting, error) {
	res := r.update(ctx, id, p)
	if res.Error != nil {
		return nil, fmt.Errorf("update job posting %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *GormRepository) update(ctx context.Context, id string, p Patch) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&JobPosting{}).
		Where("id = ?", id).
		Updates(p.Columns())
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	res := r.delete(ctx, id)
	if res.Error != nil {
		return fmt.Errorf("delete job posting %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) delete(ctx context.Context, id string) *gorm.DB {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&JobPosting{})
}

func (r *GormRepository) Clear(ctx context.Context) error {
	if err := r.clear(ctx).Error; err != nil {
		return fmt.Errorf("clear job postings: %w", err)
	}
	return nil
}

func (r *GormRepository) clear(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&JobPosting{})
}
