package outbox

import (
	"context"
	"encoding/json"
	"time"

	"jobboard/internal/posting"

	"gorm.io/gorm"
)

const defaultMaxAttempts = 8

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Enqueue(ctx context.Context, ev posting.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	m := Message{
		EventType:   string(ev.Type),
		PostingID:   ev.ID,
		Payload:     payload,
		RunAt:       time.Now(),
		Status:      StatusPending,
		MaxAttempts: defaultMaxAttempts,
	}
	return r.DB.WithContext(ctx).Create(&m).Error
}

// Claim locks one due message for workerID. It returns nil when nothing is due.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Message, error) {
	var m Message
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// release messages held by a worker that died mid-delivery
		if err := tx.Exec(`
update event_outbox
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`).Error; err != nil {
			return err
		}

		// FOR UPDATE SKIP LOCKED ensures no double-claim
		return tx.Raw(`
with cte as (
  select id
  from event_outbox
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update event_outbox
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID).Scan(&m).Error
	})
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).
		Exec(`update event_outbox set status='DONE', locked_by=null, locked_at=null, updated_at=now() where id=?`, id).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.DB.WithContext(ctx).
		Exec(`update event_outbox set status='FAILED', last_error=?, locked_by=null, locked_at=null, updated_at=now() where id=?`, errMsg, id).Error
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.DB.WithContext(ctx).Exec(`
update event_outbox
set status='PENDING',
    attempts=?,
    run_at=?,
    locked_by=null,
    locked_at=null,
    last_error=?,
    updated_at=now()
where id=?`, attempts, runAt, errMsg, id).Error
}
