package outbox

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"jobboard/internal/posting"

	"go.uber.org/zap"
)

const (
	pollInterval = 800 * time.Millisecond
	maxBackoff   = 600 * time.Second
)

type queue interface {
	Claim(ctx context.Context, workerID string) (*Message, error)
	MarkDone(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64, errMsg string) error
	RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error
}

// Worker redelivers queued change events until they publish or run out of
// attempts.
type Worker struct {
	ID        string
	Queue     queue
	Publisher posting.Publisher
	Logger    *zap.Logger

	interval time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewWorker(id string, q queue, pub posting.Publisher, logger *zap.Logger) *Worker {
	return &Worker{ID: id, Queue: q, Publisher: pub, Logger: logger, interval: pollInterval, now: time.Now}
}

// Start runs the poll loop in the background until Stop is called.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go func() {
		defer close(w.done)
		w.Run(ctx)
	}()
}

// Stop ends the poll loop and waits for an in-flight delivery to finish, or
// for ctx to expire.
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll handles at most one due message.
func (w *Worker) poll(ctx context.Context) {
	m, err := w.Queue.Claim(ctx, w.ID)
	if err != nil {
		w.Logger.Warn("outbox claim error", zap.Error(err))
		return
	}
	if m == nil {
		return
	}
	// a claimed message is seen through even if Stop is called meanwhile
	w.handle(context.WithoutCancel(ctx), m)
}

func (w *Worker) handle(ctx context.Context, m *Message) {
	var ev posting.Event
	if err := json.Unmarshal(m.Payload, &ev); err != nil {
		_ = w.Queue.MarkFailed(ctx, m.ID, "bad payload")
		return
	}

	if err := w.Publisher.Publish(ctx, ev); err != nil {
		w.retry(ctx, m, err.Error())
		return
	}
	if err := w.Queue.MarkDone(ctx, m.ID); err != nil {
		w.Logger.Warn("outbox mark done failed", zap.Uint64("id", m.ID), zap.Error(err))
	}
}

func (w *Worker) retry(ctx context.Context, m *Message, errMsg string) {
	attempts := m.Attempts + 1
	if attempts >= m.MaxAttempts {
		w.Logger.Error("dropping job posting event",
			zap.Uint64("id", m.ID),
			zap.String("posting_id", m.PostingID),
			zap.String("error", errMsg))
		_ = w.Queue.MarkFailed(ctx, m.ID, errMsg)
		return
	}

	_ = w.Queue.RetryLater(ctx, m.ID, attempts, w.now().Add(backoff(attempts)), errMsg)
}

// backoff doubles per attempt and is capped at maxBackoff.
func backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), maxBackoff.Seconds())
	return time.Duration(sec) * time.Second
}
