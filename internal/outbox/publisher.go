package outbox

import (
	"context"

	"jobboard/internal/posting"

	"go.uber.org/zap"
)

type enqueuer interface {
	Enqueue(ctx context.Context, ev posting.Event) error
}

// Publisher delivers live and falls back to the outbox when the live
// publish fails.
type Publisher struct {
	Next   posting.Publisher
	Queue  enqueuer
	Logger *zap.Logger
}

func (p *Publisher) Publish(ctx context.Context, ev posting.Event) error {
	err := p.Next.Publish(ctx, ev)
	if err == nil {
		return nil
	}

	// the request may already be finishing; the enqueue must still land
	if qerr := p.Queue.Enqueue(context.WithoutCancel(ctx), ev); qerr != nil {
		return qerr
	}
	p.Logger.Info("queued job posting event for retry",
		zap.String("type", string(ev.Type)),
		zap.String("id", ev.ID),
		zap.Error(err))
	return nil
}
