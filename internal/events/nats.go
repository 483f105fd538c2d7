package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobboard/internal/posting"
	"jobboard/internal/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("jobboard/events")

const (
	subjectPrefix  = "job_postings."
	connectTimeout = 10 * time.Second
)

// Subject returns the subject a change event of type t is published on.
func Subject(t posting.EventType) string {
	return subjectPrefix + string(t)
}

type NATSPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(natsURL string, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("jobboard"),
		nats.Timeout(connectTimeout),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &NATSPublisher{
		nc:     nc,
		logger: logger,
	}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, ev posting.Event) error {
	_, span := tracer.Start(ctx, "PublishJobPostingEvent")
	defer span.End()

	data, err := Encode(ev)
	if err != nil {
		span.RecordError(err)
		return err
	}

	subject := Subject(ev.Type)
	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.nc.Publish(subject, data); err != nil {
		span.RecordError(err)
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}

	p.logger.Debug("published job posting event",
		zap.String("subject", subject),
		zap.String("id", ev.ID))
	return nil
}

// Encode renders ev as the JSON message body.
func Encode(ev posting.Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}
	return data, nil
}

func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return err
	}
	return nil
}
