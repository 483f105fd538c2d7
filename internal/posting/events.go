package posting

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event describes a committed change. Posting is nil for deletions.
type Event struct {
	Type    EventType   `json:"type"`
	ID      string      `json:"id"`
	Posting *JobPosting `json:"posting,omitempty"`
	At      time.Time   `json:"at"`
}

// Publisher announces committed changes. Delivery is best effort: a publish
// failure never undoes or fails the change itself.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
