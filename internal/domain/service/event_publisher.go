package service

import (
	"context"
	"time"
)

// Account event types.
const (
	AccountEventRegistered       = "account.registered"
	AccountEventDeleted          = "account.deleted"
	AccountEventDocumentUploaded = "document.uploaded"
)

// AccountEvent describes a change to an account for downstream consumers such as audit trails.
type AccountEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	DocumentID string    `json:"document_id,omitempty"`
	Documents  int       `json:"documents,omitempty"` // Number of documents removed by a deletion
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountEvent publishes an account event
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
