package history

import (
	"context"
	"time"
)

// Record is one resolution attempt. The signed link itself is never stored;
// it is short-lived and grants access to the audio file.
type Record struct {
	// ID is a UUID assigned when the record is created.
	ID string `json:"id"`

	// RequestID correlates the record with the HTTP request log.
	RequestID string `json:"request_id,omitempty"`

	TrackID string `json:"track_id"`

	// Codec of the selected descriptor, empty when nothing was selected.
	Codec string `json:"codec,omitempty"`

	// Outcome is one of the download.Outcome* labels.
	Outcome string `json:"outcome"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`

	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Storage persists resolution records.
//
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// DeleteOlderThan removes records created before cutoff and returns
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
