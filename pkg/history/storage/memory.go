package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"yaproxy-hq/yaproxy/pkg/history"
)

// MemoryStorage is an in-memory Storage. Records are lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*history.Record
	closed  bool
}

// NewMemoryStorage creates an empty in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *history.Record) error {
	if err := ctx.Err(); err != nil {
		return history.NewStorageError("memory", "store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.NewStorageError("memory", "store", history.ErrClosed)
	}

	rec := *record
	s.records = append(s.records, &rec)
	return nil
}

// Recent returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *MemoryStorage) Recent(ctx context.Context, limit int) ([]*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.NewStorageError("memory", "recent", history.ErrClosed)
	}

	// Walk backwards so that, for equal timestamps, the later insert wins.
	out := make([]*history.Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := *s.records[i]
		out = append(out, &rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteOlderThan removes records created before cutoff.
func (s *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, history.NewStorageError("memory", "delete", history.ErrClosed)
	}

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = kept

	return deleted, nil
}

// Count returns the number of stored records.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.NewStorageError("memory", "count", history.ErrClosed)
	}
	return int64(len(s.records)), nil
}

// Ping fails only after Close.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.NewStorageError("memory", "ping", history.ErrClosed)
	}
	return nil
}

// Close drops all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	return nil
}
