package handlers

import (
	"context"
	"encoding/json"

	"yaproxy-hq/yaproxy/pkg/download"
	"yaproxy-hq/yaproxy/pkg/history"
)

// Upstream is the pass-through surface of the Yandex Music client.
type Upstream interface {
	AccountStatus(ctx context.Context) (json.RawMessage, error)
	Track(ctx context.Context, trackID string) (json.RawMessage, error)
	LikedTracks(ctx context.Context, userID string) (json.RawMessage, error)
	TrackSupplement(ctx context.Context, trackID string) (json.RawMessage, error)
	TrackLyrics(ctx context.Context, trackID string) (json.RawMessage, error)
}

// Resolver produces a signed download link for a track.
type Resolver interface {
	Resolve(ctx context.Context, trackID string) (*download.Link, error)
}

// HistoryReader reads recorded resolutions.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]*history.Record, error)
	Count(ctx context.Context) (int64, error)
}
