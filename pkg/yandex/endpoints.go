package yandex

import (
	"context"
	"encoding/json"

	"yaproxy-hq/yaproxy/pkg/download"
)

// Endpoint names used for metrics labels and span names.
const (
	EndpointAccountStatus   = "account_status"
	EndpointTrack           = "track"
	EndpointLikedTracks     = "liked_tracks"
	EndpointTrackSupplement = "track_supplement"
	EndpointTrackLyrics     = "track_lyrics"
	EndpointDownloadInfo    = "download_info"
	EndpointSigningParams   = "signing_params"
)

// AccountStatus returns GET /account/status unchanged.
func (c *Client) AccountStatus(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, EndpointAccountStatus, c.apiURL("account", "status"))
}

// Track returns GET /tracks/{trackID} unchanged.
func (c *Client) Track(ctx context.Context, trackID string) (json.RawMessage, error) {
	return c.getRaw(ctx, EndpointTrack, c.apiURL("tracks", trackID))
}

// LikedTracks returns GET /users/{userID}/likes/tracks unchanged.
func (c *Client) LikedTracks(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.getRaw(ctx, EndpointLikedTracks, c.apiURL("users", userID, "likes", "tracks"))
}

// TrackSupplement returns GET /tracks/{trackID}/supplement unchanged.
func (c *Client) TrackSupplement(ctx context.Context, trackID string) (json.RawMessage, error) {
	return c.getRaw(ctx, EndpointTrackSupplement, c.apiURL("tracks", trackID, "supplement"))
}

// TrackLyrics returns GET /tracks/{trackID}/lyrics unchanged.
func (c *Client) TrackLyrics(ctx context.Context, trackID string) (json.RawMessage, error) {
	return c.getRaw(ctx, EndpointTrackLyrics, c.apiURL("tracks", trackID, "lyrics"))
}

type downloadInfoResponse struct {
	Result []download.Descriptor `json:"result"`
}

// DownloadInfo returns the download descriptors of a track. A response
// without a result list yields an empty slice.
func (c *Client) DownloadInfo(ctx context.Context, trackID string) ([]download.Descriptor, error) {
	var resp downloadInfoResponse
	if err := c.getJSON(ctx, EndpointDownloadInfo, c.apiURL("tracks", trackID, "download-info"), true, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// SigningParams fetches rawURL, which already carries format=json, and
// decodes the signing parameters. Only the Authorization header is sent.
func (c *Client) SigningParams(ctx context.Context, rawURL string) (*download.SigningParams, error) {
	var params download.SigningParams
	if err := c.getJSON(ctx, EndpointSigningParams, rawURL, false, &params); err != nil {
		return nil, err
	}
	return &params, nil
}
