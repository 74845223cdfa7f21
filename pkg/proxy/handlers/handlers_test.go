package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yaproxy-hq/yaproxy/pkg/download"
	"yaproxy-hq/yaproxy/pkg/history"
	"yaproxy-hq/yaproxy/pkg/proxy/types"
	"yaproxy-hq/yaproxy/pkg/yandex"
)

type fakeUpstream struct {
	body   json.RawMessage
	err    error
	gotIDs []string
}

func (f *fakeUpstream) call(id string) (json.RawMessage, error) {
	f.gotIDs = append(f.gotIDs, id)
	return f.body, f.err
}

func (f *fakeUpstream) AccountStatus(context.Context) (json.RawMessage, error) {
	return f.call("")
}
func (f *fakeUpstream) Track(_ context.Context, id string) (json.RawMessage, error) {
	return f.call(id)
}
func (f *fakeUpstream) LikedTracks(_ context.Context, id string) (json.RawMessage, error) {
	return f.call(id)
}
func (f *fakeUpstream) TrackSupplement(_ context.Context, id string) (json.RawMessage, error) {
	return f.call(id)
}
func (f *fakeUpstream) TrackLyrics(_ context.Context, id string) (json.RawMessage, error) {
	return f.call(id)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var env types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, rec.Body.String())
	}
	return env
}

type endpointCase struct {
	name    string
	param   string
	handler func(h *YandexHandler) http.HandlerFunc
	message string
}

var endpoints = []endpointCase{
	{"account status", "", func(h *YandexHandler) http.HandlerFunc { return h.AccountStatus }, MsgAccountStatusFailure},
	{"track", "trackId", func(h *YandexHandler) http.HandlerFunc { return h.Track }, MsgTrackFailure},
	{"liked tracks", "userId", func(h *YandexHandler) http.HandlerFunc { return h.LikedTracks }, MsgLikedTracksFailure},
	{"supplement", "trackId", func(h *YandexHandler) http.HandlerFunc { return h.TrackSupplement }, MsgTrackSupplementFailure},
}

func TestYandexHandler_PassThroughBody(t *testing.T) {
	body := json.RawMessage(`{"invocationInfo":{"req-id":"x"},"result":{"id":"42"}}`)

	all := append(endpoints, endpointCase{"lyrics", "trackId", func(h *YandexHandler) http.HandlerFunc { return h.TrackLyrics }, ""})
	for _, ep := range all {
		t.Run(ep.name, func(t *testing.T) {
			up := &fakeUpstream{body: body}
			h := NewYandexHandler(up, nil)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if ep.param != "" {
				req.SetPathValue(ep.param, " 42 ")
			}
			rec := httptest.NewRecorder()
			ep.handler(h)(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if rec.Body.String() != string(body) {
				t.Errorf("body = %s, want upstream body unchanged", rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q", ct)
			}
			if ep.param != "" && (len(up.gotIDs) != 1 || up.gotIDs[0] != "42") {
				t.Errorf("upstream called with %v, want trimmed [42]", up.gotIDs)
			}
		})
	}
}

func TestYandexHandler_GenericErrors(t *testing.T) {
	upstreamErr := &yandex.UpstreamError{Endpoint: "x", StatusCode: 502, Body: "secret upstream detail"}

	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			h := NewYandexHandler(&fakeUpstream{err: upstreamErr}, nil)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if ep.param != "" {
				req.SetPathValue(ep.param, "1")
			}
			rec := httptest.NewRecorder()
			ep.handler(h)(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			env := decodeError(t, rec)
			if env.StatusCode != 500 || env.Message != ep.message || env.Error != "Internal Server Error" {
				t.Errorf("envelope = %+v", env)
			}
			if strings.Contains(rec.Body.String(), "secret") {
				t.Error("upstream body leaked into response")
			}
		})
	}
}

func TestYandexHandler_LyricsErrorIncludesCause(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "status",
			err:  &yandex.NotFoundError{Endpoint: yandex.EndpointTrackLyrics, Message: "no lyrics"},
			want: "Error fetching track lyrics from Yandex Music API: Request failed with status code 404",
		},
		{
			name: "transport",
			err:  &yandex.UpstreamError{Endpoint: yandex.EndpointTrackLyrics, Cause: errors.New("connection refused")},
			want: "Error fetching track lyrics from Yandex Music API: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewYandexHandler(&fakeUpstream{err: tt.err}, nil)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("trackId", "7")
			rec := httptest.NewRecorder()
			h.TrackLyrics(rec, req)

			env := decodeError(t, rec)
			if rec.Code != 500 || env.Message != tt.want {
				t.Errorf("got %d %q, want 500 %q", rec.Code, env.Message, tt.want)
			}
		})
	}
}

func TestYandexHandler_MissingParam(t *testing.T) {
	tests := []struct {
		name    string
		handler func(h *YandexHandler) http.HandlerFunc
		want    string
	}{
		{"track", func(h *YandexHandler) http.HandlerFunc { return h.Track }, "trackId is required"},
		{"liked", func(h *YandexHandler) http.HandlerFunc { return h.LikedTracks }, "userId is required"},
		{"lyrics", func(h *YandexHandler) http.HandlerFunc { return h.TrackLyrics }, "trackId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{}
			h := NewYandexHandler(up, nil)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("trackId", "  ")
			rec := httptest.NewRecorder()
			tt.handler(h)(rec, req)

			env := decodeError(t, rec)
			if rec.Code != http.StatusBadRequest || env.Message != tt.want || env.Error != "Bad Request" {
				t.Errorf("got %d %+v", rec.Code, env)
			}
			if len(up.gotIDs) != 0 {
				t.Error("upstream called despite missing parameter")
			}
		})
	}
}

type fakeResolver struct {
	link *download.Link
	err  error
}

func (f *fakeResolver) Resolve(context.Context, string) (*download.Link, error) {
	return f.link, f.err
}

func TestDownloadHandler(t *testing.T) {
	const link = "https://example.net/get-mp3/62e5a55231da29565f06442b9ff6b1e1/111/1/2/abc123"

	tests := []struct {
		name       string
		trackID    string
		resolver   *fakeResolver
		wantStatus int
		wantBody   string
		wantMsg    string
	}{
		{
			name:       "success",
			trackID:    "123",
			resolver:   &fakeResolver{link: &download.Link{DownloadLink: link}},
			wantStatus: 200,
			wantBody:   `{"downloadLink":"` + link + `"}`,
		},
		{
			name:       "not found",
			trackID:    "123",
			resolver:   &fakeResolver{err: &download.NotFoundError{Message: download.MsgDownloadInfoNotFound}},
			wantStatus: 404,
			wantMsg:    download.MsgDownloadInfoNotFound,
		},
		{
			name:       "no url",
			trackID:    "123",
			resolver:   &fakeResolver{err: &download.NotFoundError{Message: download.MsgNoDownloadInfoURL}},
			wantStatus: 404,
			wantMsg:    download.MsgNoDownloadInfoURL,
		},
		{
			name:       "invalid signing params",
			trackID:    "123",
			resolver:   &fakeResolver{err: &download.InvalidResponseError{Missing: []string{"s"}, Message: download.MsgInvalidSigningParams}},
			wantStatus: 500,
			wantMsg:    download.MsgInvalidSigningParams,
		},
		{
			name:    "upstream",
			trackID: "123",
			resolver: &fakeResolver{err: &download.UpstreamError{
				Step:  "download_info",
				Cause: &yandex.AuthError{StatusCode: 401, Message: "bad token"},
			}},
			wantStatus: 500,
			wantMsg:    download.MsgUpstreamFailure,
		},
		{
			name:       "missing track id",
			trackID:    "",
			resolver:   &fakeResolver{},
			wantStatus: 400,
			wantMsg:    "trackId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDownloadHandler(tt.resolver, nil)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("trackId", tt.trackID)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
			if tt.wantMsg != "" {
				env := decodeError(t, rec)
				if env.Message != tt.wantMsg || env.StatusCode != tt.wantStatus {
					t.Errorf("envelope = %+v", env)
				}
			}
		})
	}
}

type fakeHistory struct {
	records  []*history.Record
	err      error
	gotLimit int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]*history.Record, error) {
	f.gotLimit = limit
	return f.records, f.err
}

func (f *fakeHistory) Count(context.Context) (int64, error) {
	return int64(len(f.records)), f.err
}

func TestHistoryHandler(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	records := []*history.Record{
		{ID: "b", RequestID: "req-2", TrackID: "2", Outcome: "not_found", Error: "Track download information not found", CreatedAt: created},
		{ID: "a", TrackID: "1", Codec: "mp3", Outcome: "success", DurationMS: 40, CreatedAt: created.Add(-time.Minute)},
	}

	tests := []struct {
		name       string
		query      string
		store      *fakeHistory
		wantStatus int
		wantLimit  int
	}{
		{"default limit", "", &fakeHistory{records: records}, 200, DefaultHistoryLimit},
		{"explicit limit", "?limit=5", &fakeHistory{records: records}, 200, 5},
		{"capped limit", "?limit=10000", &fakeHistory{records: records}, 200, MaxHistoryLimit},
		{"zero limit", "?limit=0", &fakeHistory{}, 400, 0},
		{"bad limit", "?limit=abc", &fakeHistory{}, 400, 0},
		{"storage error", "", &fakeHistory{err: errors.New("db locked")}, 500, DefaultHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistoryHandler(tt.store, nil)

			req := httptest.NewRequest(http.MethodGet, "/history"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.store.gotLimit != tt.wantLimit {
				t.Errorf("Recent limit = %d, want %d", tt.store.gotLimit, tt.wantLimit)
			}
			if tt.wantStatus != 200 {
				env := decodeError(t, rec)
				if tt.wantStatus == 500 && (env.Message != msgHistoryFailure || strings.Contains(rec.Body.String(), "db locked")) {
					t.Errorf("envelope = %+v", env)
				}
				return
			}

			var resp types.HistoryResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Total != 2 || len(resp.Records) != 2 {
				t.Fatalf("resp = %+v", resp)
			}
			if resp.Records[0].ID != "b" || resp.Records[0].RequestID != "req-2" || resp.Records[1].Codec != "mp3" {
				t.Errorf("records = %+v", resp.Records)
			}
		})
	}
}

func TestHistoryHandler_EmptyIsArray(t *testing.T) {
	h := NewHistoryHandler(&fakeHistory{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

	if !strings.Contains(rec.Body.String(), `"records":[]`) {
		t.Errorf("body = %s, want empty records array", rec.Body.String())
	}
}
