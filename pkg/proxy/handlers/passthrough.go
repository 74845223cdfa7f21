package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"yaproxy-hq/yaproxy/pkg/proxy"
	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
	"yaproxy-hq/yaproxy/pkg/yandex"
)

// Caller-facing messages for pass-through failures.
const (
	MsgAccountStatusFailure   = "Error fetching account status from Yandex Music API"
	MsgTrackFailure           = "Error fetching track data from Yandex Music API"
	MsgLikedTracksFailure     = "Error fetching liked tracks from Yandex Music API"
	MsgTrackSupplementFailure = "Error fetching track supplement information from Yandex Music API"
	MsgTrackLyricsFailure     = "Error fetching track lyrics from Yandex Music API"
)

// YandexHandler serves the endpoints that relay an upstream JSON body
// unchanged.
type YandexHandler struct {
	upstream Upstream
	logger   *slog.Logger
}

// NewYandexHandler creates a pass-through handler. logger may be nil.
func NewYandexHandler(upstream Upstream, logger *slog.Logger) *YandexHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &YandexHandler{
		upstream: upstream,
		logger:   logger.With("component", "handlers.yandex"),
	}
}

// AccountStatus handles GET / and GET /yandex-music/account/status.
func (h *YandexHandler) AccountStatus(w http.ResponseWriter, r *http.Request) {
	body, err := h.upstream.AccountStatus(r.Context())
	h.respond(w, r, body, err, staticMessage(MsgAccountStatusFailure))
}

// Track handles GET /yandex-music/track/{trackId}.
func (h *YandexHandler) Track(w http.ResponseWriter, r *http.Request) {
	h.byParam(w, r, "trackId", h.upstream.Track, staticMessage(MsgTrackFailure))
}

// LikedTracks handles GET /yandex-music/users/{userId}/likes/tracks.
func (h *YandexHandler) LikedTracks(w http.ResponseWriter, r *http.Request) {
	h.byParam(w, r, "userId", h.upstream.LikedTracks, staticMessage(MsgLikedTracksFailure))
}

// TrackSupplement handles GET /yandex-music/tracks/{trackId}/supplement.
func (h *YandexHandler) TrackSupplement(w http.ResponseWriter, r *http.Request) {
	h.byParam(w, r, "trackId", h.upstream.TrackSupplement, staticMessage(MsgTrackSupplementFailure))
}

// TrackLyrics handles GET /yandex-music/tracks/{trackId}/lyrics. Unlike the
// other endpoints its error message includes the upstream cause.
func (h *YandexHandler) TrackLyrics(w http.ResponseWriter, r *http.Request) {
	h.byParam(w, r, "trackId", h.upstream.TrackLyrics, func(err error) string {
		return MsgTrackLyricsFailure + ": " + yandex.CauseMessage(err)
	})
}

func staticMessage(msg string) func(error) string {
	return func(error) string { return msg }
}

func (h *YandexHandler) byParam(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	call func(ctx context.Context, id string) (json.RawMessage, error),
	message func(error) string,
) {
	id, err := proxy.PathParam(r, param)
	if err != nil {
		proxy.WriteErrorResponse(w, proxy.HandleError(err, ""))
		return
	}

	ctx := r.Context()
	if param == "trackId" {
		ctx = logging.WithTrackID(ctx, id)
		r = r.WithContext(ctx)
	}

	body, err := call(ctx, id)
	h.respond(w, r, body, err, message)
}

func (h *YandexHandler) respond(w http.ResponseWriter, r *http.Request, body json.RawMessage, err error, message func(error) string) {
	if err != nil {
		h.logger.ErrorContext(r.Context(), "upstream request failed",
			"route", logging.GetRoute(r.Context()),
			"error_type", yandex.ErrorType(err),
			"error", err,
		)
		proxy.WriteErrorResponse(w, proxy.HandleError(err, message(err)))
		return
	}

	if err := proxy.WriteRawJSON(w, http.StatusOK, body); err != nil {
		h.logger.DebugContext(r.Context(), "failed to write response", "error", err)
	}
}
