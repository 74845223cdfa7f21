package handlers

import (
	"log/slog"
	"net/http"

	"yaproxy-hq/yaproxy/pkg/download"
	"yaproxy-hq/yaproxy/pkg/proxy"
	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
)

// DownloadHandler serves GET /yandex-music/track/{trackId}/download.
type DownloadHandler struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewDownloadHandler creates a download link handler. logger may be nil.
func NewDownloadHandler(resolver Resolver, logger *slog.Logger) *DownloadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DownloadHandler{
		resolver: resolver,
		logger:   logger.With("component", "handlers.download"),
	}
}

// ServeHTTP resolves the track and writes {"downloadLink": "..."}.
// Resolver failures are logged by the resolver itself.
func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	trackID, err := proxy.PathParam(r, "trackId")
	if err != nil {
		proxy.WriteErrorResponse(w, proxy.HandleError(err, ""))
		return
	}

	ctx := logging.WithTrackID(r.Context(), trackID)

	link, err := h.resolver.Resolve(ctx, trackID)
	if err != nil {
		proxy.WriteErrorResponse(w, proxy.HandleError(err, download.MsgUpstreamFailure))
		return
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, link); err != nil {
		h.logger.DebugContext(ctx, "failed to write response", "error", err)
	}
}
