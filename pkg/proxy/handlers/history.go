package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"yaproxy-hq/yaproxy/pkg/proxy"
	"yaproxy-hq/yaproxy/pkg/proxy/types"
)

const (
	// DefaultHistoryLimit is used when ?limit is absent.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps ?limit.
	MaxHistoryLimit = 500

	msgHistoryFailure = "Error reading resolution history"
)

// HistoryHandler serves GET /history.
type HistoryHandler struct {
	reader HistoryReader
	logger *slog.Logger
}

// NewHistoryHandler creates a history handler. logger may be nil.
func NewHistoryHandler(reader HistoryReader, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandler{
		reader: reader,
		logger: logger.With("component", "handlers.history"),
	}
}

// ServeHTTP writes the most recent records, newest first.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		proxy.WriteErrorResponse(w, proxy.HandleError(err, ""))
		return
	}

	ctx := r.Context()

	records, err := h.reader.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read history", "error", err)
		proxy.WriteErrorResponse(w, proxy.HandleError(err, msgHistoryFailure))
		return
	}

	total, err := h.reader.Count(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count history", "error", err)
		proxy.WriteErrorResponse(w, proxy.HandleError(err, msgHistoryFailure))
		return
	}

	resp := types.HistoryResponse{
		Records: make([]types.HistoryRecord, 0, len(records)),
		Total:   total,
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, types.HistoryRecord{
			ID:         rec.ID,
			RequestID:  rec.RequestID,
			TrackID:    rec.TrackID,
			Codec:      rec.Codec,
			Outcome:    rec.Outcome,
			Error:      rec.Error,
			DurationMS: rec.DurationMS,
			CreatedAt:  rec.CreatedAt,
		})
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		h.logger.DebugContext(ctx, "failed to write response", "error", err)
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, &proxy.RequestError{Param: "limit", Message: "limit must be a positive integer"}
	}
	return min(limit, MaxHistoryLimit), nil
}
