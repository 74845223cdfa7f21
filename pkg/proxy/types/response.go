package types

import "time"

// HistoryRecord is one entry of the /history response.
type HistoryRecord struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"requestId,omitempty"`
	TrackID    string    `json:"trackId"`
	Codec      string    `json:"codec,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	Records []HistoryRecord `json:"records"`
	Total   int64           `json:"total"`
}
