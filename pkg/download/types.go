package download

import "time"

// Descriptor is one download option returned by the upstream
// download-info endpoint.
type Descriptor struct {
	// Codec is the audio codec ("mp3", "aac", ...)
	Codec string `json:"codec"`

	// Preview marks a truncated preview rather than the full track
	Preview bool `json:"preview"`

	// DownloadInfoURL is dereferenced to obtain the signing parameters
	DownloadInfoURL string `json:"downloadInfoUrl"`

	// BitrateInKbps, Gain and Direct are decoded but not used by selection
	BitrateInKbps int  `json:"bitrateInKbps,omitempty"`
	Gain          bool `json:"gain,omitempty"`
	Direct        bool `json:"direct,omitempty"`
}

// SigningParams are the values returned by a downloadInfoUrl. All four are
// required to build a link.
type SigningParams struct {
	S    string `json:"s"`
	TS   string `json:"ts"`
	Path string `json:"path"`
	Host string `json:"host"`
}

// Link is the resolved, signed download URL.
type Link struct {
	DownloadLink string `json:"downloadLink"`
}

// Outcome labels for a resolution, shared by metrics and history.
const (
	OutcomeSuccess         = "success"
	OutcomeNotFound        = "not_found"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeUpstreamError   = "upstream_error"
)

// Result summarizes one Resolve call for observers.
type Result struct {
	TrackID  string
	Codec    string
	Fallback bool
	Outcome  string
	Err      error
	Duration time.Duration
}
