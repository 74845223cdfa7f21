package download

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// SecretSalt is prepended to the signed string. It is fixed by the storage
// protocol and must not change.
const SecretSalt = "XGRlBW9FXlekgbPrRHuSiA"

// SigningURL returns downloadInfoURL with format=json appended.
func SigningURL(downloadInfoURL string) string {
	sep := "?"
	if strings.Contains(downloadInfoURL, "?") {
		sep = "&"
	}
	return downloadInfoURL + sep + "format=json"
}

// MissingFields returns the names of empty signing fields in wire order.
func MissingFields(p SigningParams) []string {
	var missing []string
	if p.S == "" {
		missing = append(missing, "s")
	}
	if p.TS == "" {
		missing = append(missing, "ts")
	}
	if p.Path == "" {
		missing = append(missing, "path")
	}
	if p.Host == "" {
		missing = append(missing, "host")
	}
	return missing
}

// Sign returns the lowercase hex MD5 of the salted path and s value.
// path must be non-empty.
func Sign(p SigningParams) string {
	sum := md5.Sum([]byte(SecretSalt + p.Path[1:] + p.S))
	return hex.EncodeToString(sum[:])
}

// BuildLink assembles the signed download link. It returns an
// InvalidResponseError when any signing field is empty.
func BuildLink(p SigningParams) (*Link, error) {
	if missing := MissingFields(p); len(missing) > 0 {
		return nil, &InvalidResponseError{
			Missing: missing,
			Message: MsgInvalidSigningParams,
		}
	}

	return &Link{
		DownloadLink: "https://" + p.Host + "/get-mp3/" + Sign(p) + "/" + p.TS + p.Path,
	}, nil
}
