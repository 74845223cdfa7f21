// Package handlers provides the HTTP handlers behind the gateway routes.
//
//   - YandexHandler relays account, track, liked tracks, supplement and
//     lyrics JSON from the Yandex Music API unchanged.
//   - DownloadHandler runs the download link resolver and answers
//     {"downloadLink": "https://..."}.
//   - HistoryHandler lists recent resolutions when history is enabled.
//
// Every failure is written as the error envelope
//
//	{"statusCode": 500, "message": "Error fetching track data from Yandex Music API", "error": "Internal Server Error"}
//
// using proxy.HandleError, so upstream details are logged but never returned.
// The lyrics endpoint is the one exception: its message ends with a short
// cause such as "Request failed with status code 404".
//
// Handlers depend on small interfaces (Upstream, Resolver, HistoryReader) and
// are tested with fakes.
package handlers
