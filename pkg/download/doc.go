// Package download resolves a Yandex Music track ID into a signed,
// short-lived download link.
//
// Resolution is two sequential upstream calls:
//
//  1. GET /tracks/{id}/download-info lists the available descriptors. The
//     first full-length mp3 is chosen, otherwise the first descriptor.
//  2. The chosen descriptor's downloadInfoUrl, fetched with format=json,
//     returns the signing parameters s, ts, path and host.
//
// The link is
//
//	https://{host}/get-mp3/{md5(salt + path[1:] + s)}/{ts}{path}
//
// SelectDescriptor, SigningURL and BuildLink are pure and usable without a
// client. Errors are typed: NotFoundError, InvalidResponseError and
// UpstreamError, matched with errors.As.
package download
