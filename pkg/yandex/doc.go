// Package yandex is a client for the Yandex Music API.
//
// Every request carries "Authorization: OAuth <token>". API calls also send
// Accept-Language (default "ru"); the signing-parameters request to the
// storage host does not.
//
// Non-2xx responses map to typed errors: AuthError (401/403),
// NotFoundError (404), RateLimitError (429) and UpstreamError for the rest
// and for transport failures. Undecodable bodies produce a ParseError.
//
// The client never retries. It tracks consecutive failures and reports
// itself unhealthy after three in a row; Ready exposes that as a readiness
// check.
package yandex
