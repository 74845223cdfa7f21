// Package proxy holds the shared pieces of the HTTP gateway: the error
// envelope mapping, response writers and path parameter helpers.
//
// Handlers live in proxy/handlers, cross-cutting middleware in
// proxy/middleware and response bodies in proxy/types.
//
// # Error envelope
//
// Every failure is written as
//
//	{"statusCode": 500, "message": "Error fetching track data from Yandex Music API", "error": "Internal Server Error"}
//
// HandleError keeps the message of resolver not-found (404) and
// invalid-response (500) errors. Other failures get the endpoint's generic
// message; their cause is logged by the handler.
package proxy
