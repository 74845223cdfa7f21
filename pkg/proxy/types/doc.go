// Package types defines the JSON bodies written by the gateway that do not
// come from the upstream API: the error envelope and the history listing.
//
// Successful pass-through responses are forwarded byte for byte and have no
// type here. The download endpoint returns download.Link.
package types
