/*
Package randx provides generation of connection identifiers and fallback display names.

Connection IDs are opaque UUID v4 strings assigned once per WebSocket connection and
stable for its lifetime. Display names fall back to a placeholder derived from the
connection ID when the client does not provide one.
*/
package randx

import (
	"github.com/google/uuid"
)

// ShortIDLength is the number of leading connection-ID characters used in
// generated placeholder display names.
const ShortIDLength = 6

// ConnectionID generates a new opaque unique identifier for a connection.
func ConnectionID() string {
	return uuid.NewString()
}

// ShortID returns the leading ShortIDLength characters of the given identifier,
// or the whole identifier if it is shorter.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// DefaultDisplayName derives a placeholder display name from a connection ID,
// e.g. "User-3f9a1c".
func DefaultDisplayName(connID string) string {
	return "User-" + ShortID(connID)
}
