package wire

// User represents one connection's participation record within a room.
// The ID is the connection's opaque identifier, stable for the connection's
// lifetime; Name defaults to a placeholder derived from the connection ID
// when the client does not supply one.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
