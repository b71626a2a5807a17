/*
Package wire defines the protocol shared between the server and its clients:
the message envelope exchanged over the WebSocket connection, the payload
structures for every event type in both directions, and the shape and user
records those payloads carry.

It is imported by the server's room-synchronization core and by client-side
code (see pkg/reconcile), so the two sides always agree on field names and
framing.
*/
package wire

import "encoding/json"

// MessageType identifies the kind of event carried by an Envelope.
type MessageType string

// Client -> server events.
const (
	TypeJoinRoom     MessageType = "join-room"
	TypeGetRoomList  MessageType = "get-room-list"
	TypeShapeAdded   MessageType = "shape-added"
	TypeShapeMoved   MessageType = "shape-moved"
	TypeShapeDeleted MessageType = "shape-deleted"
	TypeCursorMove   MessageType = "cursor-move"
	TypeUserAction   MessageType = "user-action"
)

// Server -> client events. Shape and presence events are relayed under their
// client-facing type names above.
const (
	TypeRoomState  MessageType = "room-state"
	TypeUserJoined MessageType = "user-joined"
	TypeUserLeft   MessageType = "user-left"
	TypeRoomList   MessageType = "room-list"
)

// Envelope is the framing structure for every WebSocket text message.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload and wraps it in an Envelope of the given type,
// returning the complete wire frame.
func NewMessage(msgType MessageType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		Type:    msgType,
		Payload: payloadBytes,
	})
}

// JoinRoomPayload is sent by a client to join (or switch to) a named room.
// UserName is optional; a placeholder is derived from the connection ID
// when absent.
type JoinRoomPayload struct {
	RoomName string `json:"roomName"`
	UserName string `json:"userName,omitempty"`
}

// RoomStatePayload is the full room snapshot sent to a joining connection only.
// Users excludes the joiner itself.
type RoomStatePayload struct {
	Shapes []Shape `json:"shapes"`
	Users  []User  `json:"users"`
}

// UserEventPayload notifies remaining members that a user joined or left.
type UserEventPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// MovePayload replaces the position of the shape with the matching ID.
type MovePayload struct {
	ID       string `json:"id"`
	Position Vec3   `json:"position"`
}

// DeletePayload removes the shape with the matching ID.
type DeletePayload struct {
	ID string `json:"id"`
}

// CursorPayload carries an ephemeral cursor position. The server relays it
// annotated with the sender's identity; it is never stored in room state.
type CursorPayload struct {
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
	Position Vec3   `json:"position"`
	Color    string `json:"color,omitempty"`
}

// ActionPayload carries a short human-readable activity notification,
// e.g. "added: cube". Purely informational, never affects room state.
type ActionPayload struct {
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
	Action   string `json:"action"`
	Target   string `json:"target"`
}

// RoomInfo is one entry of the discovery snapshot returned for get-room-list.
type RoomInfo struct {
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
}
