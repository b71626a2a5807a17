/*
Package scene contains the core logic for real-time collaborative scene editing.

This file defines the Room struct, the authoritative state for one collaboration
space. All state-mutating operations on a room (join, leave, shape events) are
serialized by the room mutex, so the shapes sequence always reflects a
consistent interleaving of all members' operations in server-arrival order.
*/
package scene

import (
	"sync"

	"github.com/rs/zerolog"

	"scenesync/internal/pkg/logx"
	"scenesync/pkg/wire"
)

// Room represents one named, ephemeral collaboration space.
//
// A room is created by the Registry on first join and removed from the Registry
// synchronously when its last member leaves; a room with zero members never
// exists in the Registry.
type Room struct {
	// Name is the unique, case-sensitive room key chosen by the first joiner.
	Name string

	// mu serializes every mutation of members and shapes. Broadcast happens
	// under the same lock so recipients observe events in application order.
	mu sync.Mutex

	// members maps connection ID to the member's client.
	members map[string]*Client

	// shapes is the ordered object list; insertion order is the snapshot order.
	shapes []wire.Shape

	// structured logger with room context.
	logger zerolog.Logger
}

// newRoom creates an empty room. Callers insert it into the Registry themselves.
func newRoom(name string) *Room {
	roomLogger := logx.Logger().With().
		Str("room", name).
		Logger()

	return &Room{
		Name:    name,
		members: make(map[string]*Client),
		shapes:  make([]wire.Shape, 0),
		logger:  roomLogger,
	}
}

// MemberCount returns the current number of members.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.members)
}

// Shapes returns a copy of the room's ordered object list.
func (r *Room) Shapes() []wire.Shape {
	r.mu.Lock()
	defer r.mu.Unlock()

	shapes := make([]wire.Shape, len(r.shapes))
	copy(shapes, r.shapes)
	return shapes
}

// snapshotLocked builds the room-state payload for a joining connection:
// the full shape list and every member except the joiner itself.
// Caller must hold r.mu.
func (r *Room) snapshotLocked(excludeID string) wire.RoomStatePayload {
	shapes := make([]wire.Shape, len(r.shapes))
	copy(shapes, r.shapes)

	users := make([]wire.User, 0, len(r.members))
	for id, member := range r.members {
		if id == excludeID {
			continue
		}
		users = append(users, wire.User{ID: member.id, Name: member.name})
	}

	return wire.RoomStatePayload{Shapes: shapes, Users: users}
}

// broadcastLocked fans the frame out to every member except the sender.
// The recipient set is computed explicitly (members minus sender); each send is
// fire-and-forget, so a slow or disconnected recipient never stalls the sender
// or the other recipients. Caller must hold r.mu.
func (r *Room) broadcastLocked(senderID string, frame []byte) {
	for id, member := range r.members {
		if id == senderID {
			continue
		}
		member.enqueue(frame)
	}
}

// AddShape appends the shape to the room's object list and relays the event to
// the other members. Duplicate IDs are accepted as-is; see the wire.Shape doc.
func (r *Room) AddShape(sender *Client, shape wire.Shape) {
	frame, err := wire.NewMessage(wire.TypeShapeAdded, shape)
	if err != nil {
		r.logger.Error().Err(err).Str("shape_id", shape.ID).Msg("Failed to build shape-added frame.")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.shapes = append(r.shapes, shape)
	r.broadcastLocked(sender.id, frame)
}

// MoveShape replaces the position of the first shape matching id (last-write-wins)
// and relays the event to the other members regardless of whether a match was
// found locally. A missing shape is never an error.
func (r *Room) MoveShape(sender *Client, id string, position wire.Vec3) {
	frame, err := wire.NewMessage(wire.TypeShapeMoved, wire.MovePayload{ID: id, Position: position})
	if err != nil {
		r.logger.Error().Err(err).Str("shape_id", id).Msg("Failed to build shape-moved frame.")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.shapes {
		if r.shapes[i].ID == id {
			r.shapes[i].Position = position
			break
		}
	}

	r.broadcastLocked(sender.id, frame)
}

// DeleteShape removes every shape matching id (no-op if absent) and relays the
// event to the other members unconditionally.
func (r *Room) DeleteShape(sender *Client, id string) {
	frame, err := wire.NewMessage(wire.TypeShapeDeleted, wire.DeletePayload{ID: id})
	if err != nil {
		r.logger.Error().Err(err).Str("shape_id", id).Msg("Failed to build shape-deleted frame.")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.shapes[:0]
	for _, s := range r.shapes {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	r.shapes = kept

	r.broadcastLocked(sender.id, frame)
}

// RelayCursor forwards an ephemeral cursor position to the other members,
// annotated with the sender's identity. Cursor positions are never stored.
func (r *Room) RelayCursor(sender *Client, position wire.Vec3, color string) {
	frame, err := wire.NewMessage(wire.TypeCursorMove, wire.CursorPayload{
		UserID:   sender.id,
		UserName: sender.name,
		Position: position,
		Color:    color,
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build cursor-move frame.")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(sender.id, frame)
}

// RelayAction forwards a short human-readable activity notification to the
// other members, annotated with the sender's identity.
func (r *Room) RelayAction(sender *Client, action string, target string) {
	frame, err := wire.NewMessage(wire.TypeUserAction, wire.ActionPayload{
		UserID:   sender.id,
		UserName: sender.name,
		Action:   action,
		Target:   target,
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build user-action frame.")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(sender.id, frame)
}
