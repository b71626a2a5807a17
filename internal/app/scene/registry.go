/*
Package scene contains the core logic for real-time collaborative scene editing.

This file defines the Registry struct, the process-wide mapping from room name
to Room. It owns the room lifecycle: a room is created on the first join to an
unknown name and destroyed, synchronously, when its last member leaves. The
Registry is constructed once at server start and injected into the
connection-handling path; it is never accessed as ambient global state.
*/
package scene

import (
	"sync"

	"github.com/rs/zerolog"

	"scenesync/internal/pkg/logx"
	"scenesync/pkg/wire"
)

// Registry coordinates all active rooms.
//
// Lock ordering is Registry.mu before Room.mu, always. Join and Leave take both
// so that membership transitions and room creation/destruction are atomic with
// respect to each other: two simultaneous first-joiners can never create two
// rooms for one name, and an emptied room is gone from the map before Leave
// returns.
type Registry struct {
	// mu protects the rooms map and serializes join/leave transitions.
	mu sync.Mutex

	// rooms maps room name (case-sensitive, no normalization) to its Room.
	rooms map[string]*Room

	// structured logger with registry context.
	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		rooms:  make(map[string]*Room),
		logger: registryLogger,
	}
}

// Join moves the client into the named room, creating the room if it does not
// exist. If the client is currently in another room, the full leave sequence
// for that room runs first; a connection belongs to at most one room at a time.
//
// Side effects, in order: the joiner receives the room-state snapshot (shapes
// plus members minus itself), then the remaining members receive user-joined.
func (reg *Registry) Join(c *Client, roomName string, displayName string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if c.room != nil {
		reg.leaveLocked(c)
	}

	c.name = displayName

	room, ok := reg.rooms[roomName]
	if !ok {
		room = newRoom(roomName)
		reg.rooms[roomName] = room
		reg.logger.Info().Str("room", roomName).Msg("Room created.")
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	room.members[c.id] = c
	c.room = room

	stateFrame, err := wire.NewMessage(wire.TypeRoomState, room.snapshotLocked(c.id))
	if err != nil {
		room.logger.Error().Err(err).Msg("Failed to build room-state frame.")
	} else {
		c.enqueue(stateFrame)
	}

	joinedFrame, err := wire.NewMessage(wire.TypeUserJoined, wire.UserEventPayload{UserID: c.id, UserName: c.name})
	if err != nil {
		room.logger.Error().Err(err).Msg("Failed to build user-joined frame.")
	} else {
		room.broadcastLocked(c.id, joinedFrame)
	}

	room.logger.Info().
		Str("user_id", c.id).
		Str("user_name", c.name).
		Int("total_users", len(room.members)).
		Msg("Client joined room.")
}

// Leave removes the client from its current room, notifies the remaining
// members, and destroys the room if it is now empty. No-op for a client that
// never joined a room.
func (reg *Registry) Leave(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if c.room == nil {
		return
	}

	reg.leaveLocked(c)
}

// leaveLocked performs the leave sequence. Caller must hold reg.mu and must
// have checked that c.room is non-nil.
func (reg *Registry) leaveLocked(c *Client) {
	room := c.room

	room.mu.Lock()

	delete(room.members, c.id)

	leftFrame, err := wire.NewMessage(wire.TypeUserLeft, wire.UserEventPayload{UserID: c.id, UserName: c.name})
	if err != nil {
		room.logger.Error().Err(err).Msg("Failed to build user-left frame.")
	} else {
		room.broadcastLocked(c.id, leftFrame)
	}

	remaining := len(room.members)
	room.mu.Unlock()

	c.room = nil

	room.logger.Info().
		Str("user_id", c.id).
		Int("total_users", remaining).
		Msg("Client left room.")

	if remaining == 0 {
		delete(reg.rooms, room.Name)
		reg.logger.Info().Str("room", room.Name).Msg("Room removed (no users).")
	}
}

// List returns a discovery snapshot of all rooms with their member counts.
// Ordering is unspecified. The snapshot never mutates server state.
func (reg *Registry) List() []wire.RoomInfo {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	list := make([]wire.RoomInfo, 0, len(reg.rooms))
	for name, room := range reg.rooms {
		list = append(list, wire.RoomInfo{Name: name, UserCount: room.MemberCount()})
	}

	return list
}

// RoomCount returns the number of active rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return len(reg.rooms)
}

// Shutdown closes the connection of every member in every room. Each client's
// read pump then runs its normal disconnect cleanup. Rooms are ephemeral, so
// nothing is persisted.
func (reg *Registry) Shutdown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.logger.Info().Int("rooms", len(reg.rooms)).Msg("Shutting down registry.")

	for _, room := range reg.rooms {
		room.mu.Lock()
		for _, member := range room.members {
			member.closeConn()
		}
		room.mu.Unlock()
	}
}
