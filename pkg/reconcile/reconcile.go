/*
Package reconcile drives a scene applier from inbound server events.

A client connects, receives the room-state snapshot, and then replays every
subsequent broadcast frame through a Reconciler. Applying the snapshot followed
by the event stream in arrival order yields object state identical to the
server's authoritative shape list; the package ships an in-memory applier that
implements exactly the server's reconciliation rules for use in tests and
headless clients.

The package depends only on pkg/wire, so external consumers can implement
Applier and decode frames without reaching into server internals.
*/
package reconcile

import (
	"encoding/json"
	"fmt"

	"scenesync/pkg/wire"
)

// Applier receives reconciled scene mutations. A rendering engine implements
// this to mirror the shared scene; ApplySnapshot resets local state to the
// room snapshot received on join.
type Applier interface {
	ApplySnapshot(shapes []wire.Shape, users []wire.User)
	ApplyAdd(shape wire.Shape)
	ApplyMove(id string, position wire.Vec3)
	ApplyDelete(id string)
}

// Reconciler decodes inbound wire frames and forwards scene mutations to the
// applier. Presence frames (cursor-move, user-action, user-joined, user-left,
// room-list) do not affect object state and are ignored here.
type Reconciler struct {
	applier Applier
}

// New constructs a Reconciler around the given applier.
func New(applier Applier) *Reconciler {
	return &Reconciler{applier: applier}
}

// Handle decodes one inbound frame and applies it. Unknown frame types are
// ignored; a malformed frame returns an error without touching local state.
func (r *Reconciler) Handle(frame []byte) error {
	var env wire.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return fmt.Errorf("invalid frame: %w", err)
	}

	switch env.Type {
	case wire.TypeRoomState:
		var p wire.RoomStatePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("invalid room-state payload: %w", err)
		}
		r.applier.ApplySnapshot(p.Shapes, p.Users)

	case wire.TypeShapeAdded:
		var s wire.Shape
		if err := json.Unmarshal(env.Payload, &s); err != nil {
			return fmt.Errorf("invalid shape-added payload: %w", err)
		}
		r.applier.ApplyAdd(s)

	case wire.TypeShapeMoved:
		var p wire.MovePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("invalid shape-moved payload: %w", err)
		}
		r.applier.ApplyMove(p.ID, p.Position)

	case wire.TypeShapeDeleted:
		var p wire.DeletePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("invalid shape-deleted payload: %w", err)
		}
		r.applier.ApplyDelete(p.ID)
	}

	return nil
}
