package reconcile

import (
	"sync"

	"scenesync/pkg/wire"
)

// MemoryScene is an Applier that mirrors the server's reconciliation rules in
// memory: ordered shape list, move replaces the position of the first match,
// delete removes all matches, missing shapes are silent no-ops.
type MemoryScene struct {
	mu     sync.Mutex
	shapes []wire.Shape
	users  []wire.User
}

// NewMemoryScene returns an empty in-memory scene.
func NewMemoryScene() *MemoryScene {
	return &MemoryScene{}
}

// ApplySnapshot replaces local state with the room snapshot.
func (m *MemoryScene) ApplySnapshot(shapes []wire.Shape, users []wire.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shapes = make([]wire.Shape, len(shapes))
	copy(m.shapes, shapes)

	m.users = make([]wire.User, len(users))
	copy(m.users, users)
}

// ApplyAdd appends the shape.
func (m *MemoryScene) ApplyAdd(shape wire.Shape) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shapes = append(m.shapes, shape)
}

// ApplyMove replaces the position of the first shape matching id.
func (m *MemoryScene) ApplyMove(id string, position wire.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.shapes {
		if m.shapes[i].ID == id {
			m.shapes[i].Position = position
			break
		}
	}
}

// ApplyDelete removes every shape matching id.
func (m *MemoryScene) ApplyDelete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.shapes[:0]
	for _, s := range m.shapes {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	m.shapes = kept
}

// Shapes returns a copy of the current shape list.
func (m *MemoryScene) Shapes() []wire.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()

	shapes := make([]wire.Shape, len(m.shapes))
	copy(shapes, m.shapes)
	return shapes
}

// Users returns a copy of the users received with the last snapshot.
func (m *MemoryScene) Users() []wire.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]wire.User, len(m.users))
	copy(users, m.users)
	return users
}
