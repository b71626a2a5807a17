package wire

// Vec3 is a 3-component vector of IEEE-754 doubles (position, rotation or scale).
type Vec3 [3]float64

// Primitive shape kinds known to the reference client. The server accepts any
// non-empty kind string; the set is closed on the client side only.
const (
	KindCube     = "cube"
	KindSphere   = "sphere"
	KindCylinder = "cylinder"
)

// Shape is one object instance shared in a room's scene.
//
// The ID is assigned by the creating client and is only assumed unique within
// its room. Independent clients can collide on an ID; the server neither
// detects nor rejects this, and later Move/Delete events for a colliding ID
// affect an arbitrary matching entry. This is accepted wire-protocol behavior,
// not something to fix server-side.
type Shape struct {
	ID       string `json:"id"`
	Kind     string `json:"type"`
	Position Vec3   `json:"position"`
	Rotation Vec3   `json:"rotation"`
	Scale    Vec3   `json:"scale"`
}
