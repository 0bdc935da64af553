package physics

import (
	"reflect"

	"github.com/ByteArena/box2d"

	"github.com/glyphrun/glyphrun/core"
)

// Transform is the authoritative position and rotation of an entity in
// render coordinates. External code (scripts, gameplay) writes it; the
// physics system reads and smooths it.
type Transform struct {
	Position core.Vec2
	Rotation float64
}

// RigidBody links an entity to a body owned by the physics world.
// Body may be nil while the entity has no realised physics body; every
// operation on an absent body is a no-op, never an error.
type RigidBody struct {
	Body *box2d.B2Body

	// OutOfSync means the authoritative transform was set externally and
	// must be pushed into the physics world before the next step
	OutOfSync bool

	// Baseline captured at the start of the most recent step interval,
	// in physics coordinates
	PreviousPosition box2d.B2Vec2
	PreviousAngle    float64

	queued bool // already on the disposal queue
}

// Component type keys for world queries
var (
	TransformType = reflect.TypeOf(&Transform{})
	RigidBodyType = reflect.TypeOf(&RigidBody{})
)

// Teleport sets an entity's authoritative transform and marks the body out
// of sync, so the physics world honors the move exactly once before the
// next step
func Teleport(t *Transform, rb *RigidBody, pos core.Vec2, rotation float64) {
	t.Position = pos
	t.Rotation = rotation
	rb.OutOfSync = true
}
