package physics

import (
	"sync"
	"time"

	"github.com/ByteArena/box2d"
	"go.uber.org/zap"

	"github.com/glyphrun/glyphrun/core"
	"github.com/glyphrun/glyphrun/engine"
)

// Bounded solver iterations per step
const (
	velocityIterations = 8
	positionIterations = 3
)

// Settings configures a physics system
type Settings struct {
	// FixedStep is the simulation step size in seconds
	FixedStep float64
	// MaxSteps caps the steps simulated in a single frame
	MaxSteps int
	// Gravity in render units per second squared
	Gravity core.Vec2
	// Scale is the number of render units per physics metre
	Scale float64
}

// System advances exactly one physics world at a fixed rate and keeps the
// entity transforms smoothly interpolated between the last two steps.
type System struct {
	log   *zap.Logger
	world box2d.B2World
	acc   *Accumulator
	scale float64

	// Single pending-disposal queue, processed once per frame after the
	// smoothing pass so in-flight contacts and iteration stay valid
	pending []disposal

	// Overlay snapshot: captured on the update thread at the end of each
	// frame, drawn by the render thread. Live component state is never
	// read outside the update thread.
	markMu  sync.Mutex
	markers []debugMarker
}

type disposal struct {
	entity engine.Entity
	rb     *RigidBody
	body   *box2d.B2Body
}

type debugMarker struct {
	x, y   int
	static bool
}

// NewSystem creates a physics system with its own world
func NewSystem(settings Settings, log *zap.Logger) *System {
	s := &System{
		log:   log,
		acc:   NewAccumulator(settings.FixedStep, settings.MaxSteps),
		scale: settings.Scale,
	}
	s.world = box2d.MakeB2World(s.toPhysics(settings.Gravity))
	return s
}

// Priority places physics before any rendering-adjacent systems
func (s *System) Priority() int {
	return 10
}

// Update drives the fixed-step simulation for one frame: pre-step sync of
// externally moved bodies, the capped whole steps, a single force clear,
// the smoothing pass, then disposal.
func (s *System) Update(w *engine.World, dt time.Duration) {
	steps := s.acc.Advance(dt.Seconds())

	// Push externally set transforms into the physics world exactly once
	s.each(w, func(e engine.Entity, t *Transform, rb *RigidBody) {
		body := rb.Body
		if rb.OutOfSync && body != nil {
			newPos := s.toPhysics(t.Position)
			body.SetTransform(newPos, t.Rotation)
			body.SetAwake(true)
			rb.PreviousPosition = newPos
			rb.PreviousAngle = t.Rotation
			rb.OutOfSync = false
		}
	})

	for i := 0; i < steps; i++ {
		// Capture the pre-step baseline so interpolation always blends
		// between "before this step" and "after this step"
		s.each(w, func(e engine.Entity, t *Transform, rb *RigidBody) {
			s.resetSmoothState(rb)
		})
		s.singleStep(s.acc.FixedStep())
	}

	// Forces applied during the frame are consumed exactly once,
	// regardless of how many sub-steps ran
	s.world.ClearForces()

	ratio := s.acc.Ratio()
	s.each(w, func(e engine.Entity, t *Transform, rb *RigidBody) {
		s.smoothState(t, rb, ratio)
	})

	s.disposePending(w)
	s.captureMarkers(w)
}

// singleStep advances the world by exactly one fixed step
func (s *System) singleStep(h float64) {
	s.world.Step(h, velocityIterations, positionIterations)
}

// resetSmoothState captures the current body state as the new baseline
func (s *System) resetSmoothState(rb *RigidBody) {
	body := rb.Body
	if body != nil && body.GetType() != box2d.B2BodyType.B2_staticBody {
		rb.PreviousPosition = body.GetPosition()
		rb.PreviousAngle = body.GetAngle()
	}
}

// smoothState interpolates the visual transform between the last two
// simulated states
func (s *System) smoothState(t *Transform, rb *RigidBody, ratio float64) {
	body := rb.Body
	if body == nil || body.GetType() == box2d.B2BodyType.B2_staticBody {
		return
	}

	current := body.GetPosition()
	t.Position = s.toRender(rb.PreviousPosition).Lerp(s.toRender(current), ratio)

	// Rotation is deliberately not blended: a naive linear blend of angle
	// values wraps incorrectly near ±π and needs shortest-arc handling
	t.Rotation = body.GetAngle()
}

// disposePending destroys queued bodies and detaches their components.
// A body queued mid-frame was still part of this frame's smoothing pass;
// after this point its handle is never dereferenced again.
func (s *System) disposePending(w *engine.World) {
	for _, d := range s.pending {
		if d.body != nil {
			s.world.DestroyBody(d.body)
		}
		d.rb.Body = nil
		w.RemoveComponent(d.entity, RigidBodyType)
	}
	s.pending = s.pending[:0]
}

// each iterates entities holding both a transform and a rigid body
func (s *System) each(w *engine.World, fn func(e engine.Entity, t *Transform, rb *RigidBody)) {
	for _, e := range w.EntitiesWith(TransformType, RigidBodyType) {
		tc, ok := w.GetComponent(e, TransformType)
		if !ok {
			continue
		}
		rc, ok := w.GetComponent(e, RigidBodyType)
		if !ok {
			continue
		}
		fn(e, tc.(*Transform), rc.(*RigidBody))
	}
}

// CreateBody realises a physics body for an entity at its current transform
func (s *System) CreateBody(t *Transform, rb *RigidBody, bodyType uint8) *box2d.B2Body {
	def := box2d.MakeB2BodyDef()
	def.Type = bodyType
	def.Position = s.toPhysics(t.Position)
	def.Angle = t.Rotation

	body := s.world.CreateBody(&def)
	rb.Body = body
	rb.PreviousPosition = def.Position
	rb.PreviousAngle = def.Angle
	rb.OutOfSync = false
	return body
}

// AddBoxFixture attaches a box fixture; half extents are in render units
func (s *System) AddBoxFixture(body *box2d.B2Body, halfWidth, halfHeight, density float64) {
	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(halfWidth/s.scale, halfHeight/s.scale)
	body.CreateFixture(&shape, density)
}

// RemoveBody queues an entity's body for end-of-frame destruction. The body
// still participates in the current frame's smoothing pass and disappears
// from iteration afterwards.
func (s *System) RemoveBody(w *engine.World, e engine.Entity) {
	rc, ok := w.GetComponent(e, RigidBodyType)
	if !ok {
		return
	}
	rb := rc.(*RigidBody)
	if rb.queued {
		return
	}
	rb.queued = true
	s.pending = append(s.pending, disposal{entity: e, rb: rb, body: rb.Body})
}

// ApplyForce applies a force (render units) at the body's center of mass.
// Forces accumulate within a frame and are cleared once per frame.
func (s *System) ApplyForce(rb *RigidBody, force core.Vec2) {
	if rb.Body == nil {
		return
	}
	rb.Body.ApplyForce(s.toPhysics(force), rb.Body.GetWorldCenter(), true)
}

// Gravity returns the world gravity in render units
func (s *System) Gravity() core.Vec2 {
	return s.toRender(s.world.M_gravity)
}

// SetGravity sets the world gravity from render units
func (s *System) SetGravity(g core.Vec2) {
	s.world.SetGravity(s.toPhysics(g))
}

// SetGravityScale multiplies the current gravity by a factor
func (s *System) SetGravityScale(m float64) {
	s.SetGravity(s.Gravity().Scale(m))
}

// BodyCount returns the number of bodies in the physics world
func (s *System) BodyCount() int {
	return s.world.GetBodyCount()
}

// StepRatio is the current interpolation fraction, exposed for diagnostics
func (s *System) StepRatio() float64 {
	return s.acc.Ratio()
}

// captureMarkers snapshots the smoothed body positions for the debug
// overlay. Runs on the update thread once per frame, after smoothing and
// disposal, so the snapshot never contains a destroyed body.
func (s *System) captureMarkers(w *engine.World) {
	s.markMu.Lock()
	defer s.markMu.Unlock()

	s.markers = s.markers[:0]
	s.each(w, func(e engine.Entity, t *Transform, rb *RigidBody) {
		if rb.Body == nil {
			return
		}
		s.markers = append(s.markers, debugMarker{
			x:      int(t.Position.X),
			y:      int(t.Position.Y),
			static: rb.Body.GetType() == box2d.B2BodyType.B2_staticBody,
		})
	})
}

// Receive draws the debug overlay: one marker per body at its smoothed
// visual position. Runs on the render thread in dual-thread mode, so it
// draws from the frame snapshot, never from live component state.
func (s *System) Receive(w *engine.World, event any) {
	ev, ok := event.(engine.DebugRenderEvent)
	if !ok {
		return
	}

	s.markMu.Lock()
	markers := make([]debugMarker, len(s.markers))
	copy(markers, s.markers)
	s.markMu.Unlock()

	for _, m := range markers {
		marker := 'o'
		if m.static {
			marker = '#'
		}
		ev.Surface.DrawRune(m.x, m.y, marker)
	}
}

// toPhysics converts render coordinates to physics metres
func (s *System) toPhysics(v core.Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X/s.scale, v.Y/s.scale)
}

// toRender converts physics metres to render coordinates
func (s *System) toRender(v box2d.B2Vec2) core.Vec2 {
	return core.Vec2{X: v.X * s.scale, Y: v.Y * s.scale}
}
