package physics

import (
	"github.com/ByteArena/box2d"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/glyphrun/glyphrun/core"
	"github.com/glyphrun/glyphrun/engine"
	"github.com/glyphrun/glyphrun/scripting"
)

// SceneHost provides the world that receives a scripted physics system
type SceneHost interface {
	SceneWorld() *engine.World
}

// Register installs usePhysicsSystem in the Lua environment. Calling it
// from a scene script creates a physics system in the active scene's world
// and binds the system-addressing functions.
func Register(script *scripting.Engine, host SceneHost, settings Settings, log *zap.Logger) {
	script.SetFunc("usePhysicsSystem", func(L *lua.LState) int {
		world := host.SceneWorld()
		if world == nil {
			log.Warn("usePhysicsSystem called without an active scene")
			return 0
		}
		log.Debug("initialising physics system")

		s := NewSystem(settings, log)
		world.AddSystem(s)
		registerSystemFunctions(script, world, s)
		return 0
	})
}

// registerSystemFunctions binds Lua functions addressing one system instance
func registerSystemFunctions(script *scripting.Engine, world *engine.World, s *System) {
	script.SetFunc("getGravity", func(L *lua.LState) int {
		g := s.Gravity()
		L.Push(lua.LNumber(g.X))
		L.Push(lua.LNumber(g.Y))
		return 2
	})

	script.SetFunc("setGravity", func(L *lua.LState) int {
		s.SetGravity(core.Vec2{
			X: float64(L.CheckNumber(1)),
			Y: float64(L.CheckNumber(2)),
		})
		return 0
	})

	script.SetFunc("setGravityMult", func(L *lua.LState) int {
		s.SetGravityScale(float64(L.CheckNumber(1)))
		return 0
	})

	script.SetFunc("physicsBodyCount", func(L *lua.LState) int {
		L.Push(lua.LNumber(s.BodyCount()))
		return 1
	})

	script.SetFunc("physicsStepRatio", func(L *lua.LState) int {
		L.Push(lua.LNumber(s.StepRatio()))
		return 1
	})

	script.SetFunc("spawnBox", func(L *lua.LState) int {
		x := float64(L.CheckNumber(1))
		y := float64(L.CheckNumber(2))
		halfW := float64(L.CheckNumber(3))
		halfH := float64(L.CheckNumber(4))
		dynamic := L.ToBool(5)

		bodyType := box2d.B2BodyType.B2_staticBody
		if dynamic {
			bodyType = box2d.B2BodyType.B2_dynamicBody
		}

		e := world.CreateEntity()
		t := &Transform{Position: core.Vec2{X: x, Y: y}}
		rb := &RigidBody{}
		world.AddComponent(e, t)
		world.AddComponent(e, rb)

		body := s.CreateBody(t, rb, bodyType)
		s.AddBoxFixture(body, halfW, halfH, 1.0)

		L.Push(lua.LNumber(e))
		return 1
	})

	script.SetFunc("teleport", func(L *lua.LState) int {
		e := engine.Entity(L.CheckInt64(1))
		tc, ok := world.GetComponent(e, TransformType)
		if !ok {
			return 0
		}
		rc, ok := world.GetComponent(e, RigidBodyType)
		if !ok {
			return 0
		}
		Teleport(tc.(*Transform), rc.(*RigidBody), core.Vec2{
			X: float64(L.CheckNumber(2)),
			Y: float64(L.CheckNumber(3)),
		}, float64(L.OptNumber(4, 0)))
		return 0
	})

	script.SetFunc("removeBody", func(L *lua.LState) int {
		s.RemoveBody(world, engine.Entity(L.CheckInt64(1)))
		return 0
	})

	script.SetFunc("applyForce", func(L *lua.LState) int {
		e := engine.Entity(L.CheckInt64(1))
		rc, ok := world.GetComponent(e, RigidBodyType)
		if !ok {
			return 0
		}
		s.ApplyForce(rc.(*RigidBody), core.Vec2{
			X: float64(L.CheckNumber(2)),
			Y: float64(L.CheckNumber(3)),
		})
		return 0
	})
}
