package scene

import (
	"time"

	"github.com/gdamore/tcell/v2"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/glyphrun/glyphrun/engine"
	"github.com/glyphrun/glyphrun/scripting"
	"github.com/glyphrun/glyphrun/terminal"
)

// Hooks are the six optional scripted callbacks of a scene.
// Each is independently optional; a missing hook is simply skipped.
type Hooks struct {
	Begin       lua.LValue
	Show        lua.LValue
	Hide        lua.LValue
	Update      lua.LValue
	WindowEvent lua.LValue
	Quit        lua.LValue
}

// Scene holds scripted lifecycle hooks and its own ECS world
type Scene struct {
	log    *zap.Logger
	script *scripting.Engine
	world  *engine.World
	hooks  Hooks

	hasBegun bool
}

// New creates a scene with a fresh world
func New(script *scripting.Engine, log *zap.Logger, hooks Hooks) *Scene {
	return &Scene{
		log:    log,
		script: script,
		world:  engine.NewWorld(),
		hooks:  hooks,
	}
}

// World returns the scene's ECS world
func (s *Scene) World() *engine.World {
	return s.world
}

// RegisterFunctions exposes this scene's world to the Lua environment.
// Called by the loop when the scene becomes current; the bindings always
// address the active scene.
func (s *Scene) RegisterFunctions() {
	s.script.SetFunc("createEntity", func(L *lua.LState) int {
		L.Push(lua.LNumber(s.world.CreateEntity()))
		return 1
	})
	s.script.SetFunc("destroyEntity", func(L *lua.LState) int {
		s.world.DestroyEntity(engine.Entity(L.ToInt64(1)))
		return 0
	})
	s.script.SetFunc("entityCount", func(L *lua.LState) int {
		L.Push(lua.LNumber(s.world.EntityCount()))
		return 1
	})
}

// begin runs the scene's one-time start hook
func (s *Scene) begin() {
	s.script.CallHook("Scene.begin", s.hooks.Begin)
	s.hasBegun = true
}

// Show runs begin on first display, then the show hook
func (s *Scene) Show() {
	if !s.hasBegun {
		s.begin()
	}
	s.script.CallHook("Scene.show", s.hooks.Show)
}

// Hide runs when the scene stops being current
func (s *Scene) Hide() {
	s.script.CallHook("Scene.hide", s.hooks.Hide)
}

// Update advances scripted logic, then every system in the world
func (s *Scene) Update(dt time.Duration) {
	s.script.CallHook("Scene.update", s.hooks.Update, lua.LNumber(dt.Seconds()))
	s.world.Update(dt)
}

// HandleEvent forwards an input event to the scripted hook
func (s *Scene) HandleEvent(ev tcell.Event) {
	s.script.CallHook("Scene.windowEvent", s.hooks.WindowEvent, eventToLua(s.script.State(), ev))
}

// Render draws scene content and, in debug mode, asks systems for overlays.
// The caller holds exclusive surface access.
func (s *Scene) Render(surface *terminal.Surface, debug bool) {
	if debug {
		s.world.Emit(engine.DebugRenderEvent{Surface: surface})
	}
}

// Quit gives the scripted quit hook the chance to veto termination.
// No hook, or a failing hook, means no veto: terminate runs immediately.
func (s *Scene) Quit(terminate func()) {
	quitAnyway := !scripting.Callable(s.hooks.Quit)
	if !quitAnyway {
		if _, err := s.script.CallHook("Scene.quit", s.hooks.Quit); err != nil {
			quitAnyway = true
		}
	}
	if quitAnyway {
		s.log.Info("terminating program")
		terminate()
	}
}

// eventToLua converts a tcell event into a table for the windowEvent hook
func eventToLua(L *lua.LState, ev tcell.Event) lua.LValue {
	t := L.NewTable()
	switch e := ev.(type) {
	case *tcell.EventKey:
		t.RawSetString("type", lua.LString("key"))
		t.RawSetString("name", lua.LString(e.Name()))
		t.RawSetString("rune", lua.LString(string(e.Rune())))
	case *tcell.EventResize:
		w, h := e.Size()
		t.RawSetString("type", lua.LString("resize"))
		t.RawSetString("width", lua.LNumber(w))
		t.RawSetString("height", lua.LNumber(h))
	case *tcell.EventMouse:
		x, y := e.Position()
		t.RawSetString("type", lua.LString("mouse"))
		t.RawSetString("x", lua.LNumber(x))
		t.RawSetString("y", lua.LNumber(y))
	default:
		t.RawSetString("type", lua.LString("other"))
	}
	return t
}
