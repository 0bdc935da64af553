package scene

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/glyphrun/glyphrun/engine"
	"github.com/glyphrun/glyphrun/scripting"
)

func newTestScene(t *testing.T, src string) (*Scene, *scripting.Engine) {
	t.Helper()
	script := scripting.NewEngine(zap.NewNop())
	t.Cleanup(script.Close)

	if err := script.DoString(src); err != nil {
		t.Fatalf("scene script: %v", err)
	}
	hooks := Hooks{
		Begin:       script.Global("begin"),
		Show:        script.Global("show"),
		Hide:        script.Global("hide"),
		Update:      script.Global("update"),
		WindowEvent: script.Global("windowEvent"),
		Quit:        script.Global("quit"),
	}
	return New(script, zap.NewNop(), hooks), script
}

func TestBeginRunsOnceBeforeFirstShow(t *testing.T) {
	s, script := newTestScene(t, `
		begins = 0
		shows = 0
		function begin() begins = begins + 1 end
		function show() shows = shows + 1 end
	`)

	s.Show()
	s.Hide()
	s.Show()

	if got := script.Global("begins").String(); got != "1" {
		t.Errorf("Expected begin hook to run once, ran %s times", got)
	}
	if got := script.Global("shows").String(); got != "2" {
		t.Errorf("Expected show hook to run twice, ran %s times", got)
	}
}

func TestUpdateRunsHookThenSystems(t *testing.T) {
	s, script := newTestScene(t, `
		function update(dt) lastDt = dt end
	`)

	order := make([]string, 0, 2)
	s.World().AddSystem(&orderSystem{order: &order})

	s.Update(250 * time.Millisecond)

	if got := script.Global("lastDt").String(); got != "0.25" {
		t.Errorf("Expected dt 0.25 seconds, got %s", got)
	}
	if len(order) != 1 || order[0] != "system" {
		t.Errorf("Expected systems updated once, got %v", order)
	}
}

type orderSystem struct {
	order *[]string
	seen  []any
}

func (o *orderSystem) Update(w *engine.World, dt time.Duration) {
	*o.order = append(*o.order, "system")
}

func (o *orderSystem) Priority() int { return 1 }

func (o *orderSystem) Receive(w *engine.World, event any) {
	o.seen = append(o.seen, event)
}

func TestHandleEventBuildsKeyTable(t *testing.T) {
	s, script := newTestScene(t, `
		function windowEvent(ev)
			evType = ev.type
			evRune = ev.rune
		end
	`)

	s.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))

	if got := script.Global("evType").String(); got != "key" {
		t.Errorf("Expected event type key, got %s", got)
	}
	if got := script.Global("evRune").String(); got != "r" {
		t.Errorf("Expected rune r, got %s", got)
	}
}

func TestHandleEventBuildsResizeTable(t *testing.T) {
	s, script := newTestScene(t, `
		function windowEvent(ev)
			evType = ev.type
			evWidth = ev.width
		end
	`)

	s.HandleEvent(tcell.NewEventResize(120, 40))

	if got := script.Global("evType").String(); got != "resize" {
		t.Errorf("Expected event type resize, got %s", got)
	}
	if got := script.Global("evWidth").String(); got != "120" {
		t.Errorf("Expected width 120, got %s", got)
	}
}

func TestRenderDebugEmitsOverlayEvent(t *testing.T) {
	s, _ := newTestScene(t, "")
	sys := &orderSystem{order: &[]string{}}
	s.World().AddSystem(sys)

	s.Render(nil, false)
	if len(sys.seen) != 0 {
		t.Fatal("Overlay event must not fire outside debug mode")
	}

	s.Render(nil, true)
	if len(sys.seen) != 1 {
		t.Fatalf("Expected 1 overlay event, got %d", len(sys.seen))
	}
	if _, ok := sys.seen[0].(engine.DebugRenderEvent); !ok {
		t.Errorf("Expected DebugRenderEvent, got %T", sys.seen[0])
	}
}

func TestQuitWithoutHookTerminates(t *testing.T) {
	s, _ := newTestScene(t, "")

	terminated := false
	s.Quit(func() { terminated = true })

	if !terminated {
		t.Error("Expected immediate termination without a quit hook")
	}
}

func TestQuitHookCanVeto(t *testing.T) {
	s, script := newTestScene(t, `
		asked = 0
		function quit() asked = asked + 1 end
	`)

	terminated := false
	s.Quit(func() { terminated = true })

	if terminated {
		t.Error("A successful quit hook owns the decision: no automatic terminate")
	}
	if got := script.Global("asked").String(); got != "1" {
		t.Errorf("Expected quit hook consulted once, got %s", got)
	}
}

func TestQuitFailingHookTerminates(t *testing.T) {
	s, _ := newTestScene(t, `
		function quit() error('refuse to decide') end
	`)

	terminated := false
	s.Quit(func() { terminated = true })

	if !terminated {
		t.Error("A failing quit hook must not block termination")
	}
}

func TestRegisterFunctionsBindActiveWorld(t *testing.T) {
	s, script := newTestScene(t, "")
	s.RegisterFunctions()

	if err := script.DoString(`
		e = createEntity()
		countAfterCreate = entityCount()
		destroyEntity(e)
		countAfterDestroy = entityCount()
	`); err != nil {
		t.Fatalf("entity bindings: %v", err)
	}

	if got := script.Global("countAfterCreate").String(); got != "1" {
		t.Errorf("Expected 1 entity after create, got %s", got)
	}
	if got := script.Global("countAfterDestroy").String(); got != "0" {
		t.Errorf("Expected 0 entities after destroy, got %s", got)
	}
}
