package engine

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/glyphrun/glyphrun/core"
	"github.com/glyphrun/glyphrun/scripting"
	"github.com/glyphrun/glyphrun/terminal"
)

// defaultRenderInterval is the render thread's sleep between frames in
// multi-thread mode. It bounds the render rate and gives the update thread
// fair chances to take the surface lock.
const defaultRenderInterval = 3 * time.Millisecond

// Scene is the active content of the game. The loop drives it; the scene
// decides what its hooks do. All methods run on the update thread.
type Scene interface {
	RegisterFunctions()
	Show()
	Hide()
	Update(dt time.Duration)
	HandleEvent(ev tcell.Event)
	Render(surface *terminal.Surface, debug bool)
	// Quit lets the scene veto shutdown: a scene that wants the game to end
	// calls terminate, one that wants to keep running does not.
	Quit(terminate func())
	World() *World
}

// Options configures Initialise
type Options struct {
	Title       string
	MultiThread bool
	Debug       bool

	// BootScript is run inside the Lua environment before the surface is
	// created. A failing boot script aborts initialisation.
	BootScript string

	// RenderInterval overrides the render thread sleep (multi-thread only)
	RenderInterval time.Duration

	// NewSurface overrides surface creation, used by tests to substitute a
	// simulation screen
	NewSurface func() (*terminal.Surface, error)
}

// Game owns the run loop, the lifecycle state machine, the shared rendering
// surface and its lock. One instance per process; all former global state
// lives here and is passed to collaborators explicitly.
type Game struct {
	log    *zap.Logger
	script *scripting.Engine

	surface   *terminal.Surface
	surfaceMu sync.Mutex
	view      terminal.Viewport

	// The render thread reads the active scene while the update thread
	// (or a scripted switchScene) replaces it, hence the atomic pointer
	scene       atomic.Pointer[Scene]
	multiThread bool
	debug       atomic.Bool

	// Only the update thread writes status; the render thread reads it
	status atomic.Int32

	fps            atomic.Uint32
	renderInterval time.Duration
	renderWG       sync.WaitGroup
}

// NewGame creates an uninitialised game
func NewGame(script *scripting.Engine, log *zap.Logger) *Game {
	return &Game{
		log:            log,
		script:         script,
		renderInterval: defaultRenderInterval,
	}
}

// Status returns the current lifecycle state
func (g *Game) Status() Status {
	return Status(g.status.Load())
}

func (g *Game) setStatus(s Status) {
	old := g.Status()
	g.status.Store(int32(s))
	g.log.Info("status transition",
		zap.String("from", old.String()),
		zap.String("to", s.String()))
}

// Initialise prepares the game without starting the loop.
// Allowed only from Uninitialised. On failure the status is unchanged and
// the caller decides whether to retry or abort.
func (g *Game) Initialise(opts Options) error {
	if g.Status() != StatusUninitialised {
		g.log.Error("cannot initialise: already running")
		return fmt.Errorf("initialise from status %s", g.Status())
	}

	g.multiThread = opts.MultiThread
	g.debug.Store(opts.Debug)
	if opts.RenderInterval > 0 {
		g.renderInterval = opts.RenderInterval
	}
	g.log.Info("launching application",
		zap.Bool("multithread", g.multiThread))

	if opts.BootScript != "" {
		if err := g.script.DoFile(opts.BootScript); err != nil {
			g.log.Error("cannot initialise scripting environment", zap.Error(err))
			return fmt.Errorf("boot script: %w", err)
		}
	}

	newSurface := opts.NewSurface
	if newSurface == nil {
		newSurface = terminal.New
	}
	surface, err := newSurface()
	if err != nil {
		return fmt.Errorf("open surface: %w", err)
	}
	g.surface = surface
	g.surface.SetTitle(opts.Title)
	g.view = surface.DefaultViewport()

	g.setStatus(StatusReady)
	return nil
}

// Start runs the main loop until Terminate is reached, then shuts down.
// Allowed only from Ready; a second Start is rejected without side effects.
func (g *Game) Start() error {
	if g.Status() != StatusReady {
		g.log.Error("cannot start application", zap.String("status", g.Status().String()))
		return fmt.Errorf("start from status %s", g.Status())
	}
	g.setStatus(StatusRunning)

	clock := NewStepClock()
	fpsMark := time.Now()
	frames := uint32(0)

	if g.multiThread {
		g.renderWG.Add(1)
		core.Go(func() {
			defer g.renderWG.Done()
			g.renderLoop()
		})
	}

	for g.Status() < StatusShuttingDown {
		elapsed := clock.Restart()

		// Rolling FPS, recomputed once per second
		frames++
		if now := time.Now(); now.Sub(fpsMark) >= time.Second {
			g.fps.Store(frames)
			frames = 0
			fpsMark = now
		}

		// Contention on the surface lock drops this frame's input entirely;
		// the simulation never stalls on rendering
		events, processed := g.collectInput()
		if processed {
			for _, ev := range events {
				if terminal.IsClose(ev) {
					g.Quit()
				} else {
					g.handleEvent(ev)
				}
			}
		}

		g.update(elapsed)

		if !g.multiThread {
			if g.Status() < StatusShuttingDown {
				g.render()
			}
		} else {
			runtime.Gosched()
		}
	}

	// The render thread finishes before any resource release
	g.renderWG.Wait()
	g.shutdown()
	return nil
}

// collectInput drains pending input events. In multi-thread mode the surface
// lock is attempted without blocking; if the render thread holds it, no
// events are polled this frame and processed is false.
func (g *Game) collectInput() (events []tcell.Event, processed bool) {
	if g.multiThread {
		if !g.surfaceMu.TryLock() {
			return nil, false
		}
		events = g.surface.PollEvents()
		g.surfaceMu.Unlock()
		return events, true
	}
	return g.surface.PollEvents(), true
}

// handleEvent adjusts the viewport on resize and forwards to the scene
func (g *Game) handleEvent(ev tcell.Event) {
	if terminal.IsResize(ev) {
		g.view = g.surface.DefaultViewport()
	}
	if scene := g.CurrentScene(); scene != nil {
		scene.HandleEvent(ev)
	}
}

// update advances the scene (and through it the fixed-step simulation)
func (g *Game) update(dt time.Duration) {
	if scene := g.CurrentScene(); scene != nil {
		scene.Update(dt)
	}
}

// renderLoop runs on the dedicated render thread in multi-thread mode.
// Render cadence is decoupled from update cadence: bounded above by the
// retry sleep, otherwise independent of the simulation step rate.
func (g *Game) renderLoop() {
	if g.Status() < StatusRunning {
		return
	}
	for g.Status() < StatusShuttingDown {
		g.surfaceMu.Lock()
		// Re-check under the lock so a closed surface is never touched
		if g.Status() < StatusShuttingDown {
			g.render()
		}
		g.surfaceMu.Unlock()
		time.Sleep(g.renderInterval)
	}
}

// render performs one full pass: clear, draw, present.
// The caller guarantees exclusive access to the surface.
func (g *Game) render() {
	g.surface.Clear()
	if scene := g.CurrentScene(); scene != nil {
		scene.Render(g.surface, g.debug.Load())
	}
	if g.debug.Load() {
		g.surface.DrawText(0, 0, fmt.Sprintf("fps %d", g.fps.Load()))
	}
	g.surface.Present()
}

// Quit requests shutdown. The scene's quit hook may veto by not calling
// terminate; with no scene the game terminates immediately.
func (g *Game) Quit() {
	if g.Status() > StatusQuitting {
		return
	}
	g.log.Info("quitting game")
	g.setStatus(StatusQuitting)
	if scene := g.CurrentScene(); scene != nil {
		scene.Quit(g.Terminate)
	} else {
		g.Terminate()
	}
}

// Terminate ends the main loop and destroys the surface. This is the only
// path that moves the loop condition past ShuttingDown.
func (g *Game) Terminate() {
	g.setStatus(StatusShuttingDown)
	g.surfaceMu.Lock()
	g.surface.Close()
	g.surfaceMu.Unlock()
}

// shutdown releases the scene and scripting resources after the loop (and
// the render thread, when one exists) has finished
func (g *Game) shutdown() {
	g.setStatus(StatusUninitialised)
	g.log.Info("releasing resources")
	g.scene.Store(nil)
	g.script.Close()
}

// SwitchScene hides the old scene and shows the new one
func (g *Game) SwitchScene(s Scene) {
	if old := g.CurrentScene(); old != nil {
		old.Hide()
	}
	if s == nil {
		g.scene.Store(nil)
		return
	}
	g.scene.Store(&s)
	s.RegisterFunctions()
	s.Show()
}

// CurrentScene returns the active scene, nil when none is set
func (g *Game) CurrentScene() Scene {
	if p := g.scene.Load(); p != nil {
		return *p
	}
	return nil
}

// SceneWorld returns the active scene's ECS world, nil when no scene is set
func (g *Game) SceneWorld() *World {
	if scene := g.CurrentScene(); scene != nil {
		return scene.World()
	}
	return nil
}

// Script returns the scripting engine owned by the game
func (g *Game) Script() *scripting.Engine {
	return g.script
}

// View returns the cached default viewport
func (g *Game) View() terminal.Viewport {
	return g.view
}

// FPS returns the most recent once-per-second frame count
func (g *Game) FPS() uint32 {
	return g.fps.Load()
}

// SetDebugMode toggles debug rendering
func (g *Game) SetDebugMode(enable bool) {
	g.debug.Store(enable)
	g.log.Info("debug mode", zap.Bool("enabled", enable))
}

// DebugMode reports whether debug rendering is active
func (g *Game) DebugMode() bool {
	return g.debug.Load()
}
