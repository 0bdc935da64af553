package terminal

import (
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
)

// Viewport describes the drawable area of the surface in cells
type Viewport struct {
	Width, Height int
}

// Surface is the shared render target backed by a tcell screen.
// It performs no locking itself; in dual-thread mode the owning loop
// guards all access with a single mutex.
type Surface struct {
	screen tcell.Screen
	style  tcell.Style
}

// New opens a surface on the real terminal
func New() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return Wrap(screen), nil
}

// Wrap builds a surface around an already-initialised screen.
// Used by tests with tcell's SimulationScreen.
func Wrap(screen tcell.Screen) *Surface {
	return &Surface{
		screen: screen,
		style:  tcell.StyleDefault,
	}
}

// SetTitle sets the terminal window title where supported
func (s *Surface) SetTitle(title string) {
	if title != "" {
		s.screen.SetTitle(title)
	}
}

// Close restores the terminal. Safe to call multiple times.
func (s *Surface) Close() {
	s.screen.Fini()
}

// Size returns the current surface dimensions in cells
func (s *Surface) Size() (width, height int) {
	return s.screen.Size()
}

// DefaultViewport returns the viewport covering the whole surface
func (s *Surface) DefaultViewport() Viewport {
	w, h := s.screen.Size()
	return Viewport{Width: w, Height: h}
}

// PollEvents drains all pending input events without blocking.
// The returned batch is finite: only events already queued are collected.
func (s *Surface) PollEvents() []tcell.Event {
	var events []tcell.Event
	for s.screen.HasPendingEvent() {
		ev := s.screen.PollEvent()
		if ev == nil {
			break
		}
		events = append(events, ev)
	}
	return events
}

// Clear erases the surface ahead of a render pass
func (s *Surface) Clear() {
	s.screen.Clear()
}

// Present flushes the drawn frame to the terminal
func (s *Surface) Present() {
	s.screen.Show()
}

// DrawRune places a single glyph at cell coordinates
func (s *Surface) DrawRune(x, y int, r rune) {
	s.screen.SetContent(x, y, r, nil, s.style)
}

// DrawText writes a string starting at cell coordinates
func (s *Surface) DrawText(x, y int, text string) {
	for i, r := range text {
		s.screen.SetContent(x+i, y, r, nil, s.style)
	}
}

// EmergencyReset writes raw escape codes restoring the terminal after a
// crash: leave the alternate screen, show the cursor, reset attributes
func EmergencyReset(w io.Writer) {
	fmt.Fprint(w, "\x1b[?1049l\x1b[?25h\x1b[0m\r\n")
}

// IsClose reports whether an event is the terminal's close/quit signal
func IsClose(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return key.Key() == tcell.KeyCtrlC
}

// IsResize reports whether an event is a resize notification
func IsResize(ev tcell.Event) bool {
	_, ok := ev.(*tcell.EventResize)
	return ok
}
