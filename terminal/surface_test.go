package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newTestSurface(t *testing.T) (*Surface, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s := Wrap(sim)
	t.Cleanup(s.Close)
	return s, sim
}

func TestPollEventsDrainsWithoutBlocking(t *testing.T) {
	s, sim := newTestSurface(t)

	if got := s.PollEvents(); len(got) != 0 {
		t.Fatalf("Expected empty batch on idle screen, got %d events", len(got))
	}

	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)

	events := s.PollEvents()
	if len(events) != 2 {
		t.Fatalf("Expected 2 queued events, got %d", len(events))
	}
	if key, ok := events[0].(*tcell.EventKey); !ok || key.Rune() != 'a' {
		t.Errorf("Expected first event rune 'a', got %v", events[0])
	}
}

func TestIsClose(t *testing.T) {
	if !IsClose(tcell.NewEventKey(tcell.KeyCtrlC, rune(0x03), tcell.ModCtrl)) {
		t.Error("Ctrl+C must be the close signal")
	}
	if IsClose(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("A plain key must not close")
	}
	if IsClose(tcell.NewEventResize(80, 24)) {
		t.Error("A resize must not close")
	}
}

func TestIsResize(t *testing.T) {
	if !IsResize(tcell.NewEventResize(80, 24)) {
		t.Error("Expected resize event recognised")
	}
	if IsResize(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("Key event mistaken for resize")
	}
}

func TestDefaultViewportTracksScreenSize(t *testing.T) {
	s, sim := newTestSurface(t)

	sim.SetSize(100, 30)
	vp := s.DefaultViewport()
	if vp.Width != 100 || vp.Height != 30 {
		t.Errorf("Expected viewport 100x30, got %dx%d", vp.Width, vp.Height)
	}
	if w, h := s.Size(); w != vp.Width || h != vp.Height {
		t.Errorf("Size %dx%d disagrees with viewport %dx%d", w, h, vp.Width, vp.Height)
	}
}

func TestDrawTextPlacesGlyphs(t *testing.T) {
	s, sim := newTestSurface(t)

	s.Clear()
	s.DrawText(2, 1, "hi")
	s.Present()

	contents, w, _ := sim.GetContents()
	if r := contents[1*w+2].Runes[0]; r != 'h' {
		t.Errorf("Expected 'h' at (2,1), got %q", r)
	}
	if r := contents[1*w+3].Runes[0]; r != 'i' {
		t.Errorf("Expected 'i' at (3,1), got %q", r)
	}
}

func TestEmergencyResetEscapeCodes(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)

	out := buf.String()
	for _, code := range []string{"\x1b[?1049l", "\x1b[?25h", "\x1b[0m"} {
		if !strings.Contains(out, code) {
			t.Errorf("Reset sequence missing %q", code)
		}
	}
}
