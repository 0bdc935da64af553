package engine

import "github.com/glyphrun/glyphrun/terminal"

// DebugRenderEvent asks debug-aware systems to draw their overlay onto the
// surface. Emitted during the render pass while the surface is held.
type DebugRenderEvent struct {
	Surface *terminal.Surface
}
