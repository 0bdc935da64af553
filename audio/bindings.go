package audio

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/glyphrun/glyphrun/scripting"
)

// Register exposes the cue player to the Lua environment:
//
//	playTone(frequencyHz, durationMs)
func Register(script *scripting.Engine, p *Player) {
	script.SetFunc("playTone", func(L *lua.LState) int {
		freq := float64(L.CheckNumber(1))
		ms := L.OptInt(2, 150)
		p.PlayTone(freq, time.Duration(ms)*time.Millisecond)
		return 0
	})
}
