package engine

import (
	lua "github.com/yuin/gopher-lua"
)

// RegisterGameFunctions exposes the game lifecycle to the Lua environment
func RegisterGameFunctions(g *Game) {
	script := g.Script()

	script.SetFunc("quit", func(L *lua.LState) int {
		g.Quit()
		return 0
	})

	script.SetFunc("terminate", func(L *lua.LState) int {
		g.Terminate()
		return 0
	})

	script.SetFunc("getFPS", func(L *lua.LState) int {
		L.Push(lua.LNumber(g.FPS()))
		return 1
	})

	script.SetFunc("setDebugMode", func(L *lua.LState) int {
		g.SetDebugMode(L.ToBool(1))
		return 0
	})

	script.SetFunc("getDebugMode", func(L *lua.LState) int {
		L.Push(lua.LBool(g.DebugMode()))
		return 1
	})

	script.SetFunc("getViewport", func(L *lua.LState) int {
		v := g.View()
		L.Push(lua.LNumber(v.Width))
		L.Push(lua.LNumber(v.Height))
		return 2
	})

	script.SetFunc("openDevConsole", func(L *lua.LState) int {
		g.OpenDevConsole()
		return 0
	})
}
