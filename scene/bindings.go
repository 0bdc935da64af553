package scene

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/glyphrun/glyphrun/scripting"
)

// Register installs the scene constructor and switch entry points in Lua.
// A scene is declared as a table of optional hooks:
//
//	switchScene(newScene{ begin = ..., update = ..., quit = ... })
func Register(script *scripting.Engine, log *zap.Logger, switchScene func(*Scene)) {
	script.SetFunc("newScene", func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		s := New(script, log, Hooks{
			Begin:       tbl.RawGetString("begin"),
			Show:        tbl.RawGetString("show"),
			Hide:        tbl.RawGetString("hide"),
			Update:      tbl.RawGetString("update"),
			WindowEvent: tbl.RawGetString("windowEvent"),
			Quit:        tbl.RawGetString("quit"),
		})
		ud := L.NewUserData()
		ud.Value = s
		L.Push(ud)
		return 1
	})

	script.SetFunc("switchScene", func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if s, ok := ud.Value.(*Scene); ok {
			switchScene(s)
		}
		return 0
	})
}
