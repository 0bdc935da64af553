package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for scripted game logic.
// Single-goroutine access only (the update thread owns it).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine with an empty environment
func NewEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// Close shuts the VM down. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.vm.Close()
}

// State exposes the underlying VM for binding registration
func (e *Engine) State() *lua.LState {
	return e.vm
}

// DoFile executes a single script file
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// DoString executes a source fragment, e.g. a dev console command
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// LoadDir loads every .lua file in a directory. Missing directories are skipped.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.DoFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Global returns a global value from the VM
func (e *Engine) Global(name string) lua.LValue {
	return e.vm.GetGlobal(name)
}

// SetGlobal installs a value as a Lua global
func (e *Engine) SetGlobal(name string, v lua.LValue) {
	e.vm.SetGlobal(name, v)
}

// SetFunc installs a Go function as a Lua global
func (e *Engine) SetFunc(name string, fn lua.LGFunction) {
	e.vm.SetGlobal(name, e.vm.NewFunction(fn))
}

// Callable reports whether a value is an invocable hook
func Callable(v lua.LValue) bool {
	return v != nil && v.Type() == lua.LTFunction
}

// CallHook invokes an optional scripted hook with protection.
// Returns whether a callable hook was present, and the call error if it
// failed. Failures are logged with the hook name and never propagate as
// panics; callers treat them as "hook absent" unless stated otherwise.
func (e *Engine) CallHook(name string, fn lua.LValue, args ...lua.LValue) (called bool, err error) {
	if !Callable(fn) {
		return false, nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("scripted hook failed", zap.String("hook", name), zap.Error(err))
		return true, err
	}
	return true, nil
}
