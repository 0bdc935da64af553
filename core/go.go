package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashHandler is invoked on any panic inside a core.Go goroutine.
// Replaceable so the entry point can restore the terminal before printing.
var crashHandler atomic.Value

func init() {
	crashHandler.Store(func(r any) {
		fmt.Fprintf(os.Stderr, "\r\nCRASH DETECTED: %v\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
}

// SetCrashHandler replaces the process-wide panic handler for core.Go goroutines
func SetCrashHandler(fn func(r any)) {
	if fn != nil {
		crashHandler.Store(fn)
	}
}

// HandleCrash runs the installed panic handler
func HandleCrash(r any) {
	if r == nil {
		return
	}
	crashHandler.Load().(func(r any))(r)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so a crash cleans up the terminal.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
