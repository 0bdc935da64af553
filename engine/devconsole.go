package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// OpenDevConsole blocks on a single line read and hands the entered text
// verbatim to the scripting environment. Diagnostic tooling only: output
// goes straight to the process stdout, bypassing the surface.
func (g *Game) OpenDevConsole() {
	g.openDevConsole(os.Stdin, os.Stdout)
}

func (g *Game) openDevConsole(in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "---------------~DEV CONSOLE~---------------")
	fmt.Fprint(out, "Please enter a command: ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out, "-------------~END OF CONSOLE~-------------")
		return
	}
	command := strings.TrimSpace(line)

	if command != "" {
		if err := g.script.DoString(command); err != nil {
			fmt.Fprintf(out, "Invalid command '%s'.\nError: %v\n", command, err)
		}
	}
	fmt.Fprintln(out, "-------------~END OF CONSOLE~-------------")
}
