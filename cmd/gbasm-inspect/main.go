// Command gbasm-inspect is a static, read-only terminal browser over an
// assembly source file's lint diagnostics and cross-reference table. It
// never executes anything: the Game Boy CPU has no presence here, only
// the output of tools.Linter and tools.XRefGenerator.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: gbasm-inspect <file.asm>")
		os.Exit(1)
	}

	inspector, err := NewInspector(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := inspector.App.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
