// Command tiny runs the Tiny interpreter: a file runner, a REPL, and small
// lexer/parser introspection commands for debugging scripts.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-tiny/cmd/tiny/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
