package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/go-tiny/pkg/tiny"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Tiny session",
	Run: func(_ *cobra.Command, _ []string) {
		runREPL()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runREPL implements original_source/repl.py's loop: a "-> " prompt, blank
// lines skipped, `_` reprints the last value, EOF prints "Bye~" and exits,
// and any evaluation error is printed without disturbing `_`.
func runREPL() {
	engine := tiny.New()
	scanner := bufio.NewScanner(os.Stdin)
	lastValue := ""

	for {
		fmt.Print("-> ")
		if !scanner.Scan() {
			fmt.Println("Bye~")
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "_" {
			fmt.Println(lastValue)
			continue
		}

		res, err := engine.Eval(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		lastValue = res.Value
		if res.Value != "" {
			fmt.Println(res.Value)
		}
	}
}
