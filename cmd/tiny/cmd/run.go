package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-tiny/pkg/tiny"
	"github.com/spf13/cobra"
)

var dumpASTBeforeRun bool

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a Tiny source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&dumpASTBeforeRun, "dump-ast", false, "print the parsed AST before running")
}

// runFile implements `tiny run <file>` (spec §6): exit 0 on success, nonzero
// on a parse or runtime error.
func runFile(filename string) error {
	if dumpASTBeforeRun {
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filename, err)
		}
		prog, perr := tiny.ParseOnly(string(data), filename)
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			return perr
		}
		fmt.Println(prog.String())
	}

	engine := tiny.New()
	if _, err := engine.Run(filename); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
