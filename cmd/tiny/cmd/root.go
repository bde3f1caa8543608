package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:  "tiny [file]",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runFile(args[0])
	},
	Short: "Tiny interpreter",
	Long: `tiny runs programs written in Tiny, a small dynamically-typed
imperative scripting language: assignment, if/while/for, first-class
functions and closures, arrays, and a handful of built-ins.

  tiny script.tiny         run a file
  tiny run script.tiny     run a file
  tiny repl                start an interactive session
  tiny lex script.tiny      print the token stream
  tiny parse script.tiny    print the parsed AST`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
