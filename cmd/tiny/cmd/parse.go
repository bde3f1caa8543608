package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-tiny/pkg/tiny"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a Tiny source file and print its AST",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		prog, perr := tiny.ParseOnly(string(data), args[0])
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			return perr
		}
		fmt.Println(prog.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
