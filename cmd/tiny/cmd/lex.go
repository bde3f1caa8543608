package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-tiny/internal/lexer"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Print the token stream for a Tiny source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		tokens, lerr := lexer.Tokenize(string(data))
		if lerr != nil {
			fmt.Fprintln(os.Stderr, lerr)
			return lerr
		}
		tokens, cerr := lexer.StripComments(tokens, string(data))
		if cerr != nil {
			fmt.Fprintln(os.Stderr, cerr)
			return cerr
		}
		for _, tok := range tokens {
			fmt.Printf("%4d:%-3d %-12s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok.Lexeme)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}
