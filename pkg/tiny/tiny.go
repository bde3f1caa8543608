// Package tiny is the embeddable façade over the Tiny lexer, parser and
// evaluator: construct an Engine, call Eval or Run, read the result back.
package tiny

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-tiny/internal/ast"
	"github.com/cwbudde/go-tiny/internal/errors"
	"github.com/cwbudde/go-tiny/internal/interp"
	"github.com/cwbudde/go-tiny/internal/lexer"
	"github.com/cwbudde/go-tiny/internal/parser"
)

// Engine is a reusable handle for running Tiny source against a persistent
// global environment: successive Eval calls share variables and function
// declarations, the way a REPL session does.
type Engine struct {
	interp *interp.Interpreter
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithStdout redirects the engine's print/println output.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.interp.Stdout = w }
}

// WithStdin redirects the engine's scan() input.
func WithStdin(r io.Reader) Option {
	return func(e *Engine) { e.interp.Stdin = r }
}

// New creates an Engine with a fresh global environment, stdout and stdin
// defaulting to the process's own.
func New(opts ...Option) *Engine {
	e := &Engine{interp: interp.New("", "<eval>")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of a successful Eval/Run call.
type Result struct {
	// Value is the program's result, per spec §4.4's "first non-unit
	// value wins" propagation: the first non-unit value its statement
	// sequence produced (empty string if the program produced Unit).
	Value string
}

// Eval lexes, parses and evaluates src against the engine's environment,
// leaving declared variables and functions available to a later Eval/Run
// call on the same Engine.
func (e *Engine) Eval(src string) (Result, error) {
	return e.run(src, "<eval>")
}

// Run evaluates the contents of filename (spec §6: `tiny <filename>`).
func (e *Engine) Run(filename string) (Result, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	return e.run(string(data), filename)
}

func (e *Engine) run(src, file string) (Result, error) {
	tokens, lerr := lexer.Tokenize(src)
	if lerr != nil {
		return Result{}, lerr
	}
	tokens, cerr := lexer.StripComments(tokens, src)
	if cerr != nil {
		return Result{}, cerr
	}
	prog, perr := parser.Parse(tokens, src, file)
	if perr != nil {
		return Result{}, perr
	}

	e.interp.Source = src
	e.interp.File = file
	value, rerr := e.interp.Run(prog)
	if rerr != nil {
		return Result{}, rerr
	}
	if interp.IsUnit(value) {
		return Result{Value: ""}, nil
	}
	return Result{Value: value.String()}, nil
}

// Diagnostic re-exports the evaluator's error type so callers can inspect
// Kind/Pos without importing internal/errors directly.
type Diagnostic = errors.Diagnostic

// ParseOnly lexes and parses src without evaluating it, for tooling that
// only needs the AST (`tiny parse` and `tiny run --dump-ast`).
func ParseOnly(src, file string) (*ast.Program, error) {
	tokens, lerr := lexer.Tokenize(src)
	if lerr != nil {
		return nil, lerr
	}
	tokens, cerr := lexer.StripComments(tokens, src)
	if cerr != nil {
		return nil, cerr
	}
	prog, perr := parser.Parse(tokens, src, file)
	if perr != nil {
		return nil, perr
	}
	return prog, nil
}
