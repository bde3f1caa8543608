package builtins

import (
	"fmt"
	"io"
)

// Context carries the I/O streams a built-in may need (spec §4.5: print
// writes to the interpreter's configured stdout; scan reads a line from its
// configured stdin).
type Context struct {
	Stdout io.Writer
	Stdin  io.Reader
}

// Func is the shape every built-in function has: already-evaluated
// arguments in, a single Value (or Unit, for print/println) out.
type Func func(ctx Context, args []Value) (Value, error)

var registry = map[string]Func{
	"print":   biPrint,
	"println": biPrintln,
	"scan":    biScan,
	"int":     biInt,
	"len":     biLen,
	"abs":     biAbs,
	"pow":     biPow,
	"power":   biPow,
	"ceil":    biCeil,
	"floor":   biFloor,
	"max":     biMax,
	"min":     biMin,
	"str":     biStr,
	"substr":  biSubstr,
	"concat":  biConcat,
	"sin":     biSin,
	"cos":     biCos,
	"sqrt":    biSqrt,
	"random":  biRandom,
	"randint": biRandint,
}

// Lookup reports whether name is a built-in, consulted before the user's
// declared functions (spec §4.5: "the built-in table is consulted first").
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

func arityError(name string, want int, got []Value) error {
	return fmt.Errorf("%s expects %d argument(s), got %d", name, want, len(got))
}
