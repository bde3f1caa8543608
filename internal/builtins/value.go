// Package builtins holds Tiny's runtime value representation and the
// registry of built-in functions (spec §4.5). It sits below package interp
// the way the teacher's runtime package sits below its interp package: the
// evaluator imports this one, never the reverse.
package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cwbudde/go-tiny/internal/ast"
)

// Value is any runtime value the evaluator produces or consumes. Concrete
// types are Int, Double, Bool, Str, *Array, *Function and Unit.
type Value interface {
	Type() string
	String() string
}

// Int is a 64-bit signed integer value.
type Int int64

func (Int) Type() string     { return "Int" }
func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

// Double is a 64-bit floating point value.
type Double float64

func (Double) Type() string     { return "Double" }
func (v Double) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// Bool is a boolean value.
type Bool bool

func (Bool) Type() string     { return "Bool" }
func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

// Str is a string value, always held in Unicode NFC normal form so that two
// strings built from differently-composed source text (precomposed vs.
// combining-mark CJK and accented input) compare and print identically.
type Str string

func (Str) Type() string     { return "Str" }
func (v Str) String() string { return string(v) }

// NewStr constructs a Str, normalizing s to NFC. This is the single place
// raw Go strings become Str values; both *ast.StrLit evaluation and the
// str() built-in route through it.
func NewStr(s string) Str {
	return Str(norm.NFC.String(s))
}

// Array is a reference-semantic fixed-size container (spec §4.4: two array
// variables referring to the same underlying Array alias; `array(...)`
// always allocates a fresh one).
type Array struct {
	Elements []Value
}

func (*Array) Type() string { return "Array" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NewArray builds a size-element array. If init is itself an *Array, each
// slot gets its own deep copy (spec §4.4: array-of-arrays initializers are
// not aliased); otherwise every slot holds the same scalar init (or Int(0)
// when init is nil).
func NewArray(size int, init Value) *Array {
	elements := make([]Value, size)
	switch v := init.(type) {
	case nil:
		for i := range elements {
			elements[i] = Int(0)
		}
	case *Array:
		for i := range elements {
			elements[i] = v.Clone()
		}
	default:
		for i := range elements {
			elements[i] = v
		}
	}
	return &Array{Elements: elements}
}

// Clone deep-copies an array: nested arrays are cloned recursively, so the
// copy shares no *Array with the original. An array reachable twice (or
// from itself) is copied once and shared the same way inside the copy.
func (a *Array) Clone() *Array {
	seen := map[*Array]*Array{}
	var clone func(src *Array) *Array
	clone = func(src *Array) *Array {
		if c, ok := seen[src]; ok {
			return c
		}
		c := &Array{Elements: make([]Value, len(src.Elements))}
		seen[src] = c
		for i, e := range src.Elements {
			if inner, ok := e.(*Array); ok {
				e = clone(inner)
			}
			c.Elements[i] = e
		}
		return c
	}
	return clone(a)
}

// Function is a first-class callable: a name, parameter list, body, and the
// frame id of its defining scope (spec §4.4: "Function values record the
// frame identity of their defining scope; this is what makes them
// closures."). DefiningFrame is 0, the global frame's id, for functions
// declared at global scope.
type Function struct {
	Name          string
	Params        []string
	Body          ast.Statement
	DefiningFrame int
}

func (*Function) Type() string { return "Function" }
func (f *Function) String() string {
	return fmt.Sprintf("func %s(%s)", f.Name, strings.Join(f.Params, ", "))
}

// Unit is the value of a statement that produced nothing (spec §4.4: "first
// non-unit value wins" propagation). A call yields it when the callee
// returns nothing, as print/println and functions without a return do.
type Unit struct{}

func (Unit) Type() string   { return "Unit" }
func (Unit) String() string { return "" }

// IsUnit reports whether v is the Unit value (including a nil interface,
// which callers use interchangeably with Unit{} for "no value produced").
func IsUnit(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Unit)
	return ok
}

// AsBool applies Tiny's boolean-coercion rule for conditions: only Bool
// participates; anything else is the caller's TypeError to raise.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsFloat widens Int or Double to float64 for mixed-numeric arithmetic.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Double:
		return float64(n), true
	default:
		return 0, false
	}
}
