// Package interp evaluates a Tiny ast.Program against a frame-based runtime
// environment (spec §4.4). Value types live in internal/builtins so that
// package can define built-in functions without importing back into interp.
package interp

import "github.com/cwbudde/go-tiny/internal/builtins"

type (
	Value    = builtins.Value
	Int      = builtins.Int
	Double   = builtins.Double
	Bool     = builtins.Bool
	Str      = builtins.Str
	Array    = builtins.Array
	Function = builtins.Function
	Unit     = builtins.Unit
)

var (
	NewArray = builtins.NewArray
	NewStr   = builtins.NewStr
	IsUnit   = builtins.IsUnit
	asBool   = builtins.AsBool
)
