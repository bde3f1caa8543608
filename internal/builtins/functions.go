package builtins

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
)

// biPrint writes each argument space-separated with no trailing newline,
// matching original_source/built_in_functions.py's `print(i, end=' ')` loop.
func biPrint(ctx Context, args []Value) (Value, error) {
	for i, a := range args {
		if i > 0 {
			fmt.Fprint(ctx.Stdout, " ")
		}
		fmt.Fprint(ctx.Stdout, a.String())
	}
	return Unit{}, nil
}

// biPrintln is biPrint plus a trailing newline.
func biPrintln(ctx Context, args []Value) (Value, error) {
	if _, err := biPrint(ctx, args); err != nil {
		return nil, err
	}
	fmt.Fprintln(ctx.Stdout)
	return Unit{}, nil
}

// biScan reads a single line from stdin (spec §6: `scan()` is Tiny's only
// input primitive, grounded on the original's `input()` wrapper).
func biScan(ctx Context, args []Value) (Value, error) {
	if len(args) != 0 {
		return nil, arityError("scan", 0, args)
	}
	scanner := bufio.NewScanner(ctx.Stdin)
	if scanner.Scan() {
		return NewStr(scanner.Text()), nil
	}
	return Str(""), nil
}

func biInt(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("int", 1, args)
	}
	switch v := args[0].(type) {
	case Int:
		return v, nil
	case Double:
		return Int(int64(v)), nil
	case Bool:
		if v {
			return Int(1), nil
		}
		return Int(0), nil
	default:
		return nil, fmt.Errorf("int() operand is %s, not numeric", args[0].Type())
	}
}

func biLen(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("len", 1, args)
	}
	switch v := args[0].(type) {
	case *Array:
		return Int(len(v.Elements)), nil
	case Str:
		return Int(len([]rune(v))), nil
	default:
		return nil, fmt.Errorf("len() operand is %s, want Array or Str", args[0].Type())
	}
}

func biAbs(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("abs", 1, args)
	}
	switch v := args[0].(type) {
	case Int:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case Double:
		return Double(math.Abs(float64(v))), nil
	default:
		return nil, fmt.Errorf("abs() operand is %s, not numeric", args[0].Type())
	}
}

func biPow(_ Context, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("pow", 2, args)
	}
	base, ok1 := AsFloat(args[0])
	exp, ok2 := AsFloat(args[1])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("pow() requires numeric operands")
	}
	return Double(math.Pow(base, exp)), nil
}

func biCeil(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("ceil", 1, args)
	}
	f, ok := AsFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("ceil() operand is %s, not numeric", args[0].Type())
	}
	return Int(int64(math.Ceil(f))), nil
}

func biFloor(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("floor", 1, args)
	}
	f, ok := AsFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("floor() operand is %s, not numeric", args[0].Type())
	}
	return Int(int64(math.Floor(f))), nil
}

func biMax(_ Context, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("max", 2, args)
	}
	lf, ok1 := AsFloat(args[0])
	rf, ok2 := AsFloat(args[1])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("max() requires numeric operands")
	}
	if lf >= rf {
		return args[0], nil
	}
	return args[1], nil
}

func biMin(_ Context, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("min", 2, args)
	}
	lf, ok1 := AsFloat(args[0])
	rf, ok2 := AsFloat(args[1])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("min() requires numeric operands")
	}
	if lf <= rf {
		return args[0], nil
	}
	return args[1], nil
}

// biStr stringifies a value. NewStr normalizes to NFC on the way in, the
// same as an *ast.StrLit; str() never needs to normalize separately because
// args[0].String() for a Str value is already in normal form.
func biStr(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("str", 1, args)
	}
	return NewStr(args[0].String()), nil
}

func biSubstr(_ Context, args []Value) (Value, error) {
	if len(args) != 3 {
		return nil, arityError("substr", 3, args)
	}
	s, ok := args[0].(Str)
	if !ok {
		return nil, fmt.Errorf("substr() first operand is %s, want Str", args[0].Type())
	}
	start, ok := args[1].(Int)
	if !ok {
		return nil, fmt.Errorf("substr() start is %s, want Int", args[1].Type())
	}
	length, ok := args[2].(Int)
	if !ok {
		return nil, fmt.Errorf("substr() length is %s, want Int", args[2].Type())
	}
	runes := []rune(s)
	lo := int(start)
	hi := lo + int(length)
	if lo < 0 || hi < lo || hi > len(runes) {
		return nil, fmt.Errorf("substr(%d, %d) out of range for string of length %d", lo, length, len(runes))
	}
	return Str(runes[lo:hi]), nil
}

func biConcat(_ Context, args []Value) (Value, error) {
	out := ""
	for _, a := range args {
		s, ok := a.(Str)
		if !ok {
			return nil, fmt.Errorf("concat() operand is %s, want Str", a.Type())
		}
		out += string(s)
	}
	return NewStr(out), nil
}

func biSin(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("sin", 1, args)
	}
	f, ok := AsFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("sin() operand is %s, not numeric", args[0].Type())
	}
	return Double(math.Sin(f)), nil
}

func biCos(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("cos", 1, args)
	}
	f, ok := AsFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("cos() operand is %s, not numeric", args[0].Type())
	}
	return Double(math.Cos(f)), nil
}

func biSqrt(_ Context, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, arityError("sqrt", 1, args)
	}
	f, ok := AsFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("sqrt() operand is %s, not numeric", args[0].Type())
	}
	if f < 0 {
		return nil, fmt.Errorf("sqrt() of negative number %g", f)
	}
	return Double(math.Sqrt(f)), nil
}

func biRandom(_ Context, args []Value) (Value, error) {
	if len(args) != 0 {
		return nil, arityError("random", 0, args)
	}
	return Double(rand.Float64()), nil
}

func biRandint(_ Context, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, arityError("randint", 2, args)
	}
	lo, ok1 := args[0].(Int)
	hi, ok2 := args[1].(Int)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("randint() requires two Int operands")
	}
	if hi < lo {
		return nil, fmt.Errorf("randint(%d, %d): upper bound below lower bound", lo, hi)
	}
	return lo + Int(rand.Int63n(int64(hi-lo)+1)), nil
}
