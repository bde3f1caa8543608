package builtins

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintJoinsWithSpaceNoTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	ctx := Context{Stdout: &buf}
	if _, err := biPrint(ctx, []Value{Int(1), Str("x"), Bool(true)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "1 x true"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintlnAddsNewline(t *testing.T) {
	var buf bytes.Buffer
	ctx := Context{Stdout: &buf}
	if _, err := biPrintln(ctx, []Value{Int(7)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "7\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScanReadsOneLine(t *testing.T) {
	ctx := Context{Stdin: strings.NewReader("hello\nworld\n")}
	v, err := biScan(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Str("hello") {
		t.Errorf("got %v, want Str(hello)", v)
	}
}

func TestLenOnArrayAndStr(t *testing.T) {
	arr := NewArray(3, Int(0))
	v, err := biLen(Context{}, []Value{arr})
	if err != nil || v != Int(3) {
		t.Fatalf("got (%v, %v), want (3, nil)", v, err)
	}
	v, err = biLen(Context{}, []Value{Str("hi")})
	if err != nil || v != Int(2) {
		t.Fatalf("got (%v, %v), want (2, nil)", v, err)
	}
}

func TestIntConvertsDoubleAndBool(t *testing.T) {
	tests := []struct {
		name string
		arg  Value
		want Int
	}{
		{"double truncates", Double(3.9), Int(3)},
		{"true is 1", Bool(true), Int(1)},
		{"false is 0", Bool(false), Int(0)},
		{"int passes through", Int(5), Int(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := biInt(Context{}, []Value{tt.arg})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestArithmeticHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		args []Value
		want Value
	}{
		{"abs negative int", biAbs, []Value{Int(-4)}, Int(4)},
		{"abs positive double", biAbs, []Value{Double(2.5)}, Double(2.5)},
		{"pow", biPow, []Value{Int(2), Int(10)}, Double(1024)},
		{"ceil", biCeil, []Value{Double(1.1)}, Int(2)},
		{"floor", biFloor, []Value{Double(1.9)}, Int(1)},
		{"max", biMax, []Value{Int(3), Int(7)}, Int(7)},
		{"min", biMin, []Value{Int(3), Int(7)}, Int(3)},
		{"sqrt", biSqrt, []Value{Int(9)}, Double(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(Context{}, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrAndSubstrAndConcat(t *testing.T) {
	if v, err := biStr(Context{}, []Value{Int(42)}); err != nil || v != Str("42") {
		t.Fatalf("str got (%v, %v)", v, err)
	}
	v, err := biSubstr(Context{}, []Value{Str("hello"), Int(1), Int(3)})
	if err != nil || v != Str("ell") {
		t.Fatalf("substr got (%v, %v), want ell", v, err)
	}
	v, err = biConcat(Context{}, []Value{Str("foo"), Str("bar")})
	if err != nil || v != Str("foobar") {
		t.Fatalf("concat got (%v, %v), want foobar", v, err)
	}
}

func TestSubstrOutOfRangeErrors(t *testing.T) {
	if _, err := biSubstr(Context{}, []Value{Str("hi"), Int(0), Int(5)}); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestRandintRespectsBounds(t *testing.T) {
	for i := 0; i < 20; i++ {
		v, err := biRandint(Context{}, []Value{Int(5), Int(5)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != Int(5) {
			t.Errorf("got %v, want 5 (degenerate range)", v)
		}
	}
}

func TestLookupFindsAllRegisteredNames(t *testing.T) {
	names := []string{
		"print", "println", "scan", "int", "len", "abs", "pow", "power",
		"ceil", "floor", "max", "min", "str", "substr", "concat", "sin",
		"cos", "sqrt", "random", "randint",
	}
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) = false, want true", name)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(\"nope\") = true, want false")
	}
}
