package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/go-tiny/internal/errors"
	"github.com/cwbudde/go-tiny/internal/lexer"
	"github.com/cwbudde/go-tiny/internal/parser"
)

func runSrc(t *testing.T, src string) (Value, *Interpreter, *errors.Diagnostic) {
	t.Helper()
	tokens, lerr := lexer.Tokenize(src)
	if lerr != nil {
		t.Fatalf("lex error: %v", lerr)
	}
	tokens, cerr := lexer.StripComments(tokens, src)
	if cerr != nil {
		t.Fatalf("comment error: %v", cerr)
	}
	prog, perr := parser.Parse(tokens, src, "<test>")
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	in := New(src, "<test>")
	var buf bytes.Buffer
	in.Stdout = &buf
	v, err := in.Run(prog)
	return v, in, err
}

func TestEvalArithmeticPromotion(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"1 + 2", Int(3)},
		{"1 + 2.0", Double(3)},
		{"7 / 2", Double(3.5)},
		{"7 div 2", Int(3)},
		{"7 % 2", Int(1)},
		{"\"foo\" + \"bar\"", Str("foobar")},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, _, err := runSrc(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestEvalDivideByZero(t *testing.T) {
	_, _, err := runSrc(t, "1 div 0")
	if err == nil || err.Kind != errors.DivideByZeroKind {
		t.Fatalf("got %v, want DivideByZero", err)
	}
}

func TestEvalIfElse(t *testing.T) {
	v, _, err := runSrc(t, "if 1 > 0 then x := 10 else x := 20 end; x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(10) {
		t.Errorf("got %v, want 10", v)
	}
}

func TestEvalWhileAccumulates(t *testing.T) {
	v, _, err := runSrc(t, "i := 0; sum := 0; while i < 5 do sum := sum + i; i := i + 1 end; sum")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(10) {
		t.Errorf("got %v, want 10", v)
	}
}

func TestEvalForAllClausesOptional(t *testing.T) {
	v, _, err := runSrc(t, "i := 0; for (;i < 3;) do i := i + 1 end; i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(3) {
		t.Errorf("got %v, want 3", v)
	}
}

func TestEvalRecursiveFunction(t *testing.T) {
	v, _, err := runSrc(t, `
		func fact(n) =>
			if n <= 1 then
				return 1
			else
				return n * fact(n - 1)
			end
		end;
		fact(5)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(120) {
		t.Errorf("got %v, want 120", v)
	}
}

func TestEvalClosureCapturesDefiningFrame(t *testing.T) {
	src := `
		func makeCounter() =>
			count := 0;
			return func() =>
				count := count + 1;
				return count
			end
		end;
		c := makeCounter();
		c();
		c();
		c()
	`
	v, _, err := runSrc(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(3) {
		t.Errorf("got %v, want 3 (closure should retain its own counter)", v)
	}
}

func TestEvalTwoClosuresHaveIndependentState(t *testing.T) {
	src := `
		func makeCounter() =>
			count := 0;
			return func() =>
				count := count + 1;
				return count
			end
		end;
		c1 := makeCounter();
		c2 := makeCounter();
		r := c1();
		r := c1();
		c2()
	`
	v, _, err := runSrc(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(1) {
		t.Errorf("got %v, want 1 (c2's counter should not see c1's increments)", v)
	}
}

func TestEvalFirstReturnValueWinsInCompound(t *testing.T) {
	src := `
		func f() =>
			return 1;
			return 2
		end;
		f()
	`
	v, _, err := runSrc(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(1) {
		t.Errorf("got %v, want 1 (first non-unit value wins)", v)
	}
}

func TestEvalCompoundEvaluatesBothSidesForEffect(t *testing.T) {
	src := `
		func compute(n) =>
			return n * 2
		end;
		compute(5);
		println("after")
	`
	v, in, err := runSrc(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(10) {
		t.Errorf("got %v, want 10 (compute(5)'s non-unit result still wins overall)", v)
	}
	if !strings.Contains(in.Stdout.(*bytes.Buffer).String(), "after") {
		t.Error("println(\"after\") side effect was dropped: a non-unit result from a bare " +
			"call statement (compute(5)) must not short-circuit the rest of the sequence")
	}
}

func TestEvalArrayAssignAndRead(t *testing.T) {
	v, _, err := runSrc(t, "a := array(3, 0); a[1] := 42; a[1]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(42) {
		t.Errorf("got %v, want 42", v)
	}
}

func TestEvalArrayIsReferenceSemantic(t *testing.T) {
	v, _, err := runSrc(t, "a := array(3, 0); b := a; b[0] := 7; a[0]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(7) {
		t.Errorf("got %v, want 7 (a and b alias the same array)", v)
	}
}

func TestEvalArrayInitFromAnotherArrayDeepCopies(t *testing.T) {
	src := "src := array(2, 9); grid := array(2, src); grid[0][0] := 1; src[0]"
	v, _, err := runSrc(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(9) {
		t.Errorf("got %v, want 9 (grid's rows must not alias src)", v)
	}
}

func TestEvalIndexOutOfRange(t *testing.T) {
	_, _, err := runSrc(t, "a := array(3, 0); a[5]")
	if err == nil || err.Kind != errors.IndexErrorKind {
		t.Fatalf("got %v, want IndexError", err)
	}
}

func TestEvalUndeclaredCallIsNameError(t *testing.T) {
	_, _, err := runSrc(t, "undeclaredFn()")
	if err == nil || err.Kind != errors.NameErrorKind {
		t.Fatalf("got %v, want NameError", err)
	}
}

func TestEvalArityMismatch(t *testing.T) {
	_, _, err := runSrc(t, "func f(a, b) => return a + b end; f(1)")
	if err == nil || err.Kind != errors.ArityErrorKind {
		t.Fatalf("got %v, want ArityError", err)
	}
}

func TestEvalMissingVariableReadYieldsZero(t *testing.T) {
	v, _, err := runSrc(t, "neverAssigned")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(0) {
		t.Errorf("got %v, want Int(0) (spec §7 asymmetry: reads default, calls don't)", v)
	}
}

func TestEvalBuiltinTableConsultedBeforeUserFunctions(t *testing.T) {
	var buf bytes.Buffer
	tokens, _ := lexer.Tokenize("func len(x) => return 999 end; println(len(array(3, 0)))")
	tokens, _ = lexer.StripComments(tokens, "")
	prog, perr := parser.Parse(tokens, "", "<test>")
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	in := New("", "<test>")
	in.Stdout = &buf
	if _, err := in.Run(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "3" {
		t.Errorf("got %q, want 3 (built-in len must win over the user's redeclaration)", got)
	}
}

func TestEvalDiagnosticCarriesCallStack(t *testing.T) {
	src := `
		func inner(x) =>
			return x div 0
		end;
		func outer(x) =>
			return inner(x)
		end;
		outer(5)
	`
	_, _, err := runSrc(t, src)
	if err == nil || err.Kind != errors.DivideByZeroKind {
		t.Fatalf("got %v, want DivideByZero", err)
	}
	if len(err.Stack) != 2 {
		t.Fatalf("got %d stack frames, want 2 (outer, inner)", len(err.Stack))
	}
	if err.Stack[0].FunctionName != "outer" || err.Stack[1].FunctionName != "inner" {
		t.Errorf("got stack %v, want [outer, inner] oldest first", err.Stack)
	}
}

func TestEvalBooleanOperators(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"True andalso False", Bool(false)},
		{"True orelse False", Bool(true)},
		{"True xor True", Bool(false)},
		{"not False", Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, _, err := runSrc(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}
