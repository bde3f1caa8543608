package tiny

import (
	"bytes"
	"strings"
	"testing"
)

func TestEvalReturnsLastValue(t *testing.T) {
	e := New()
	res, err := e.Eval("x := 1 + 2; x * 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != "30" {
		t.Errorf("got %q, want 30", res.Value)
	}
}

func TestEvalSharesEnvironmentAcrossCalls(t *testing.T) {
	e := New()
	if _, err := e.Eval("x := 5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := e.Eval("x + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != "6" {
		t.Errorf("got %q, want 6 (environment should persist)", res.Value)
	}
}

func TestEvalUnitProducesEmptyValue(t *testing.T) {
	e := New()
	res, err := e.Eval("x := 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != "" {
		t.Errorf("got %q, want empty string for Unit", res.Value)
	}
}

func TestWithStdoutCapturesPrint(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithStdout(&buf))
	if _, err := e.Eval("println(1, 2, 3)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "1 2 3\n" {
		t.Errorf("got %q", got)
	}
}

func TestWithStdinFeedsScan(t *testing.T) {
	e := New(WithStdin(strings.NewReader("hi\n")))
	res, err := e.Eval("scan()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != "hi" {
		t.Errorf("got %q, want hi", res.Value)
	}
}

func TestEvalSyntaxErrorReturnsDiagnostic(t *testing.T) {
	e := New()
	_, err := e.Eval("x := := 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*Diagnostic); !ok {
		t.Fatalf("got %T, want *Diagnostic", err)
	}
}

func TestParseOnlyReturnsProgram(t *testing.T) {
	prog, err := ParseOnly("x := 1 + 2", "<test>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Body == nil {
		t.Fatal("expected non-nil body")
	}
}
