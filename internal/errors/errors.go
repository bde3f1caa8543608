// Package errors formats Tiny diagnostics with source context, line/column
// information, and a caret pointing at the offending position.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-tiny/internal/token"
)

// Kind enumerates the closed set of diagnostics from spec §7.
type Kind string

const (
	LexErrorKind     Kind = "LexError"
	CommentErrorKind Kind = "CommentError"
	ParseErrorKind   Kind = "ParseError"
	NameErrorKind    Kind = "NameError"
	ArityErrorKind   Kind = "ArityError"
	TypeErrorKind    Kind = "TypeError"
	IndexErrorKind   Kind = "IndexError"
	DivideByZeroKind Kind = "DivideByZero"
)

// Diagnostic is a single error with position and source context.
type Diagnostic struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
	Stack   StackTrace
}

// New builds a Diagnostic with no call stack attached.
func New(kind Kind, pos token.Position, source, file, message string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(message, args...),
		Source:  source,
		File:    file,
		Pos:     pos,
	}
}

// NewWithStack builds a Diagnostic carrying the call stack active when the
// error was raised, oldest frame first.
func NewWithStack(kind Kind, pos token.Position, source, file string, stack StackTrace, message string, args ...any) *Diagnostic {
	d := New(kind, pos, source, file, message, args...)
	d.Stack = stack
	return d
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with a source line and caret, optionally
// with ANSI color for terminal output.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", d.Kind, d.File, d.Pos.Line, d.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", d.Kind, d.Pos.Line, d.Pos.Column))
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	if len(d.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(d.Stack.String())
	}

	return sb.String()
}

func (d *Diagnostic) sourceLine(line int) string {
	if d.Source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders one or more diagnostics as a single report.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d diagnostic(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
