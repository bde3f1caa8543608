// Package ast defines Tiny's abstract syntax tree: a closed sum of
// expression and statement node types produced once by the parser and
// treated as read-only by the evaluator.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cwbudde/go-tiny/internal/token"
)

// Node is the base interface every AST node satisfies.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node executed for effect; some statements (Return,
// Compound wrapping a Return, If/While/For bodies) also produce a value per
// spec §4.4's "first non-unit value" propagation rule.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: a single statement (possibly a Compound chain).
type Program struct {
	Body Statement
}

func (p *Program) TokenLiteral() string {
	if p.Body != nil {
		return p.Body.TokenLiteral()
	}
	return ""
}
func (p *Program) String() string {
	if p.Body == nil {
		return ""
	}
	return p.Body.String()
}
func (p *Program) Pos() token.Position {
	if p.Body != nil {
		return p.Body.Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// ---- Literals ----

type IntLit struct {
	Token token.Token
	Value int64
}

func (n *IntLit) expressionNode()      {}
func (n *IntLit) TokenLiteral() string { return n.Token.Lexeme }
func (n *IntLit) Pos() token.Position  { return n.Token.Pos }
func (n *IntLit) String() string       { return n.Token.Lexeme }

type DoubleLit struct {
	Token token.Token
	Value float64
}

func (n *DoubleLit) expressionNode()      {}
func (n *DoubleLit) TokenLiteral() string { return n.Token.Lexeme }
func (n *DoubleLit) Pos() token.Position  { return n.Token.Pos }
func (n *DoubleLit) String() string       { return n.Token.Lexeme }

type StrLit struct {
	Token token.Token
	Value string
}

func (n *StrLit) expressionNode()      {}
func (n *StrLit) TokenLiteral() string { return n.Token.Lexeme }
func (n *StrLit) Pos() token.Position  { return n.Token.Pos }
func (n *StrLit) String() string       { return fmt.Sprintf("%q", n.Value) }

type BoolLit struct {
	Token token.Token
	Value bool
}

func (n *BoolLit) expressionNode()      {}
func (n *BoolLit) TokenLiteral() string { return n.Token.Lexeme }
func (n *BoolLit) Pos() token.Position  { return n.Token.Pos }
func (n *BoolLit) String() string       { return n.Token.Lexeme }

// ---- Variable reference / indexing ----

type Var struct {
	Token token.Token
	Name  string
}

func (n *Var) expressionNode()      {}
func (n *Var) TokenLiteral() string { return n.Token.Lexeme }
func (n *Var) Pos() token.Position  { return n.Token.Pos }
func (n *Var) String() string       { return n.Name }

// Subscript indexes a named array through one or more index expressions:
// a[i][j] is Subscript{Name: "a", Indices: [i, j]}.
type Subscript struct {
	Token   token.Token
	Name    string
	Indices []Expression
}

func (n *Subscript) expressionNode()      {}
func (n *Subscript) TokenLiteral() string { return n.Token.Lexeme }
func (n *Subscript) Pos() token.Position  { return n.Token.Pos }
func (n *Subscript) String() string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	for _, idx := range n.Indices {
		sb.WriteString("[")
		sb.WriteString(idx.String())
		sb.WriteString("]")
	}
	return sb.String()
}

// ---- Arithmetic / relational / boolean ----

// BinOp covers + - * / div % & | ^ shl shr.
type BinOp struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (n *BinOp) expressionNode()      {}
func (n *BinOp) TokenLiteral() string { return n.Token.Lexeme }
func (n *BinOp) Pos() token.Position  { return n.Token.Pos }
func (n *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// RelOp covers > < >= <= = !=.
type RelOp struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (n *RelOp) expressionNode()      {}
func (n *RelOp) TokenLiteral() string { return n.Token.Lexeme }
func (n *RelOp) Pos() token.Position  { return n.Token.Pos }
func (n *RelOp) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

type And struct {
	Token       token.Token
	Left, Right Expression
}

func (n *And) expressionNode()      {}
func (n *And) TokenLiteral() string { return n.Token.Lexeme }
func (n *And) Pos() token.Position  { return n.Token.Pos }
func (n *And) String() string       { return fmt.Sprintf("(%s andalso %s)", n.Left, n.Right) }

type Or struct {
	Token       token.Token
	Left, Right Expression
}

func (n *Or) expressionNode()      {}
func (n *Or) TokenLiteral() string { return n.Token.Lexeme }
func (n *Or) Pos() token.Position  { return n.Token.Pos }
func (n *Or) String() string       { return fmt.Sprintf("(%s orelse %s)", n.Left, n.Right) }

type Xor struct {
	Token       token.Token
	Left, Right Expression
}

func (n *Xor) expressionNode()      {}
func (n *Xor) TokenLiteral() string { return n.Token.Lexeme }
func (n *Xor) Pos() token.Position  { return n.Token.Pos }
func (n *Xor) String() string       { return fmt.Sprintf("(%s xor %s)", n.Left, n.Right) }

type Not struct {
	Token token.Token
	Expr  Expression
}

func (n *Not) expressionNode()      {}
func (n *Not) TokenLiteral() string { return n.Token.Lexeme }
func (n *Not) Pos() token.Position  { return n.Token.Pos }
func (n *Not) String() string       { return fmt.Sprintf("(not %s)", n.Expr) }

// Neg is unary arithmetic negation: ~expr.
type Neg struct {
	Token token.Token
	Expr  Expression
}

func (n *Neg) expressionNode()      {}
func (n *Neg) TokenLiteral() string { return n.Token.Lexeme }
func (n *Neg) Pos() token.Position  { return n.Token.Pos }
func (n *Neg) String() string       { return fmt.Sprintf("(~%s)", n.Expr) }

// ---- Calls, functions, arrays ----

type Call struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (n *Call) expressionNode()      {}
func (n *Call) TokenLiteral() string { return n.Token.Lexeme }
func (n *Call) Pos() token.Position  { return n.Token.Pos }
func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
}

// Call is also usable as a statement when its value is discarded.
func (n *Call) statementNode() {}

// ArrayInit is `array(size[, init])`.
type ArrayInit struct {
	Token token.Token
	Size  Expression
	Init  Expression // nil if absent
}

func (n *ArrayInit) expressionNode()      {}
func (n *ArrayInit) TokenLiteral() string { return n.Token.Lexeme }
func (n *ArrayInit) Pos() token.Position  { return n.Token.Pos }
func (n *ArrayInit) String() string {
	if n.Init == nil {
		return fmt.Sprintf("array(%s)", n.Size)
	}
	return fmt.Sprintf("array(%s, %s)", n.Size, n.Init)
}

// ---- Statements ----

// AssignTarget is either a bare name or a Subscript; never pre-evaluated as
// a value when it is an assignment target (spec §9).
type AssignTarget struct {
	Name      string // set when Subscript is nil
	Subscript *Subscript
}

type Assign struct {
	Token  token.Token
	Target AssignTarget
	Value  Expression
}

func (n *Assign) statementNode()       {}
func (n *Assign) TokenLiteral() string { return n.Token.Lexeme }
func (n *Assign) Pos() token.Position  { return n.Token.Pos }
func (n *Assign) String() string {
	var tgt string
	if n.Target.Subscript != nil {
		tgt = n.Target.Subscript.String()
	} else {
		tgt = n.Target.Name
	}
	return fmt.Sprintf("%s := %s", tgt, n.Value.String())
}

// Compound is a `;`-separated statement sequence, left-folded.
type Compound struct {
	Token       token.Token
	Left, Right Statement
}

func (n *Compound) statementNode()       {}
func (n *Compound) TokenLiteral() string { return n.Token.Lexeme }
func (n *Compound) Pos() token.Position  { return n.Left.Pos() }
func (n *Compound) String() string {
	var out bytes.Buffer
	out.WriteString(n.Left.String())
	out.WriteString("; ")
	out.WriteString(n.Right.String())
	return out.String()
}

type If struct {
	Token token.Token
	Cond  Expression
	Then  Statement
	Else  Statement // nil if absent
}

func (n *If) statementNode()       {}
func (n *If) TokenLiteral() string { return n.Token.Lexeme }
func (n *If) Pos() token.Position  { return n.Token.Pos }
func (n *If) String() string {
	if n.Else == nil {
		return fmt.Sprintf("if %s then %s end", n.Cond, n.Then)
	}
	return fmt.Sprintf("if %s then %s else %s end", n.Cond, n.Then, n.Else)
}

type While struct {
	Token token.Token
	Cond  Expression
	Body  Statement
}

func (n *While) statementNode()       {}
func (n *While) TokenLiteral() string { return n.Token.Lexeme }
func (n *While) Pos() token.Position  { return n.Token.Pos }
func (n *While) String() string {
	return fmt.Sprintf("while %s do %s end", n.Cond, n.Body)
}

// For's three clauses are each independently optional (spec §6, original
// source: `for (;;) do ... end` is a legal infinite loop).
type For struct {
	Token token.Token
	Init  *Assign    // nil if absent
	Cond  Expression // nil if absent (treated as always-true)
	Post  *Assign    // nil if absent
	Body  Statement
}

func (n *For) statementNode()       {}
func (n *For) TokenLiteral() string { return n.Token.Lexeme }
func (n *For) Pos() token.Position  { return n.Token.Pos }
func (n *For) String() string {
	var sb strings.Builder
	sb.WriteString("for (")
	if n.Init != nil {
		sb.WriteString(n.Init.String())
	}
	sb.WriteString("; ")
	if n.Cond != nil {
		sb.WriteString(n.Cond.String())
	}
	sb.WriteString("; ")
	if n.Post != nil {
		sb.WriteString(n.Post.String())
	}
	sb.WriteString(") do ")
	sb.WriteString(n.Body.String())
	sb.WriteString(" end")
	return sb.String()
}

type FuncDecl struct {
	Token  token.Token
	Name   string
	Params []string
	Body   Statement
}

func (n *FuncDecl) statementNode()       {}
func (n *FuncDecl) TokenLiteral() string { return n.Token.Lexeme }
func (n *FuncDecl) Pos() token.Position  { return n.Token.Pos }
func (n *FuncDecl) String() string {
	return fmt.Sprintf("func %s(%s) => %s end", n.Name, strings.Join(n.Params, ", "), n.Body)
}

// LambdaDecl is a FuncDecl with a synthesized unique name (spec §4.4).
type LambdaDecl struct {
	Token  token.Token
	Name   string // synthesized
	Params []string
	Body   Statement
}

func (n *LambdaDecl) expressionNode()      {}
func (n *LambdaDecl) TokenLiteral() string { return n.Token.Lexeme }
func (n *LambdaDecl) Pos() token.Position  { return n.Token.Pos }
func (n *LambdaDecl) String() string {
	return fmt.Sprintf("func(%s) => %s end", strings.Join(n.Params, ", "), n.Body)
}

type Return struct {
	Token token.Token
	Value Expression
}

func (n *Return) statementNode()       {}
func (n *Return) TokenLiteral() string { return n.Token.Lexeme }
func (n *Return) Pos() token.Position  { return n.Token.Pos }
func (n *Return) String() string       { return fmt.Sprintf("return %s", n.Value) }

// ExprStatement wraps a bare expression used as a statement (e.g. a lone
// arithmetic expression at the top level, spec grammar `stmt ::= ... | aexp`).
type ExprStatement struct {
	Token token.Token
	Expr  Expression
}

func (n *ExprStatement) statementNode()       {}
func (n *ExprStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *ExprStatement) Pos() token.Position  { return n.Token.Pos }
func (n *ExprStatement) String() string       { return n.Expr.String() }
