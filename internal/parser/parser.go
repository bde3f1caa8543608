// Package parser turns a stripped token stream into an ast.Program using the
// combinator algebra in internal/combinator, mirroring the grammar in
// original_source/tiny_parser.py extended with calls, functions, arrays and
// subscripts (spec §4.3).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-tiny/internal/ast"
	"github.com/cwbudde/go-tiny/internal/combinator"
	"github.com/cwbudde/go-tiny/internal/errors"
	"github.com/cwbudde/go-tiny/internal/token"
)

type (
	exprP = combinator.Parser[ast.Expression]
	stmtP = combinator.Parser[ast.Statement]
)

// tagTok and resTok are thin specializations of combinator.Tag/Reserved that
// yield the whole matched token instead of just its lexeme: the grammar needs
// source positions to stamp onto AST nodes, which the generic string-yielding
// primitives don't carry.
func tagTok(kind token.Kind) combinator.Parser[token.Token] {
	return func(tokens []token.Token, pos int) (combinator.Result[token.Token], bool) {
		if pos < len(tokens) && tokens[pos].Kind == kind {
			return combinator.Result[token.Token]{Value: tokens[pos], Pos: pos + 1}, true
		}
		return combinator.Result[token.Token]{}, false
	}
}

func resTok(lexeme string) combinator.Parser[token.Token] {
	return func(tokens []token.Token, pos int) (combinator.Result[token.Token], bool) {
		if pos < len(tokens) && tokens[pos].Kind == token.Reserved && tokens[pos].Lexeme == lexeme {
			return combinator.Result[token.Token]{Value: tokens[pos], Pos: pos + 1}, true
		}
		return combinator.Result[token.Token]{}, false
	}
}

// anyOf tries each reserved lexeme in order, left to right.
func anyOf(lexemes ...string) combinator.Parser[token.Token] {
	p := resTok(lexemes[0])
	for _, lx := range lexemes[1:] {
		p = combinator.Alternate(p, resTok(lx))
	}
	return p
}

var identTok = tagTok(token.Identifier)

// ---- literals ----

func intExpr() exprP {
	return combinator.Process(tagTok(token.Int), func(t token.Token) ast.Expression {
		v, _ := strconv.ParseInt(t.Lexeme, 10, 64)
		return &ast.IntLit{Token: t, Value: v}
	})
}

func doubleExpr() exprP {
	return combinator.Process(tagTok(token.Double), func(t token.Token) ast.Expression {
		v, _ := strconv.ParseFloat(t.Lexeme, 64)
		return &ast.DoubleLit{Token: t, Value: v}
	})
}

func stringExpr() exprP {
	return combinator.Process(tagTok(token.String), func(t token.Token) ast.Expression {
		unquoted := t.Lexeme
		if len(unquoted) >= 2 {
			unquoted = unquoted[1 : len(unquoted)-1]
		}
		return &ast.StrLit{Token: t, Value: unquoted}
	})
}

func boolExpr() exprP {
	return combinator.Process(tagTok(token.Bool), func(t token.Token) ast.Expression {
		return &ast.BoolLit{Token: t, Value: t.Lexeme == "True"}
	})
}

func varExpr() exprP {
	return combinator.Process(identTok, func(t token.Token) ast.Expression {
		return &ast.Var{Token: t, Name: t.Lexeme}
	})
}

// indexBracket matches a single `[ aexp ]`, used both by subscript-as-target
// and subscript-as-expression.
func indexBracket() combinator.Parser[ast.Expression] {
	return combinator.Process(
		combinator.Concat(resTok("["), combinator.Concat(combinator.Lazy(aexp), resTok("]"))),
		func(p combinator.Pair[token.Token, combinator.Pair[ast.Expression, token.Token]]) ast.Expression {
			return p.Right.Left
		},
	)
}

func subscriptExpr() exprP {
	return combinator.Process(
		combinator.Concat(identTok, combinator.Concat(indexBracket(), combinator.Rep(indexBracket()))),
		func(p combinator.Pair[token.Token, combinator.Pair[ast.Expression, []ast.Expression]]) ast.Expression {
			indices := append([]ast.Expression{p.Right.Left}, p.Right.Right...)
			return &ast.Subscript{Token: p.Left, Name: p.Left.Lexeme, Indices: indices}
		},
	)
}

// subscriptTarget parses the same shape but returns ast.AssignTarget, used by
// the assign production.
func subscriptTarget() combinator.Parser[ast.AssignTarget] {
	return combinator.Process(subscriptExpr(), func(e ast.Expression) ast.AssignTarget {
		return ast.AssignTarget{Subscript: e.(*ast.Subscript)}
	})
}

func identTarget() combinator.Parser[ast.AssignTarget] {
	return combinator.Process(identTok, func(t token.Token) ast.AssignTarget {
		return ast.AssignTarget{Name: t.Lexeme}
	})
}

func negExpr() exprP {
	return combinator.Process(
		combinator.Concat(resTok("~"), combinator.Lazy(aexp)),
		func(p combinator.Pair[token.Token, ast.Expression]) ast.Expression {
			return &ast.Neg{Token: p.Left, Expr: p.Right}
		},
	)
}

func argList() combinator.Parser[[]ast.Expression] {
	rest := combinator.Process(
		combinator.Concat(resTok(","), combinator.Lazy(aexp)),
		func(p combinator.Pair[token.Token, ast.Expression]) ast.Expression { return p.Right },
	)
	return combinator.Process(
		combinator.Concat(combinator.Lazy(aexp), combinator.Rep(rest)),
		func(p combinator.Pair[ast.Expression, []ast.Expression]) []ast.Expression {
			return append([]ast.Expression{p.Left}, p.Right...)
		},
	)
}

func callExpr() exprP {
	return combinator.Process(
		combinator.Concat(identTok, combinator.Concat(resTok("("), combinator.Concat(combinator.Opt(argList()), resTok(")")))),
		func(p combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[combinator.Pair[[]ast.Expression, bool], token.Token]]]) ast.Expression {
			args := p.Right.Right.Left.Left
			return &ast.Call{Token: p.Left, Name: p.Left.Lexeme, Args: args}
		},
	)
}

func paramList() combinator.Parser[[]string] {
	rest := combinator.Process(
		combinator.Concat(resTok(","), identTok),
		func(p combinator.Pair[token.Token, token.Token]) string { return p.Right.Lexeme },
	)
	return combinator.Process(
		combinator.Concat(identTok, combinator.Rep(rest)),
		func(p combinator.Pair[token.Token, []string]) []string {
			return append([]string{p.Left.Lexeme}, p.Right...)
		},
	)
}

// lambdaExpr is `func '(' params? ')' '=>' stmtList 'end'`: an anonymous
// FuncDecl usable as a value (spec §4.4: "LambdaDecl ... uses a synthesized
// unique name"). The name is derived from source position, which is unique
// per occurrence in a program.
func lambdaExpr() exprP {
	return combinator.Process(
		combinator.Concat(resTok("func"),
			combinator.Concat(resTok("("),
				combinator.Concat(combinator.Opt(paramList()),
					combinator.Concat(resTok(")"),
						combinator.Concat(resTok("=>"),
							combinator.Concat(combinator.Lazy(stmtList), resTok("end"))))))),
		func(p combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[combinator.Pair[[]string, bool], combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[ast.Statement, token.Token]]]]]]) ast.Expression {
			params := p.Right.Right.Left.Left
			body := p.Right.Right.Right.Right.Right.Left
			name := fmt.Sprintf("$lambda@%s", p.Left.Pos.String())
			return &ast.LambdaDecl{Token: p.Left, Name: name, Params: params, Body: body}
		},
	)
}

func parenAexp() exprP {
	return combinator.Process(
		combinator.Concat(resTok("("), combinator.Concat(combinator.Lazy(aexp), resTok(")"))),
		func(p combinator.Pair[token.Token, combinator.Pair[ast.Expression, token.Token]]) ast.Expression {
			return p.Right.Left
		},
	)
}

// aexpTerm is the leaf level of arithmetic expressions. Order encodes the
// grammar's tie-breaks: a lambda starts with the reserved word `func` so it
// never competes with call/subscript/ident; subscript must be tried before a
// bare identifier or `a[0]` would parse as just `a`.
func aexpTerm() exprP {
	// arrayInitExpr must be one of these alternatives at all: "array" is a
	// reserved word (see lexer's reserved table), not an Identifier, so
	// callExpr's identTok match can never consume it. Without arrayInitExpr
	// here, a nested array(...) used as an Init expression or call argument
	// had no term able to match the leading "array" token, so aexp() failed
	// outright on it. Ordering relative to callExpr is irrelevant; it is
	// listed before callExpr only to keep array-shaped alternatives together.
	return combinator.Alternate(parenAexp(),
		combinator.Alternate(lambdaExpr(),
			combinator.Alternate(arrayInitExpr(),
				combinator.Alternate(callExpr(),
					combinator.Alternate(doubleExpr(),
						combinator.Alternate(intExpr(),
							combinator.Alternate(negExpr(),
								combinator.Alternate(subscriptExpr(),
									combinator.Alternate(varExpr(),
										combinator.Alternate(stringExpr(), boolExpr()))))))))))
}

func binOpSep(lexemes ...string) combinator.Parser[combinator.Reducer[ast.Expression]] {
	return combinator.Process(anyOf(lexemes...), func(t token.Token) combinator.Reducer[ast.Expression] {
		return func(l, r ast.Expression) ast.Expression {
			return &ast.BinOp{Token: t, Op: t.Lexeme, Left: l, Right: r}
		}
	})
}

// aexp climbs the five arithmetic-operator precedence tiers from spec §4.3,
// highest to lowest: % ; * / div ; + - ; | & ^ ; shl shr.
func aexp() exprP {
	level := aexpTerm()
	level = combinator.Exp(level, binOpSep("%"))
	level = combinator.Exp(level, binOpSep("*", "/", "div"))
	level = combinator.Exp(level, binOpSep("+", "-"))
	level = combinator.Exp(level, binOpSep("|", "&", "^"))
	level = combinator.Exp(level, binOpSep("shl", "shr"))
	return level
}

// ---- boolean expressions ----

var relOps = []string{">", "<", ">=", "<=", "=", "!="}

func relExpr() exprP {
	return combinator.Process(
		combinator.Concat(combinator.Lazy(aexp), combinator.Concat(anyOf(relOps...), combinator.Lazy(aexp))),
		func(p combinator.Pair[ast.Expression, combinator.Pair[token.Token, ast.Expression]]) ast.Expression {
			return &ast.RelOp{Token: p.Right.Left, Op: p.Right.Left.Lexeme, Left: p.Left, Right: p.Right.Right}
		},
	)
}

func notExpr() exprP {
	return combinator.Process(
		combinator.Concat(resTok("not"), combinator.Lazy(bexpTerm)),
		func(p combinator.Pair[token.Token, ast.Expression]) ast.Expression {
			return &ast.Not{Token: p.Left, Expr: p.Right}
		},
	)
}

func parenBexp() exprP {
	return combinator.Process(
		combinator.Concat(resTok("("), combinator.Concat(combinator.Lazy(bexp), resTok(")"))),
		func(p combinator.Pair[token.Token, combinator.Pair[ast.Expression, token.Token]]) ast.Expression {
			return p.Right.Left
		},
	)
}

// bexpTerm alternates: not-prefixed term, a relation over two aexps, a
// parenthesized bexp, or a bare boolean literal.
func bexpTerm() exprP {
	return combinator.Alternate(notExpr(),
		combinator.Alternate(relExpr(),
			combinator.Alternate(parenBexp(), boolExpr())))
}

func boolOpSep() combinator.Parser[combinator.Reducer[ast.Expression]] {
	return combinator.Process(anyOf("andalso", "orelse", "xor"), func(t token.Token) combinator.Reducer[ast.Expression] {
		return func(l, r ast.Expression) ast.Expression {
			switch t.Lexeme {
			case "andalso":
				return &ast.And{Token: t, Left: l, Right: r}
			case "orelse":
				return &ast.Or{Token: t, Left: l, Right: r}
			default:
				return &ast.Xor{Token: t, Left: l, Right: r}
			}
		}
	})
}

// bexp is bexpTerm folded over the single `andalso`/`orelse`/`xor` precedence
// tier; `not` is already absorbed as a prefix inside bexpTerm itself.
func bexp() exprP {
	return combinator.Exp(bexpTerm(), boolOpSep())
}

// ---- statements ----

func arrayInitExpr() exprP {
	withInit := combinator.Process(
		combinator.Concat(resTok("array"),
			combinator.Concat(resTok("("),
				combinator.Concat(combinator.Lazy(aexp),
					combinator.Concat(resTok(","),
						combinator.Concat(combinator.Lazy(aexp), resTok(")")))))),
		func(p combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[ast.Expression, combinator.Pair[token.Token, combinator.Pair[ast.Expression, token.Token]]]]]) ast.Expression {
			size := p.Right.Right.Left
			init := p.Right.Right.Right.Right.Left
			return &ast.ArrayInit{Token: p.Left, Size: size, Init: init}
		},
	)
	bare := combinator.Process(
		combinator.Concat(resTok("array"),
			combinator.Concat(resTok("("),
				combinator.Concat(combinator.Lazy(aexp), resTok(")")))),
		func(p combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[ast.Expression, token.Token]]]) ast.Expression {
			return &ast.ArrayInit{Token: p.Left, Size: p.Right.Right.Left, Init: nil}
		},
	)
	return combinator.Alternate(withInit, bare)
}

// assignStmt's right-hand side is just aexp(): arrayInitExpr is one of aexpTerm's alternatives,
// so `x := array(5, 0)` already resolves through the ordinary expression
// grammar, the same path a nested `array(n, array(m, 0))` initializer uses.
func assignStmt() stmtP {
	target := combinator.Alternate(subscriptTarget(), identTarget())
	return combinator.Process(
		combinator.Concat(target, combinator.Concat(resTok(":="), aexp())),
		func(p combinator.Pair[ast.AssignTarget, combinator.Pair[token.Token, ast.Expression]]) ast.Statement {
			return &ast.Assign{Token: p.Right.Left, Target: p.Left, Value: p.Right.Right}
		},
	)
}

func callStmt() stmtP {
	return combinator.Process(callExpr(), func(e ast.Expression) ast.Statement {
		return e.(*ast.Call)
	})
}

func funcDeclStmt() stmtP {
	return combinator.Process(
		combinator.Concat(resTok("func"),
			combinator.Concat(identTok,
				combinator.Concat(resTok("("),
					combinator.Concat(combinator.Opt(paramList()),
						combinator.Concat(resTok(")"),
							combinator.Concat(resTok("=>"),
								combinator.Concat(combinator.Lazy(stmtList), resTok("end")))))))),
		func(p combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[combinator.Pair[[]string, bool], combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[ast.Statement, token.Token]]]]]]]) ast.Statement {
			name := p.Right.Left.Lexeme
			params := p.Right.Right.Right.Left.Left
			body := p.Right.Right.Right.Right.Right.Right.Left
			return &ast.FuncDecl{Token: p.Left, Name: name, Params: params, Body: body}
		},
	)
}

func ifStmt() stmtP {
	elseBranch := combinator.Opt(combinator.Process(
		combinator.Concat(resTok("else"), combinator.Lazy(stmtList)),
		func(p combinator.Pair[token.Token, ast.Statement]) ast.Statement { return p.Right },
	))
	return combinator.Process(
		combinator.Concat(resTok("if"),
			combinator.Concat(combinator.Lazy(bexp),
				combinator.Concat(resTok("then"),
					combinator.Concat(combinator.Lazy(stmtList),
						combinator.Concat(elseBranch, resTok("end")))))),
		func(p combinator.Pair[token.Token, combinator.Pair[ast.Expression, combinator.Pair[token.Token, combinator.Pair[ast.Statement, combinator.Pair[combinator.Pair[ast.Statement, bool], token.Token]]]]]) ast.Statement {
			cond := p.Right.Left
			thenBody := p.Right.Right.Right.Left
			elseOpt := p.Right.Right.Right.Right.Left
			var elseBody ast.Statement
			if elseOpt.Right {
				elseBody = elseOpt.Left
			}
			return &ast.If{Token: p.Left, Cond: cond, Then: thenBody, Else: elseBody}
		},
	)
}

func whileStmt() stmtP {
	return combinator.Process(
		combinator.Concat(resTok("while"),
			combinator.Concat(combinator.Lazy(bexp),
				combinator.Concat(resTok("do"),
					combinator.Concat(combinator.Lazy(stmtList), resTok("end"))))),
		func(p combinator.Pair[token.Token, combinator.Pair[ast.Expression, combinator.Pair[token.Token, combinator.Pair[ast.Statement, token.Token]]]]) ast.Statement {
			return &ast.While{Token: p.Left, Cond: p.Right.Left, Body: p.Right.Right.Right.Left}
		},
	)
}

func assignAsPtr() combinator.Parser[*ast.Assign] {
	return combinator.Process(assignStmt(), func(s ast.Statement) *ast.Assign { return s.(*ast.Assign) })
}

func forStmt() stmtP {
	return combinator.Process(
		combinator.Concat(resTok("for"),
			combinator.Concat(resTok("("),
				combinator.Concat(combinator.Opt(assignAsPtr()),
					combinator.Concat(resTok(";"),
						combinator.Concat(combinator.Opt(combinator.Lazy(bexp)),
							combinator.Concat(resTok(";"),
								combinator.Concat(combinator.Opt(assignAsPtr()),
									combinator.Concat(resTok(")"),
										combinator.Concat(resTok("do"),
											combinator.Concat(combinator.Lazy(stmtList), resTok("end"))))))))))),
		func(p combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[combinator.Pair[*ast.Assign, bool], combinator.Pair[token.Token, combinator.Pair[combinator.Pair[ast.Expression, bool], combinator.Pair[token.Token, combinator.Pair[combinator.Pair[*ast.Assign, bool], combinator.Pair[token.Token, combinator.Pair[token.Token, combinator.Pair[ast.Statement, token.Token]]]]]]]]]]) ast.Statement {
			var initStmt, postStmt *ast.Assign
			if p.Right.Right.Left.Right {
				initStmt = p.Right.Right.Left.Left
			}
			condOpt := p.Right.Right.Right.Right.Left
			var cond ast.Expression
			if condOpt.Right {
				cond = condOpt.Left
			}
			postOpt := p.Right.Right.Right.Right.Right.Right.Left
			if postOpt.Right {
				postStmt = postOpt.Left
			}
			body := p.Right.Right.Right.Right.Right.Right.Right.Right.Right.Left
			return &ast.For{Token: p.Left, Init: initStmt, Cond: cond, Post: postStmt, Body: body}
		},
	)
}

func returnStmt() stmtP {
	return combinator.Process(
		combinator.Concat(resTok("return"), combinator.Lazy(aexp)),
		func(p combinator.Pair[token.Token, ast.Expression]) ast.Statement {
			return &ast.Return{Token: p.Left, Value: p.Right}
		},
	)
}

// exprStmt covers the grammar's bare `subscript | aexp | neg` statement
// alternatives: aexp_term already tries subscript and neg ahead of a plain
// identifier, so a single aexp parse subsumes all three.
func exprStmt() stmtP {
	return combinator.Process(combinator.Lazy(aexp), func(e ast.Expression) ast.Statement {
		return &ast.ExprStatement{Token: exprToken(e), Expr: e}
	})
}

func exprToken(e ast.Expression) token.Token {
	return token.Token{Lexeme: e.TokenLiteral(), Kind: token.Identifier, Pos: e.Pos()}
}

// stmt tries the named statement forms in the order the grammar's "critical
// ordering rules" require: assign before call before a bare expression,
// since all three can start with an identifier.
func stmt() stmtP {
	return combinator.Alternate(assignStmt(),
		combinator.Alternate(callStmt(),
			combinator.Alternate(funcDeclStmt(),
				combinator.Alternate(ifStmt(),
					combinator.Alternate(whileStmt(),
						combinator.Alternate(forStmt(),
							combinator.Alternate(returnStmt(), exprStmt())))))))
}

func semicolonSep() combinator.Parser[combinator.Reducer[ast.Statement]] {
	return combinator.Process(resTok(";"), func(t token.Token) combinator.Reducer[ast.Statement] {
		return func(l, r ast.Statement) ast.Statement {
			return &ast.Compound{Token: t, Left: l, Right: r}
		}
	})
}

// stmtList is `stmt (';' stmt)*`, left-folded into Compound nodes.
func stmtList() stmtP {
	return combinator.Exp(stmt(), semicolonSep())
}

// filterNewlines drops every remaining newline token before parsing. The
// lexer already suppresses most newlines contextually (spec §4.1); the few
// that survive between statements carry no grammatical meaning here, since
// `;` is the sole statement separator (spec §9).
func filterNewlines(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Lexeme == "\n" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Parse runs the full grammar over tokens and returns the program root, or a
// ParseErrorKind diagnostic on failure. There is no error recovery: the first
// failure to consume the whole input is fatal (spec §7).
func Parse(tokens []token.Token, source, file string) (*ast.Program, *errors.Diagnostic) {
	filtered := filterNewlines(tokens)

	program := combinator.Process(combinator.Phrase(stmtList()), func(s ast.Statement) *ast.Program {
		return &ast.Program{Body: s}
	})

	res, ok := program(filtered, 0)
	if !ok {
		pos := token.Position{Line: 1, Column: 1}
		if len(filtered) > 0 {
			pos = filtered[0].Pos
		}
		return nil, errors.New(errors.ParseErrorKind, pos, source, file, "Parsing Error! Please check the syntax (near %s)", previewTokens(filtered))
	}
	return res.Value, nil
}

func previewTokens(tokens []token.Token) string {
	if len(tokens) == 0 {
		return "<eof>"
	}
	lexemes := make([]string, 0, 5)
	for i := 0; i < len(tokens) && i < 5; i++ {
		lexemes = append(lexemes, tokens[i].Lexeme)
	}
	return strings.Join(lexemes, " ")
}
