// Package combinator implements the parser-combinator algebra Tiny's grammar
// is built from: a handful of primitives (Reserved, Tag, Concat, Alternate,
// Opt, Rep, Process, Lazy, Phrase, Exp) that compose into arbitrary grammars
// over a token.Token stream, without a generated parser or a hand-rolled
// recursive-descent table.
package combinator

import "github.com/cwbudde/go-tiny/internal/token"

// Result is what a Parser produces on success: a value of type T and the
// position immediately after the consumed tokens.
type Result[T any] struct {
	Value T
	Pos   int
}

// Parser consumes tokens starting at pos and returns (Result, true) on
// success or (zero Result, false) on failure. Failure never panics and never
// advances pos; callers are free to retry at the same pos with a different
// Parser (this is what Alternate relies on).
type Parser[T any] func(tokens []token.Token, pos int) (Result[T], bool)

// Reserved matches a single token with the exact lexeme and kind.
func Reserved(lexeme string, kind token.Kind) Parser[string] {
	return func(tokens []token.Token, pos int) (Result[string], bool) {
		if pos < len(tokens) && tokens[pos].Lexeme == lexeme && tokens[pos].Kind == kind {
			return Result[string]{Value: tokens[pos].Lexeme, Pos: pos + 1}, true
		}
		return Result[string]{}, false
	}
}

// Tag matches any token of the given kind, yielding its lexeme.
func Tag(kind token.Kind) Parser[string] {
	return func(tokens []token.Token, pos int) (Result[string], bool) {
		if pos < len(tokens) && tokens[pos].Kind == kind {
			return Result[string]{Value: tokens[pos].Lexeme, Pos: pos + 1}, true
		}
		return Result[string]{}, false
	}
}

// Pair is the value Concat produces: the left and right sub-results.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Concat sequences two parsers; both must succeed, left before right.
func Concat[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return func(tokens []token.Token, pos int) (Result[Pair[A, B]], bool) {
		left, ok := a(tokens, pos)
		if !ok {
			return Result[Pair[A, B]]{}, false
		}
		right, ok := b(tokens, left.Pos)
		if !ok {
			return Result[Pair[A, B]]{}, false
		}
		return Result[Pair[A, B]]{Value: Pair[A, B]{Left: left.Value, Right: right.Value}, Pos: right.Pos}, true
	}
}

// Alternate tries a first; if it fails, tries b from the same starting
// position. Ordered choice: a always wins when both would succeed.
func Alternate[T any](a, b Parser[T]) Parser[T] {
	return func(tokens []token.Token, pos int) (Result[T], bool) {
		if res, ok := a(tokens, pos); ok {
			return res, true
		}
		return b(tokens, pos)
	}
}

// Opt always succeeds, yielding the wrapped parser's value and true, or the
// zero value and false, in an (T, bool) pair so callers can tell which case
// occurred.
func Opt[T any](a Parser[T]) Parser[Pair[T, bool]] {
	return func(tokens []token.Token, pos int) (Result[Pair[T, bool]], bool) {
		if res, ok := a(tokens, pos); ok {
			return Result[Pair[T, bool]]{Value: Pair[T, bool]{Left: res.Value, Right: true}, Pos: res.Pos}, true
		}
		return Result[Pair[T, bool]]{Value: Pair[T, bool]{Right: false}, Pos: pos}, true
	}
}

// Rep is greedy zero-or-more: it always succeeds, even with zero matches,
// yielding the list of matched values.
func Rep[T any](a Parser[T]) Parser[[]T] {
	return func(tokens []token.Token, pos int) (Result[[]T], bool) {
		var values []T
		for {
			res, ok := a(tokens, pos)
			if !ok {
				break
			}
			values = append(values, res.Value)
			pos = res.Pos
		}
		return Result[[]T]{Value: values, Pos: pos}, true
	}
}

// Process post-transforms a successful result's value through f.
func Process[A, B any](a Parser[A], f func(A) B) Parser[B] {
	return func(tokens []token.Token, pos int) (Result[B], bool) {
		res, ok := a(tokens, pos)
		if !ok {
			return Result[B]{}, false
		}
		return Result[B]{Value: f(res.Value), Pos: res.Pos}, true
	}
}

// Lazy materializes its inner parser on first use via thunk, breaking
// recursive grammar graphs (e.g. stmtList referring to stmt referring back
// to stmtList) that would otherwise infinite-loop at construction time.
func Lazy[T any](thunk func() Parser[T]) Parser[T] {
	var cached Parser[T]
	return func(tokens []token.Token, pos int) (Result[T], bool) {
		if cached == nil {
			cached = thunk()
		}
		return cached(tokens, pos)
	}
}

// Phrase succeeds only if a consumes the entire token list. Used as the top
// combinator of the grammar.
func Phrase[T any](a Parser[T]) Parser[T] {
	return func(tokens []token.Token, pos int) (Result[T], bool) {
		res, ok := a(tokens, pos)
		if ok && res.Pos == len(tokens) {
			return res, true
		}
		return Result[T]{}, false
	}
}

// Reducer folds an accumulated value with a freshly parsed term.
type Reducer[T any] func(acc, next T) T

// Exp is the left-associative fold combinator: it parses
// `term (sep term)*` and folds the accumulating value with the reducer each
// sep parse yields. This expresses left-associative operator precedence
// without a mutually-recursive grammar rule per precedence tier.
func Exp[T any](term Parser[T], sep Parser[Reducer[T]]) Parser[T] {
	return func(tokens []token.Token, pos int) (Result[T], bool) {
		result, ok := term(tokens, pos)
		if !ok {
			return Result[T]{}, false
		}

		for {
			sepRes, ok := sep(tokens, result.Pos)
			if !ok {
				break
			}
			nextRes, ok := term(tokens, sepRes.Pos)
			if !ok {
				break
			}
			result = Result[T]{Value: sepRes.Value(result.Value, nextRes.Value), Pos: nextRes.Pos}
		}

		return result, true
	}
}
