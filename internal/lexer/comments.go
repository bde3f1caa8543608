package lexer

import (
	"sort"

	"github.com/cwbudde/go-tiny/internal/errors"
	"github.com/cwbudde/go-tiny/internal/token"
)

type commentRange struct {
	begin, end int // token.Index values
}

// StripComments implements spec §4.2: it scans the token list, pushing the
// index of each `<*` onto a stack and popping on `*>` to collect (begin,end)
// ranges. Unbalanced delimiters are fatal. Ranges are then walked in start
// order and the outermost retained — an inner range whose bounds lie
// strictly inside an already-retained range is dropped, since comments do
// not nest semantically, only textually. Every token whose index falls
// within any retained range (inclusive) is removed.
func StripComments(tokens []token.Token, source string) ([]token.Token, *errors.Diagnostic) {
	var stack []int
	var ranges []commentRange

	for _, tok := range tokens {
		switch tok.Kind {
		case token.BeginComment:
			stack = append(stack, tok.Index)
		case token.EndComment:
			if len(stack) == 0 {
				return nil, errors.New(errors.CommentErrorKind, tok.Pos, source, "", "unmatched '*>'")
			}
			begin := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ranges = append(ranges, commentRange{begin: begin, end: tok.Index})
		}
	}
	if len(stack) > 0 {
		return nil, errors.New(errors.CommentErrorKind, token.Position{}, source, "", "unmatched '<*'")
	}

	// Spec §4.2 describes this as "sort by start descending, then
	// iteratively retain the outermost ranges" — the original implementation
	// achieves that by sorting descending and popping from the tail, which
	// visits ranges in ascending start order. Sorting ascending directly is
	// the same traversal: walk left to right, keep the current outermost
	// range as `cur`, and drop any later range strictly nested inside it.
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].begin < ranges[j].begin })

	var retained []commentRange
	if len(ranges) > 0 {
		cur := ranges[0]
		retained = append(retained, cur)
		for _, r := range ranges[1:] {
			if r.begin > cur.begin && r.end < cur.end {
				continue // nested inside cur, dropped
			}
			cur = r
			retained = append(retained, cur)
		}
	}

	inRetained := func(idx int) bool {
		for _, r := range retained {
			if idx >= r.begin && idx <= r.end {
				return true
			}
		}
		return false
	}

	out := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if !inRetained(tok.Index) {
			out = append(out, tok)
		}
	}
	return out, nil
}
