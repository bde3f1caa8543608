package combinator

import (
	"strconv"
	"testing"

	"github.com/cwbudde/go-tiny/internal/token"
)

func toks(pairs ...[2]string) []token.Token {
	kindOf := map[string]token.Kind{
		"int": token.Int, "id": token.Identifier, "res": token.Reserved,
	}
	out := make([]token.Token, len(pairs))
	for i, p := range pairs {
		out[i] = token.Token{Lexeme: p[0], Kind: kindOf[p[1]], Index: i}
	}
	return out
}

func TestReservedAndTag(t *testing.T) {
	tokens := toks([2]string{"+", "res"}, [2]string{"x", "id"})

	p := Reserved("+", token.Reserved)
	res, ok := p(tokens, 0)
	if !ok || res.Value != "+" || res.Pos != 1 {
		t.Fatalf("Reserved failed: %+v %v", res, ok)
	}

	idp := Tag(token.Identifier)
	res2, ok := idp(tokens, 1)
	if !ok || res2.Value != "x" || res2.Pos != 2 {
		t.Fatalf("Tag failed: %+v %v", res2, ok)
	}

	if _, ok := idp(tokens, 0); ok {
		t.Fatal("Tag should not match a Reserved token")
	}
}

func TestConcatAndAlternate(t *testing.T) {
	tokens := toks([2]string{"(", "res"}, [2]string{"x", "id"}, [2]string{")", "res"})

	open := Reserved("(", token.Reserved)
	ident := Tag(token.Identifier)
	close_ := Reserved(")", token.Reserved)

	grp := Concat(Concat(open, ident), close_)
	res, ok := grp(tokens, 0)
	if !ok || res.Pos != 3 || res.Value.Left.Right != "x" {
		t.Fatalf("Concat chain failed: %+v %v", res, ok)
	}

	alt := Alternate(Reserved("+", token.Reserved), Reserved("(", token.Reserved))
	if _, ok := alt(tokens, 0); !ok {
		t.Fatal("Alternate should fall through to the second branch")
	}
}

func TestOptAndRep(t *testing.T) {
	tokens := toks([2]string{"1", "int"}, [2]string{"2", "int"})
	digit := Process(Tag(token.Int), func(s string) int { n, _ := strconv.Atoi(s); return n })

	rep := Rep(digit)
	res, ok := rep(tokens, 0)
	if !ok || len(res.Value) != 2 || res.Value[0] != 1 || res.Value[1] != 2 {
		t.Fatalf("Rep failed: %+v %v", res, ok)
	}

	// Rep succeeds on zero matches.
	empty, ok := rep([]token.Token{}, 0)
	if !ok || len(empty.Value) != 0 {
		t.Fatalf("Rep should succeed with zero matches, got %+v %v", empty, ok)
	}

	opt := Opt(Reserved("?", token.Reserved))
	oRes, ok := opt(tokens, 0)
	if !ok || oRes.Value.Right {
		t.Fatalf("Opt over absent input should succeed with found=false: %+v", oRes)
	}
}

func TestLazyBreaksRecursion(t *testing.T) {
	var expr Parser[int]
	expr = Lazy(func() Parser[int] {
		return Alternate(
			Process(Concat(Reserved("(", token.Reserved), Concat(expr, Reserved(")", token.Reserved))),
				func(p Pair[string, Pair[int, string]]) int { return p.Right.Left }),
			Process(Tag(token.Int), func(s string) int { n, _ := strconv.Atoi(s); return n }),
		)
	})

	tokens := toks([2]string{"(", "res"}, [2]string{"(", "res"}, [2]string{"5", "int"}, [2]string{")", "res"}, [2]string{")", "res"})
	res, ok := expr(tokens, 0)
	if !ok || res.Value != 5 || res.Pos != 5 {
		t.Fatalf("Lazy recursive parser failed: %+v %v", res, ok)
	}
}

func TestPhrase(t *testing.T) {
	tokens := toks([2]string{"1", "int"}, [2]string{"2", "int"})
	one := Tag(token.Int)

	if _, ok := Phrase(one)(tokens, 0); ok {
		t.Fatal("Phrase should fail when input remains")
	}
	if _, ok := Phrase(Rep(one))(tokens, 0); !ok {
		t.Fatal("Phrase should succeed when the whole input is consumed")
	}
}

func TestExpLeftAssociative(t *testing.T) {
	// a - b - c should fold as (a - b) - c
	tokens := toks([2]string{"a", "id"}, [2]string{"-", "res"}, [2]string{"b", "id"}, [2]string{"-", "res"}, [2]string{"c", "id"})

	term := Tag(token.Identifier)
	minus := Process(Reserved("-", token.Reserved), func(string) Reducer[string] {
		return func(acc, next string) string { return "(" + acc + "-" + next + ")" }
	})

	expr := Exp(term, minus)
	res, ok := expr(tokens, 0)
	if !ok || res.Value != "((a-b)-c)" {
		t.Fatalf("Exp fold = %q, want %q", res.Value, "((a-b)-c)")
	}
}
