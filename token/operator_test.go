package token

import "testing"

func TestOperatorPrecedenceTable(t *testing.T) {
	// Ported from the language's operator table (spec.md §3): higher
	// number binds tighter.
	cases := []struct {
		op    Op
		prec  int
		assoc Assoc
	}{
		{Not, 7, RTL},
		{Mul, 6, LTR},
		{Div, 6, LTR},
		{Mod, 6, LTR},
		{Add, 5, LTR},
		{Sub, 5, LTR},
		{Eq, 4, LTR},
		{Less, 4, LTR},
		{And, 3, LTR},
		{Or, 2, LTR},
		{Seq, 1, RTL},
		{Arrow, 0, RTL},
		{Scope, 0, LTR},
	}
	for _, c := range cases {
		if got := c.op.Precedence(); got != c.prec {
			t.Errorf("%s.Precedence() = %d, want %d", c.op, got, c.prec)
		}
		if got := c.op.Associativity(); got != c.assoc {
			t.Errorf("%s.Associativity() = %v, want %v", c.op, got, c.assoc)
		}
	}
}

func TestIsUnaryPrefix(t *testing.T) {
	for op := Op(0); op < numOps; op++ {
		want := op == Not || op == Add || op == Sub
		if got := op.IsUnaryPrefix(); got != want {
			t.Errorf("%s.IsUnaryPrefix() = %v, want %v", op, got, want)
		}
	}
}

func TestLookupOpRoundTrip(t *testing.T) {
	for op := Op(0); op < numOps; op++ {
		got, ok := LookupOp(op.String())
		if !ok || got != op {
			t.Errorf("LookupOp(%q) = %v, %v; want %v, true", op.String(), got, ok, op)
		}
	}
}

func TestIsIdentChar(t *testing.T) {
	for _, c := range []byte("abcZ_09\xc2\xa0") {
		if !IsIdentChar(c) {
			t.Errorf("IsIdentChar(%q) = false, want true", c)
		}
	}
	for _, c := range []byte(" \t\n.,;(){}[]@\\'\"=+!") {
		if IsIdentChar(c) {
			t.Errorf("IsIdentChar(%q) = true, want false", c)
		}
	}
}
