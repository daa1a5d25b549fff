package syntax

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/orrery-lang/orrery/token"
)

func mustParse(t *testing.T, text string) *File {
	t.Helper()
	src := NewSource("test", text, "")
	f, diags, err := ParseFile(src)
	if err != nil {
		t.Fatalf("ParseFile: internal error: %v", err)
	}
	for _, d := range diags {
		if d.Severity == SeverityError {
			t.Fatalf("ParseFile(%q): unexpected diagnostic: %s", text, d.Message)
		}
	}
	if f == nil {
		t.Fatalf("ParseFile(%q): got nil file with no error diagnostic", text)
	}
	return f
}

func soleExpr(t *testing.T, f *File) Expr {
	t.Helper()
	if len(f.Body) != 1 {
		t.Fatalf("File.Body has %d exprs, want 1: %+v", len(f.Body), f.Body)
	}
	return f.Body[0]
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 == 7 must parse as ((1 + (2 * 3)) == 7), i.e. * binds
	// tighter than +, and + binds tighter than ==.
	f := mustParse(t, "1 + 2 * 3 == 7;")
	eq, ok := soleExpr(t, f).(*BinaryExpr)
	if !ok || eq.Op != token.Eq {
		t.Fatalf("top: got %#v, want ==", soleExpr(t, f))
	}
	add, ok := eq.X.(*BinaryExpr)
	if !ok || add.Op != token.Add {
		t.Fatalf("eq.X: got %#v, want +", eq.X)
	}
	if lit, ok := add.X.(*Literal); !ok || lit.IntVal != 1 {
		t.Errorf("add.X: got %#v, want Int(1)", add.X)
	}
	mul, ok := add.Y.(*BinaryExpr)
	if !ok || mul.Op != token.Mul {
		t.Fatalf("add.Y: got %#v, want *", add.Y)
	}
	if lit, ok := mul.X.(*Literal); !ok || lit.IntVal != 2 {
		t.Errorf("mul.X: got %#v, want Int(2)", mul.X)
	}
	if lit, ok := mul.Y.(*Literal); !ok || lit.IntVal != 3 {
		t.Errorf("mul.Y: got %#v, want Int(3)", mul.Y)
	}
	if lit, ok := eq.Y.(*Literal); !ok || lit.IntVal != 7 {
		t.Errorf("eq.Y: got %#v, want Int(7)", eq.Y)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	// a = b = 1 must parse as (a = (b = 1)), not ((a = b) = 1).
	f := mustParse(t, "a = b = 1;")
	outer, ok := soleExpr(t, f).(*BinaryExpr)
	if !ok || outer.Op != token.Seq {
		t.Fatalf("got %#v, want =", soleExpr(t, f))
	}
	if id, ok := outer.X.(*Ident); !ok || id.Name != "a" {
		t.Fatalf("outer.X: got %#v, want Ident(a)", outer.X)
	}
	inner, ok := outer.Y.(*BinaryExpr)
	if !ok || inner.Op != token.Seq {
		t.Fatalf("outer.Y: got %#v, want nested =", outer.Y)
	}
	if id, ok := inner.X.(*Ident); !ok || id.Name != "b" {
		t.Errorf("inner.X: got %#v, want Ident(b)", inner.X)
	}
	if lit, ok := inner.Y.(*Literal); !ok || lit.IntVal != 1 {
		t.Errorf("inner.Y: got %#v, want Int(1)", inner.Y)
	}
}

func TestParseUnaryMinusVsBinaryMinus(t *testing.T) {
	// -1 - -2 must parse as ((-1) - (-2)): a unary-minus primary, the
	// binary - operator, then another unary-minus primary.
	f := mustParse(t, "-1 - -2;")
	bin, ok := soleExpr(t, f).(*BinaryExpr)
	if !ok || bin.Op != token.Sub {
		t.Fatalf("got %#v, want binary -", soleExpr(t, f))
	}
	lhs, ok := bin.X.(*UnaryExpr)
	if !ok || lhs.Op != token.Sub {
		t.Fatalf("bin.X: got %#v, want unary -", bin.X)
	}
	if lit, ok := lhs.X.(*Literal); !ok || lit.IntVal != 1 {
		t.Errorf("bin.X.X: got %#v, want Int(1)", lhs.X)
	}
	rhs, ok := bin.Y.(*UnaryExpr)
	if !ok || rhs.Op != token.Sub {
		t.Fatalf("bin.Y: got %#v, want unary -", bin.Y)
	}
	if lit, ok := rhs.X.(*Literal); !ok || lit.IntVal != 2 {
		t.Errorf("bin.Y.X: got %#v, want Int(2)", rhs.X)
	}
}

func TestParseImportTrailingComma(t *testing.T) {
	f := mustParse(t, `import {a, b,} from "mod";`)
	imp, ok := soleExpr(t, f).(*ImportExpr)
	if !ok {
		t.Fatalf("got %#v, want *ImportExpr", soleExpr(t, f))
	}
	if imp.Star {
		t.Error("Star = true, want false")
	}
	if want := []string{"a", "b"}; len(imp.Names) != len(want) || imp.Names[0] != want[0] || imp.Names[1] != want[1] {
		t.Errorf("Names = %v, want %v", imp.Names, want)
	}
	if imp.From != "mod" {
		t.Errorf("From = %q, want %q", imp.From, "mod")
	}
}

func TestParseImportStar(t *testing.T) {
	f := mustParse(t, `import * from "mod";`)
	imp, ok := soleExpr(t, f).(*ImportExpr)
	if !ok || !imp.Star || len(imp.Names) != 0 {
		t.Fatalf("got %#v, want star import with no names", soleExpr(t, f))
	}
}

func TestParseBlockTrailingSemicolonOptionalAfterBrace(t *testing.T) {
	// Inside a block, a nested block needs no semicolon before the next
	// statement (PullSemicolons treats a trailing '}' as sufficient).
	f := mustParse(t, "{ { 1; } 2; }")
	blk, ok := soleExpr(t, f).(*BlockExpr)
	if !ok {
		t.Fatalf("got %#v, want *BlockExpr", soleExpr(t, f))
	}
	if len(blk.Body.Body) != 2 {
		t.Fatalf("block has %d exprs, want 2: %+v", len(blk.Body.Body), blk.Body.Body)
	}
	if _, ok := blk.Body.Body[0].(*BlockExpr); !ok {
		t.Errorf("block[0]: got %#v, want *BlockExpr", blk.Body.Body[0])
	}
}

func TestParseFunWithTypedParamsAndReturn(t *testing.T) {
	f := mustParse(t, "fun add(x: Int, required y: Int) -> Int { return x + y; };")
	fn, ok := soleExpr(t, f).(*FunExpr)
	if !ok {
		t.Fatalf("got %#v, want *FunExpr", soleExpr(t, f))
	}
	if fn.Name != "add" {
		t.Errorf("Name = %q, want %q", fn.Name, "add")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}

	type paramShape struct {
		Name     string
		Required bool
	}
	var got []paramShape
	for _, p := range fn.Params {
		got = append(got, paramShape{Name: p.Name, Required: p.Required})
	}
	want := []paramShape{{Name: "x", Required: false}, {Name: "y", Required: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}

	if typ, ok := fn.RetType.(*Ident); !ok || typ.Name != "Int" {
		t.Errorf("RetType = %#v, want Ident(Int)", fn.RetType)
	}
}

func TestParseClassWithExtendsAndAccessor(t *testing.T) {
	src := `decl Widget extends Base {
		let size: Int;
		depends (size) get area -> Int;
		fun grow() { size = size + 1; };
	};`
	f := mustParse(t, src)
	cls, ok := soleExpr(t, f).(*ClassExpr)
	if !ok {
		t.Fatalf("got %#v, want *ClassExpr", soleExpr(t, f))
	}
	if base, ok := cls.Extends.(*Ident); !ok || base.Name != "Base" {
		t.Errorf("Extends = %#v, want Ident(Base)", cls.Extends)
	}
	if len(cls.Members) != 3 {
		t.Fatalf("got %d members, want 3: %+v", len(cls.Members), cls.Members)
	}
	if _, ok := cls.Members[0].Decl.(*DeclExpr); !ok {
		t.Errorf("members[0].Decl: got %#v, want *DeclExpr", cls.Members[0].Decl)
	}
	attr, ok := cls.Members[1].Decl.(*AttrDeclExpr)
	if !ok {
		t.Fatalf("members[1].Decl: got %#v, want *AttrDeclExpr", cls.Members[1].Decl)
	}
	if !attr.Get || attr.Set {
		t.Errorf("attr.Get/Set = %v/%v, want true/false", attr.Get, attr.Set)
	}
	if len(attr.Depends) != 1 || attr.Depends[0] != "size" {
		t.Errorf("attr.Depends = %v, want [size]", attr.Depends)
	}
	if _, ok := cls.Members[2].Decl.(*FunExpr); !ok {
		t.Errorf("members[2].Decl: got %#v, want *FunExpr", cls.Members[2].Decl)
	}
}

func TestParseDebugDirective(t *testing.T) {
	f := mustParse(t, `@!debug("entities");`)
	dbg, ok := soleExpr(t, f).(*DebugExpr)
	if !ok || dbg.Probe != "entities" {
		t.Fatalf("got %#v, want DebugExpr(entities)", soleExpr(t, f))
	}
}

func TestParseAttrBareAttachesToDecl(t *testing.T) {
	f := mustParse(t, `@cached let x = 1;`)
	ann, ok := soleExpr(t, f).(*AnnotateExpr)
	if !ok {
		t.Fatalf("got %#v, want *AnnotateExpr", soleExpr(t, f))
	}
	if ann.Name != "cached" || ann.Arg != nil {
		t.Errorf("ann = %#v, want Name=cached, Arg=nil", ann)
	}
	if _, ok := ann.Target.(*DeclExpr); !ok {
		t.Errorf("ann.Target = %#v, want *DeclExpr", ann.Target)
	}
}

func TestParseAttrWithArgAttachesToDecl(t *testing.T) {
	f := mustParse(t, `@uses("io") fun f() {};`)
	ann, ok := soleExpr(t, f).(*AnnotateExpr)
	if !ok {
		t.Fatalf("got %#v, want *AnnotateExpr", soleExpr(t, f))
	}
	if ann.Name != "uses" {
		t.Errorf("ann.Name = %q, want %q", ann.Name, "uses")
	}
	lit, ok := ann.Arg.(*Literal)
	if !ok || lit.Text != "io" {
		t.Fatalf("ann.Arg = %#v, want String(io)", ann.Arg)
	}
	if _, ok := ann.Target.(*FunExpr); !ok {
		t.Errorf("ann.Target = %#v, want *FunExpr", ann.Target)
	}
}

func TestParseAttrBangStillDispatchesToDebugDirective(t *testing.T) {
	// The '@' case must still recognize the `@!debug(...)` directive,
	// not swallow it as a malformed Attr whose name is "!".
	f := mustParse(t, `@!debug("entities");`)
	if _, ok := soleExpr(t, f).(*DebugExpr); !ok {
		t.Fatalf("got %#v, want *DebugExpr", soleExpr(t, f))
	}
}

func TestParseMaxExprDepthReportsCleanError(t *testing.T) {
	src := NewSource("test", strings.Repeat("(", 300)+"1"+strings.Repeat(")", 300)+";", "")
	_, diags, err := ParseFile(src, WithMaxExprDepth(16))
	if err != nil {
		t.Fatalf("ParseFile: internal error: %v, want a reportable parse error instead of a Go panic", err)
	}
	found := false
	for _, d := range diags {
		if d.Severity == SeverityError && strings.Contains(d.Message, "nested too deeply") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a nesting-too-deep error", diags)
	}
}

func TestParseIsAsPostfix(t *testing.T) {
	f := mustParse(t, "x is Int;")
	is, ok := soleExpr(t, f).(*IsExpr)
	if !ok {
		t.Fatalf("got %#v, want *IsExpr", soleExpr(t, f))
	}
	if typ, ok := is.Type.(*Ident); !ok || typ.Name != "Int" {
		t.Errorf("Type = %#v, want Ident(Int)", is.Type)
	}

	f2 := mustParse(t, "x as Float;")
	as, ok := soleExpr(t, f2).(*AsExpr)
	if !ok {
		t.Fatalf("got %#v, want *AsExpr", soleExpr(t, f2))
	}
	if typ, ok := as.Type.(*Ident); !ok || typ.Name != "Float" {
		t.Errorf("Type = %#v, want Ident(Float)", as.Type)
	}
}

func TestParseScopeAndAttrChain(t *testing.T) {
	f := mustParse(t, "root::A.b.c;")
	attr2, ok := soleExpr(t, f).(*AttrExpr)
	if !ok || attr2.Name != "c" {
		t.Fatalf("got %#v, want AttrExpr(c)", soleExpr(t, f))
	}
	attr1, ok := attr2.X.(*AttrExpr)
	if !ok || attr1.Name != "b" {
		t.Fatalf("attr2.X: got %#v, want AttrExpr(b)", attr2.X)
	}
	scope, ok := attr1.X.(*ScopeExpr)
	if !ok || scope.Name != "A" {
		t.Fatalf("attr1.X: got %#v, want ScopeExpr(A)", attr1.X)
	}
	if root, ok := scope.X.(*Ident); !ok || !root.Absolute {
		t.Errorf("scope.X: got %#v, want absolute Ident(root)", scope.X)
	}
}

func TestParseSpecialIdentifiers(t *testing.T) {
	f := mustParse(t, "this;")
	id, ok := soleExpr(t, f).(*Ident)
	if !ok || !id.IsSpecial || id.Absolute {
		t.Fatalf("got %#v, want special non-absolute Ident(this)", soleExpr(t, f))
	}
}

// TestPeekTokenRollsBackOnFailure covers the actual rollback boundary
// in this parser: tokens are committed the instant PullToken succeeds,
// so speculative lookahead (not whole grammar productions) is where
// rollback neutrality is required and enforced, via Frame.Close.
func TestPeekTokenRollsBackOnFailure(t *testing.T) {
	src := NewSource("test", `"unterminated`, "")
	s := NewStream(src)
	before := s.Offset()
	if _, ok := PeekToken(s, 0); ok {
		t.Fatal("PeekToken succeeded, want failure for an unterminated string")
	}
	if after := s.Offset(); after != before {
		t.Errorf("PeekToken failed but left offset at %d, want unchanged %d", after, before)
	}
	if msgs := s.Messages(); len(msgs) != 0 {
		t.Errorf("Messages() = %+v, want none (lookahead failures must not surface diagnostics)", msgs)
	}
}

func TestParseErrorReportedAtFailure(t *testing.T) {
	src := NewSource("test", "let x = ;", "")
	_, diags, err := ParseFile(src)
	if err != nil {
		t.Fatalf("ParseFile: internal error: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want at least one error diagnostic", diags)
	}
}
