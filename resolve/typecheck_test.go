package resolve

import (
	"strings"
	"testing"

	"github.com/orrery-lang/orrery/syntax"
)

func parseOK(t *testing.T, text string) *ParsedSrc {
	t.Helper()
	proj := NewProject()
	ps, diags := proj.Parse("test", text, "")
	for _, d := range diags {
		if d.Severity == syntax.SeverityError {
			t.Fatalf("Parse(%q): unexpected error diagnostic: %s", text, d.Message)
		}
	}
	return ps
}

func parseErr(t *testing.T, text string) []syntax.Diagnostic {
	t.Helper()
	proj := NewProject()
	_, diags := proj.Parse("test", text, "")
	found := false
	for _, d := range diags {
		if d.Severity == syntax.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("Parse(%q): diags = %+v, want at least one error", text, diags)
	}
	return diags
}

func TestTypecheckDeclAndUse(t *testing.T) {
	ps := parseOK(t, "let x: Int = 1; let y = x + 1;")
	if es := ps.Scope.Local("x"); len(es) != 1 {
		t.Fatalf("Scope.Local(x) = %v, want one Variable", es)
	}
	if es := ps.Scope.Local("y"); len(es) != 1 {
		t.Fatalf("Scope.Local(y) = %v, want one Variable", es)
	}
	y := ps.Scope.Local("y")[0].(ValueEntity)
	if y.ValueType().Type != TypeInt {
		t.Errorf("y's type = %v, want Int (inferred from x + 1)", y.ValueType().Type)
	}
}

func TestTypecheckConstRequiresInitializer(t *testing.T) {
	diags := parseErr(t, "const x: Int;")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "must be initialized") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a must-be-initialized error", diags)
	}
}

func TestTypecheckAssignToConstErrors(t *testing.T) {
	diags := parseErr(t, "const x: Int = 1; x = 2;")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "Cannot assign to a const binding") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a const-assignment error", diags)
	}
}

func TestTypecheckAssignmentTypeMismatch(t *testing.T) {
	diags := parseErr(t, `let x: Int = 1; x = "oops";`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "Cannot assign") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a cannot-assign error", diags)
	}
}

func TestTypecheckUndefinedNameSuggestsClosest(t *testing.T) {
	// sahilm/fuzzy matches when the typed name is a subsequence of the
	// candidate, so the typo must drop characters from the real name
	// rather than add them: "platfrm" (missing the "o") is a
	// subsequence of "platform".
	diags := parseErr(t, "let platform = 1; platfrm;")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `Undefined name "platfrm"`) && strings.Contains(d.Message, "did you mean") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an undefined-name error suggesting %q", diags, "platform")
	}
}

func TestTypecheckFunctionCallArityMismatch(t *testing.T) {
	diags := parseErr(t, "fun add(x: Int, y: Int) -> Int { return x + y; }; add(1);")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "Expected 2 argument(s), found 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an arity-mismatch error", diags)
	}
}

func TestTypecheckFunctionCallOK(t *testing.T) {
	parseOK(t, "fun add(x: Int, y: Int) -> Int { return x + y; }; let z = add(1, 2);")
}

func TestTypecheckStructFieldAccessOK(t *testing.T) {
	parseOK(t, "struct Point { x: Int; y: Int }; let p: Point; let a = p.x;")
}

func TestTypecheckStructFieldAccessMissing(t *testing.T) {
	diags := parseErr(t, "struct Point { x: Int }; let p: Point; let a = p.z;")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `no field "z"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a missing-field error", diags)
	}
}

func TestTypecheckEnumDuplicateVariant(t *testing.T) {
	diags := parseErr(t, "enum Color { Red, Green, Red };")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `Duplicate enum variant "Red"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a duplicate-variant error", diags)
	}
}

func TestTypecheckClassExtendsBuildsBaseChain(t *testing.T) {
	ps := parseOK(t, "decl Base { let n: Int }; decl Mid extends Base { let m: Int };")
	midEs := ps.Scope.Local("Mid")
	if len(midEs) != 1 {
		t.Fatalf("Scope.Local(Mid) = %v, want one entity", midEs)
	}
	midCls := midEs[0].(*ClassEntity)
	baseEs := ps.Scope.Local("Base")
	baseCls := baseEs[0].(*ClassEntity)
	if midCls.Type.Base != baseCls.Type {
		t.Errorf("Mid.Type.Base = %v, want %v", midCls.Type.Base, baseCls.Type)
	}
	if len(midCls.Members.Local("m")) != 1 {
		t.Error("Mid.Members.Local(m) missing field m")
	}
}

func TestTypecheckClassMethodSeesSiblingField(t *testing.T) {
	parseOK(t, `decl Widget {
		let size: Int;
		fun grow() { size = size + 1; };
	};`)
}

func TestTypecheckExportOnlyAtFileScope(t *testing.T) {
	diags := parseErr(t, "fun f() { export let x = 1; };")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "export is only allowed at file scope") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an export-scope error", diags)
	}
}

func TestTypecheckExportAtFileScopeOK(t *testing.T) {
	ps := parseOK(t, "export let x: Int = 1;")
	if _, ok := ps.GetExported("x"); !ok {
		t.Error("GetExported(x) = false, want true")
	}
}

func TestTypecheckDoubleExportErrors(t *testing.T) {
	diags := parseErr(t, "export let x: Int = 1; export let x: Int = 2;")
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "already exported") {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an already-exported error", diags)
	}
}

func TestTypecheckDebugEntitiesProbe(t *testing.T) {
	ps := parseOK(t, `let x: Int = 1; @!debug("entities");`)
	found := false
	for _, d := range ps.Diagnostics {
		if d.Severity == syntax.SeverityLog && strings.Contains(d.Message, "x") {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %+v, want a Log entry naming x", ps.Diagnostics)
	}
}

func TestTypecheckDebugUnknownProbeErrors(t *testing.T) {
	diags := parseErr(t, `@!debug("bogus");`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `Unknown debug probe "bogus"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an unknown-probe error", diags)
	}
}

func TestTypecheckClassInstanceMemberAccessOK(t *testing.T) {
	ps := parseOK(t, `decl Widget { let size: Int = 1; }; let w = new Widget(); let s = w.size;`)
	s := ps.Scope.Local("s")[0].(ValueEntity)
	if s.ValueType().Type != TypeInt {
		t.Errorf("s's type = %v, want Int", s.ValueType().Type)
	}
}

func TestTypecheckClassInstanceMemberMissingErrors(t *testing.T) {
	diags := parseErr(t, `decl Widget { let size: Int = 1; }; let w = new Widget(); w.bogus;`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `no member "bogus"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a no-member error", diags)
	}
}

func TestTypecheckClassInstanceMemberInheritedFromBase(t *testing.T) {
	ps := parseOK(t, `decl Base { let n: Int = 1; }; decl Mid extends Base {}; let w = new Mid(); let v = w.n;`)
	v := ps.Scope.Local("v")[0].(ValueEntity)
	if v.ValueType().Type != TypeInt {
		t.Errorf("v's type = %v, want Int (inherited from Base)", v.ValueType().Type)
	}
}

func TestTypecheckUsingBringsClassMembersIntoScope(t *testing.T) {
	ps := parseOK(t, `decl Box { let side: Int = 1; }; using Box; let v = side;`)
	v := ps.Scope.Local("v")[0].(ValueEntity)
	if v.ValueType().Type != TypeInt {
		t.Errorf("v's type = %v, want Int (via using Box)", v.ValueType().Type)
	}
}

func TestTypecheckUsingDoesNotLeakIntoSiblingScope(t *testing.T) {
	diags := parseErr(t, `decl Box { let side: Int = 1; }; fun f() { using Box; }; fun g() { side; };`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `Undefined name "side"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an undefined-name error for side in g", diags)
	}
}

func TestTypecheckCallSelectsOverloadByArgumentTypes(t *testing.T) {
	ps := parseOK(t, `
		fun add(x: Int, y: Int) -> Int { return x + y; };
		fun add(x: String, y: String) -> String { return x; };
		let a = add(1, 2);
		let b = add("x", "y");
	`)
	a := ps.Scope.Local("a")[0].(ValueEntity)
	if a.ValueType().Type != TypeInt {
		t.Errorf("a's type = %v, want Int (Int,Int overload)", a.ValueType().Type)
	}
	b := ps.Scope.Local("b")[0].(ValueEntity)
	if b.ValueType().Type != TypeString {
		t.Errorf("b's type = %v, want String (String,String overload)", b.ValueType().Type)
	}
}

func TestTypecheckDuplicateFunctionSignatureErrors(t *testing.T) {
	diags := parseErr(t, `
		fun add(x: Int, y: Int) -> Int { return x + y; };
		fun add(x: Int, y: Int) -> Int { return x + y; };
	`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `already declared with this parameter signature`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want a duplicate-signature error", diags)
	}
}

func TestTypecheckDistinctOverloadsOfSameNameOK(t *testing.T) {
	parseOK(t, `
		fun add(x: Int, y: Int) -> Int { return x + y; };
		fun add(x: String, y: String) -> String { return x; };
	`)
}

func TestTypecheckDuplicateLetErrors(t *testing.T) {
	diags := parseErr(t, `let x: Int = 1; let x: Int = 2;`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `"x" is already declared in this scope`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an already-declared error", diags)
	}
}

func TestTypecheckDuplicateStructErrors(t *testing.T) {
	diags := parseErr(t, `struct Point { x: Int }; struct Point { y: Int };`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `"Point" is already declared in this scope`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an already-declared error", diags)
	}
}

func TestTypecheckDuplicateClassMemberErrors(t *testing.T) {
	diags := parseErr(t, `decl Widget { let size: Int = 1; let size: Int = 2; };`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `"size" is already declared in this scope`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an already-declared error", diags)
	}
}

func TestTypecheckAttrBareRegistersTarget(t *testing.T) {
	ps := parseOK(t, `@cached let x: Int = 1;`)
	if es := ps.Scope.Local("x"); len(es) != 1 {
		t.Fatalf("Scope.Local(x) = %v, want one Variable", es)
	}
}

func TestTypecheckAttrArgTypecheckedEvenThoughDiscarded(t *testing.T) {
	diags := parseErr(t, `@uses(bogus) let x: Int = 1;`)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, `Undefined name "bogus"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %+v, want an undefined-name error for the attribute argument", diags)
	}
}

func TestTypecheckIfBranchTypeMismatchFallsBackToThen(t *testing.T) {
	ps := parseOK(t, `let x = if true { 1 } else { "s" };`)
	// then/else disagree, so the result is whatever typecheckIf falls
	// back to: the then-branch's type, since neither side converts to
	// the other under nominal struct/primitive equality here (Int vs
	// String do not convert either way).
	x := ps.Scope.Local("x")[0].(ValueEntity)
	if x.ValueType().Type != TypeInt {
		t.Errorf("x's type = %v, want Int (then-branch fallback)", x.ValueType().Type)
	}
}
