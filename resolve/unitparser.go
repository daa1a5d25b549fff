package resolve

import (
	"fmt"

	"github.com/orrery-lang/orrery/internal/suggest"
	"github.com/orrery-lang/orrery/syntax"
)

// funcScope tracks the innermost enclosing `fun` while walking a body,
// so that `return from Name` (spec.md §9 Supplemented Features) can be
// checked against the function it actually names, and so a bare
// `return` can be validated against the enclosing function's
// declared return type.
type funcScope struct {
	name    string
	fn      *FunctionEntity
	retType QualifiedType
}

// UnitParser is the per-file driver of the second pass: it walks the
// AST that syntax.ParseFile already built, pushing and popping scopes
// as it enters and leaves blocks, functions, and classes, registering
// each declaration as an Entity in the namespace it belongs to, and
// computing a Type for every expression (spec.md §4.5).
type UnitParser struct {
	project   *ParsedSrc
	proj      *Project
	src       *syntax.Source

	scope     *Namespace
	fileScope *Namespace
	funcs     []*funcScope

	diagnostics []syntax.Diagnostic
}

func newUnitParser(proj *Project, ps *ParsedSrc, src *syntax.Source, fileScope *Namespace) *UnitParser {
	return &UnitParser{project: ps, proj: proj, src: src, scope: fileScope, fileScope: fileScope}
}

// Scope returns the namespace currently in effect.
func (up *UnitParser) Scope() *Namespace { return up.scope }

// PushScope opens a new child namespace nested under the current one
// and makes it current, returning the namespace that was current
// before (pass to PopScope to restore it).
func (up *UnitParser) PushScope() *Namespace {
	prev := up.scope
	up.scope = NewNamespace(false, nil, prev)
	return prev
}

// PopScope restores prev as the current namespace (Entity.hpp's
// Namespace stack is managed this way by BlockExpr::typecheck pushing
// and popping around its body).
func (up *UnitParser) PopScope(prev *Namespace) { up.scope = prev }

// IsRootScope reports whether the current scope is the file's
// top-level namespace — export is only legal there (AST.cpp's
// ExportExpr::typecheck calls state.isRootScope()). The file scope's
// parent is the project's global namespace, not nil, so this compares
// identity against the scope newUnitParser started from rather than
// checking for a nil parent.
func (up *UnitParser) IsRootScope() bool { return up.scope == up.fileScope }

// PushFunc records fn (and its name, for `return from name` matching)
// as the innermost enclosing function.
func (up *UnitParser) PushFunc(name string, fn *FunctionEntity, ret QualifiedType) {
	up.funcs = append(up.funcs, &funcScope{name: name, fn: fn, retType: ret})
}

// PopFunc removes the innermost enclosing function.
func (up *UnitParser) PopFunc() {
	if len(up.funcs) > 0 {
		up.funcs = up.funcs[:len(up.funcs)-1]
	}
}

// CurrentFunc returns the innermost enclosing function, or nil outside
// any function body.
func (up *UnitParser) CurrentFunc() (*funcScope, bool) {
	if len(up.funcs) == 0 {
		return nil, false
	}
	return up.funcs[len(up.funcs)-1], true
}

// FuncByName searches the enclosing function stack outward for one
// named name, supporting `return <expr> from name` targeting an outer
// function from inside a nested closure.
func (up *UnitParser) FuncByName(name string) (*funcScope, bool) {
	for i := len(up.funcs) - 1; i >= 0; i-- {
		if up.funcs[i].name == name {
			return up.funcs[i], true
		}
	}
	return nil, false
}

func (up *UnitParser) record(sev syntax.Severity, r syntax.Range, msg string) {
	up.diagnostics = append(up.diagnostics, syntax.Diagnostic{Severity: sev, Range: r, Message: msg})
}

// Error reports a typechecking error at r.
func (up *UnitParser) Error(r syntax.Range, format string, args ...any) {
	up.record(syntax.SeverityError, r, fmt.Sprintf(format, args...))
}

// Warn reports a typechecking warning at r.
func (up *UnitParser) Warn(r syntax.Range, format string, args ...any) {
	up.record(syntax.SeverityWarn, r, fmt.Sprintf(format, args...))
}

// Log reports an informational message at r, used by DebugExpr.
func (up *UnitParser) Log(r syntax.Range, format string, args ...any) {
	up.record(syntax.SeverityLog, r, fmt.Sprintf(format, args...))
}

// Diagnostics returns every diagnostic recorded during this file's
// typecheck pass.
func (up *UnitParser) Diagnostics() []syntax.Diagnostic { return up.diagnostics }

// undefinedName reports that name could not be found in scope,
// appending a "did you mean" suggestion fuzzy-matched against every
// name visible from the current scope outward (spec.md §9, the
// sahilm/fuzzy-backed replacement for the original's hand-rolled
// Levenshtein-distance spell checker).
func (up *UnitParser) undefinedName(r syntax.Range, name string) {
	var candidates []string
	for cur := up.scope; cur != nil; cur = cur.parent {
		for n := range cur.entities {
			candidates = append(candidates, n)
		}
	}
	if best := suggest.Best(name, candidates); best != "" {
		up.Error(r, "Undefined name %q; did you mean %q?", name, best)
		return
	}
	up.Error(r, "Undefined name %q", name)
}
