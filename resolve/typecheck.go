package resolve

import (
	"strings"

	"github.com/orrery-lang/orrery/syntax"
	"github.com/orrery-lang/orrery/token"
)

// parseAndResolve runs both passes over src: syntax.ParseFile builds
// the AST, then Typecheck walks it to resolve names, build entities,
// and compute types, accumulating diagnostics from both passes into
// one ParsedSrc (spec.md §4.5).
func (p *Project) parseAndResolve(src *syntax.Source) (*ParsedSrc, []syntax.Diagnostic) {
	file, diags, err := syntax.ParseFile(src,
		syntax.WithDebugTickLimit(p.debugTickLimit),
		syntax.WithMaxExprDepth(p.recursionLimit))
	if err != nil {
		// An internal-consistency failure (debugTick) is a parser bug,
		// not something a typecheck pass can do anything useful with;
		// surface it as a single diagnostic rather than panicking the
		// caller.
		diags = append(diags, syntax.Diagnostic{Severity: syntax.SeverityError, Message: err.Error()})
		return &ParsedSrc{exported: make(map[string]Entity)}, diags
	}
	if file == nil {
		return &ParsedSrc{exported: make(map[string]Entity)}, diags
	}

	fileScope := NewNamespace(false, nil, p.root)
	ps := &ParsedSrc{File: file, Scope: fileScope, exported: make(map[string]Entity)}
	up := newUnitParser(p, ps, src, fileScope)

	for _, e := range file.Body {
		Typecheck(up, e)
	}

	ps.Diagnostics = append(diags, up.Diagnostics()...)
	return ps, ps.Diagnostics
}

// Typecheck dispatches on the dynamic type of n, implementing every
// AST node's semantic-analysis pass (spec.md §4.4–§4.6). It lives in
// resolve rather than as a method on each syntax type because syntax
// cannot import resolve — the reverse dependency resolve already has
// on syntax would become a cycle — so this type switch is the
// resolver's half of the same split go.starlark.net keeps between its
// own syntax and resolve packages.
func Typecheck(up *UnitParser, n syntax.Expr) QualifiedType {
	switch n := n.(type) {
	case *syntax.Literal:
		return typecheckLiteral(n)
	case *syntax.Ident:
		return typecheckIdent(up, n)
	case *syntax.UnaryExpr:
		return typecheckUnary(up, n)
	case *syntax.BinaryExpr:
		return typecheckBinary(up, n)
	case *syntax.AttrExpr:
		return typecheckAttr(up, n)
	case *syntax.ScopeExpr:
		return typecheckScope(up, n)
	case *syntax.CallExpr:
		return typecheckCall(up, n)
	case *syntax.NewExpr:
		return typecheckNew(up, n)
	case *syntax.IndexExpr:
		return typecheckIndex(up, n)
	case *syntax.TypeofExpr:
		Typecheck(up, n.X)
		return QualifiedType{Type: TypeString, Const: true}
	case *syntax.IsExpr:
		Typecheck(up, n.X)
		resolveTypeExpr(up, n.Type)
		return QualifiedType{Type: TypeBool, Const: true}
	case *syntax.AsExpr:
		return typecheckAs(up, n)
	case *syntax.BlockExpr:
		return typecheckBlock(up, n)
	case *syntax.ListExpr:
		return typecheckList(up, n)
	case *syntax.IfExpr:
		return typecheckIf(up, n)
	case *syntax.WhileExpr:
		Typecheck(up, n.Cond)
		Typecheck(up, n.Body)
		return QualifiedType{Type: TypeVoid}
	case *syntax.ForExpr:
		return typecheckFor(up, n)
	case *syntax.TryExpr:
		return Typecheck(up, n.Body)
	case *syntax.BreakExpr, *syntax.ContinueExpr:
		return QualifiedType{Type: TypeNever}
	case *syntax.ReturnExpr:
		return typecheckReturn(up, n)
	case *syntax.FunExpr:
		return typecheckFun(up, n)
	case *syntax.DeclExpr:
		return typecheckDecl(up, n)
	case *syntax.StructExpr:
		return typecheckStruct(up, n)
	case *syntax.EnumExpr:
		return typecheckEnum(up, n)
	case *syntax.ClassExpr:
		return typecheckClass(up, n)
	case *syntax.UsingExpr:
		return typecheckUsing(up, n)
	case *syntax.ExternExpr:
		return typecheckExtern(up, n)
	case *syntax.ExportExpr:
		return typecheckExport(up, n)
	case *syntax.ImportExpr:
		return typecheckImport(up, n)
	case *syntax.DebugExpr:
		return typecheckDebug(up, n)
	case *syntax.AnnotateExpr:
		return typecheckAnnotate(up, n)
	default:
		up.Error(n.Span(), "Internal: no typecheck case for %T", n)
		return QualifiedType{Type: TypeInvalid}
	}
}

// checkDuplicate reports (but does not prevent) a name collision in
// ns's local scope ahead of a new declaration, per spec.md Invariant 2
// and §4.5: "overloading across parameter signatures is allowed;
// exact-signature duplicates are an error." ft is nil for anything
// that isn't a function declaration, in which case any existing local
// binding at all is a collision; for a function declaration, only an
// existing FunctionEntity with an identical parameter list collides,
// leaving distinct overloads free to coexist.
func checkDuplicate(up *UnitParser, ns *Namespace, r syntax.Range, name string, ft *FunctionType) {
	for _, existing := range ns.Local(name) {
		if ft == nil {
			up.Error(r, "%q is already declared in this scope", name)
			return
		}
		existingFn, ok := existing.(*FunctionEntity)
		if !ok {
			up.Error(r, "%q is already declared in this scope", name)
			return
		}
		if len(existingFn.Type.Params) != len(ft.Params) {
			continue
		}
		same := true
		for i := range ft.Params {
			if !typesEqual(existingFn.Type.Params[i], ft.Params[i]) {
				same = false
				break
			}
		}
		if same {
			up.Error(r, "%q is already declared with this parameter signature", name)
			return
		}
	}
}

func typecheckLiteral(n *syntax.Literal) QualifiedType {
	switch n.Kind {
	case token.Void:
		return QualifiedType{Type: TypeVoid, Const: true}
	case token.Bool:
		return QualifiedType{Type: TypeBool, Const: true}
	case token.Int:
		return QualifiedType{Type: TypeInt, Const: true}
	case token.Float:
		return QualifiedType{Type: TypeFloat, Const: true}
	case token.String:
		return QualifiedType{Type: TypeString, Const: true}
	default:
		return QualifiedType{Type: TypeInvalid}
	}
}

func typecheckIdent(up *UnitParser, n *syntax.Ident) QualifiedType {
	if n.IsSpecial {
		// this/super/root resolve against the enclosing class, which
		// this minimal frontend does not track beyond name lookup;
		// spec.md's Non-goals exclude evaluating member access, so a
		// static type of Invalid (convertible to anything) is enough
		// to let the rest of the expression still typecheck.
		return QualifiedType{Type: TypeInvalid}
	}
	es := up.scope.Lookup(n.Name)
	if len(es) == 0 {
		up.undefinedName(n.Span(), n.Name)
		return QualifiedType{Type: TypeInvalid}
	}
	if ve, ok := es[0].(ValueEntity); ok {
		return ve.ValueType()
	}
	up.Error(n.Span(), "%q names a type, not a value", n.Name)
	return QualifiedType{Type: TypeInvalid}
}

// typecheckCallee resolves the function a call invokes by name,
// selecting among overloads declared under that name by matching
// argTypes against each candidate's parameter types one-to-one
// (spec.md §4.4 getEntity(name, kindFilter?, paramsFilter?)) before
// falling back to the first candidate in scope the way a plain
// identifier reference does.
func typecheckCallee(up *UnitParser, ident *syntax.Ident, argTypes []QualifiedType) QualifiedType {
	es := up.scope.Lookup(ident.Name)
	if len(es) == 0 {
		up.undefinedName(ident.Span(), ident.Name)
		return QualifiedType{Type: TypeInvalid}
	}
	for _, e := range es {
		fe, ok := e.(*FunctionEntity)
		if !ok || len(fe.Type.Params) != len(argTypes) {
			continue
		}
		match := true
		for i, pt := range fe.Type.Params {
			if !typesEqual(pt.Reduce(), argTypes[i].Type.Reduce()) {
				match = false
				break
			}
		}
		if match {
			return fe.ValueType()
		}
	}
	if ve, ok := es[0].(ValueEntity); ok {
		return ve.ValueType()
	}
	up.Error(ident.Span(), "%q names a type, not a value", ident.Name)
	return QualifiedType{Type: TypeInvalid}
}

func typecheckUnary(up *UnitParser, n *syntax.UnaryExpr) QualifiedType {
	xt := Typecheck(up, n.X)
	switch n.Op.String() {
	case "!":
		if !Convertible(xt.Type, TypeBool) {
			up.Error(n.Span(), "Operator ! requires bool, found %s", xt.Type)
		}
		return QualifiedType{Type: TypeBool, Const: true}
	default: // + or -
		if !Convertible(xt.Type, TypeInt) && !Convertible(xt.Type, TypeFloat) {
			up.Error(n.Span(), "Operator %s requires int or float, found %s", n.Op, xt.Type)
			return QualifiedType{Type: TypeInvalid}
		}
		return QualifiedType{Type: xt.Type, Const: true}
	}
}

func typecheckBinary(up *UnitParser, n *syntax.BinaryExpr) QualifiedType {
	lt := Typecheck(up, n.X)
	rt := Typecheck(up, n.Y)
	spelling := n.Op.String()
	switch {
	case strings.HasSuffix(spelling, "=") && spelling != "==" && spelling != "!=" && spelling != "<=" && spelling != ">=":
		// Assignment family: =, +=, -=, *=, /=, %=.
		if lt.Const {
			up.Error(n.Span(), "Cannot assign to a const binding")
		}
		if !Convertible(rt.Type, lt.Type) {
			up.Error(n.Span(), "Cannot assign %s to %s", rt.Type, lt.Type)
		}
		return lt
	case spelling == "==" || spelling == "!=" || spelling == "<" || spelling == "<=" || spelling == ">" || spelling == ">=":
		if !Convertible(lt.Type, rt.Type) && !Convertible(rt.Type, lt.Type) {
			up.Error(n.Span(), "Cannot compare %s with %s", lt.Type, rt.Type)
		}
		return QualifiedType{Type: TypeBool, Const: true}
	case spelling == "&&" || spelling == "||":
		if !Convertible(lt.Type, TypeBool) || !Convertible(rt.Type, TypeBool) {
			up.Error(n.Span(), "Operator %s requires bool operands", spelling)
		}
		return QualifiedType{Type: TypeBool, Const: true}
	default: // + - * / %
		if !Convertible(lt.Type, rt.Type) && !Convertible(rt.Type, lt.Type) {
			up.Error(n.Span(), "Operator %s requires matching operand types, found %s and %s", spelling, lt.Type, rt.Type)
			return QualifiedType{Type: TypeInvalid}
		}
		result := lt.Type
		if lt.Type.Unreal() {
			result = rt.Type
		}
		return QualifiedType{Type: result, Const: true}
	}
}

func typecheckAttr(up *UnitParser, n *syntax.AttrExpr) QualifiedType {
	xt := Typecheck(up, n.X)
	st, ok := xt.Type.Reduce().(*StructType)
	if !ok {
		if ct, ok := xt.Type.Reduce().(*ClassType); ok {
			for cur := ct; cur != nil; cur = cur.Base {
				if cur.Members == nil {
					continue
				}
				if es := cur.Members.Local(n.Name); len(es) > 0 {
					if ve, ok := es[0].(ValueEntity); ok {
						return ve.ValueType()
					}
				}
			}
			up.Error(n.Span(), "Class %s has no member %q", ct.Name, n.Name)
			return QualifiedType{Type: TypeInvalid}
		}
		if !xt.Type.Unreal() {
			up.Error(n.Span(), "Type %s has no member %q", xt.Type, n.Name)
		}
		return QualifiedType{Type: TypeInvalid}
	}
	for _, f := range st.Fields {
		if f.Name == n.Name {
			return QualifiedType{Type: f.Type}
		}
	}
	up.Error(n.Span(), "Struct %s has no field %q", st.Name, n.Name)
	return QualifiedType{Type: TypeInvalid}
}

func typecheckScope(up *UnitParser, n *syntax.ScopeExpr) QualifiedType {
	Typecheck(up, n.X)
	// `::` resolves a static member of a namespace-like entity (a
	// class's static members, or a file's exports via an aliased
	// import); this minimal implementation does not yet carry the
	// namespace link an AttrExpr would need for a full lookup.
	return QualifiedType{Type: TypeInvalid}
}

func typecheckCall(up *UnitParser, n *syntax.CallExpr) QualifiedType {
	argTypes := make([]QualifiedType, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = Typecheck(up, a)
	}

	var ft QualifiedType
	if ident, ok := n.Fn.(*syntax.Ident); ok && !ident.IsSpecial {
		ft = typecheckCallee(up, ident, argTypes)
	} else {
		ft = Typecheck(up, n.Fn)
	}

	fn, ok := ft.Type.Reduce().(*FunctionType)
	if !ok {
		if !ft.Type.Unreal() {
			up.Error(n.Span(), "Cannot call a value of type %s", ft.Type)
		}
		return QualifiedType{Type: TypeInvalid}
	}
	if len(argTypes) != len(fn.Params) {
		up.Error(n.Span(), "Expected %d argument(s), found %d", len(fn.Params), len(argTypes))
	} else {
		for i, pt := range fn.Params {
			if !Convertible(argTypes[i].Type, pt) {
				up.Error(n.Args[i].Span(), "Cannot pass %s where %s is expected", argTypes[i].Type, pt)
			}
		}
	}
	return QualifiedType{Type: fn.Ret, Const: true}
}

func typecheckNew(up *UnitParser, n *syntax.NewExpr) QualifiedType {
	typ := resolveTypeExpr(up, n.Type)
	for _, a := range n.Args {
		Typecheck(up, a)
	}
	ct, ok := typ.(*ClassType)
	if !ok {
		if !typ.Unreal() {
			up.Error(n.Span(), "Cannot instantiate non-class type %s", typ)
		}
		return QualifiedType{Type: TypeInvalid}
	}
	return QualifiedType{Type: ct}
}

func typecheckIndex(up *UnitParser, n *syntax.IndexExpr) QualifiedType {
	Typecheck(up, n.X)
	it := Typecheck(up, n.Index)
	if !Convertible(it.Type, TypeInt) && !Convertible(it.Type, TypeString) {
		up.Error(n.Index.Span(), "Index must be int or string, found %s", it.Type)
	}
	return QualifiedType{Type: TypeInvalid}
}

func typecheckAs(up *UnitParser, n *syntax.AsExpr) QualifiedType {
	Typecheck(up, n.X)
	typ := resolveTypeExpr(up, n.Type)
	return QualifiedType{Type: typ}
}

func typecheckBlock(up *UnitParser, n *syntax.BlockExpr) QualifiedType {
	prev := up.PushScope()
	defer up.PopScope(prev)
	return Typecheck(up, n.Body)
}

func typecheckList(up *UnitParser, n *syntax.ListExpr) QualifiedType {
	result := QualifiedType{Type: TypeVoid}
	for _, e := range n.Body {
		result = Typecheck(up, e)
	}
	return result
}

func typecheckIf(up *UnitParser, n *syntax.IfExpr) QualifiedType {
	ct := Typecheck(up, n.Cond)
	if !Convertible(ct.Type, TypeBool) {
		up.Error(n.Cond.Span(), "If condition must be bool, found %s", ct.Type)
	}
	thenT := Typecheck(up, n.Then)
	if n.Else == nil {
		return QualifiedType{Type: TypeVoid}
	}
	elseT := Typecheck(up, n.Else)
	if Convertible(thenT.Type, elseT.Type) {
		return QualifiedType{Type: elseT.Type}
	}
	return QualifiedType{Type: thenT.Type}
}

func typecheckFor(up *UnitParser, n *syntax.ForExpr) QualifiedType {
	Typecheck(up, n.Iter)
	prev := up.PushScope()
	defer up.PopScope(prev)
	makeEntity(up.scope, n.Name, n, newVariable(n, nil, QualifiedType{Type: TypeInvalid}))
	Typecheck(up, n.Body)
	return QualifiedType{Type: TypeVoid}
}

func typecheckReturn(up *UnitParser, n *syntax.ReturnExpr) QualifiedType {
	var vt QualifiedType = QualifiedType{Type: TypeVoid}
	if n.Value != nil {
		vt = Typecheck(up, n.Value)
	}
	var fs *funcScope
	var ok bool
	if n.From != "" {
		fs, ok = up.FuncByName(n.From)
		if !ok {
			up.Error(n.Span(), "No enclosing function named %q", n.From)
		}
	} else {
		fs, ok = up.CurrentFunc()
		if !ok {
			up.Error(n.Span(), "return outside of a function")
		}
	}
	if ok && fs != nil && !Convertible(vt.Type, fs.retType.Type) {
		up.Error(n.Span(), "Cannot return %s from a function declared to return %s", vt.Type, fs.retType.Type)
	}
	return QualifiedType{Type: TypeNever}
}

// resolveTypeExpr evaluates a type-position expression (an Ident,
// possibly chained with AttrExpr/ScopeExpr) into a Type, looking it up
// as a TypeEntity rather than a value.
func resolveTypeExpr(up *UnitParser, n syntax.Expr) Type {
	switch n := n.(type) {
	case *syntax.Ident:
		switch n.Name {
		case "Void":
			return TypeVoid
		case "Bool":
			return TypeBool
		case "Int":
			return TypeInt
		case "Float":
			return TypeFloat
		case "String":
			return TypeString
		}
		es := up.scope.Lookup(n.Name)
		if len(es) == 0 {
			up.undefinedName(n.Span(), n.Name)
			return TypeInvalid
		}
		if te, ok := es[0].(TypeEntity); ok {
			return te.NamedType()
		}
		up.Error(n.Span(), "%q does not name a type", n.Name)
		return TypeInvalid
	case *syntax.AttrExpr, *syntax.ScopeExpr:
		// Qualified type names resolve the same way a value-position
		// AttrExpr/ScopeExpr would once namespace-backed class member
		// lookup exists; see typecheckAttr/typecheckScope.
		Typecheck(up, n)
		return TypeInvalid
	default:
		up.Error(n.Span(), "Invalid type expression")
		return TypeInvalid
	}
}

func typecheckFun(up *UnitParser, n *syntax.FunExpr) QualifiedType {
	paramTypes := make([]Type, len(n.Params))
	for i, p := range n.Params {
		if p.Type != nil {
			paramTypes[i] = resolveTypeExpr(up, p.Type)
		} else {
			paramTypes[i] = TypeInvalid
		}
	}
	retType := Type(TypeVoid)
	if n.RetType != nil {
		retType = resolveTypeExpr(up, n.RetType)
	}
	ft := &FunctionType{Params: paramTypes, Ret: retType}

	var fn *FunctionEntity
	if n.Name != "" {
		checkDuplicate(up, up.scope, n.Span(), n.Name, ft)
		fn = makeEntity(up.scope, n.Name, n, &FunctionEntity{Type: ft})
	} else {
		fn = &FunctionEntity{Type: ft}
	}

	prev := up.PushScope()
	for i, p := range n.Params {
		makeEntity(up.scope, p.Name, n, newVariable(n, nil, QualifiedType{Type: paramTypes[i]}))
	}
	up.PushFunc(n.Name, fn, QualifiedType{Type: retType})
	Typecheck(up, n.Body)
	up.PopFunc()
	up.PopScope(prev)

	return QualifiedType{Type: ft, Const: true}
}

func typecheckDecl(up *UnitParser, n *syntax.DeclExpr) QualifiedType {
	var declared Type
	if n.Type != nil {
		declared = resolveTypeExpr(up, n.Type)
	}
	var valueType QualifiedType
	if n.Value != nil {
		valueType = Typecheck(up, n.Value)
	}
	final := declared
	if final == nil {
		final = valueType.Type
	}
	if final == nil {
		final = TypeInvalid
	}
	if declared != nil && n.Value != nil && !Convertible(valueType.Type, declared) {
		up.Error(n.Span(), "Cannot initialize %s with %s", declared, valueType.Type)
	}
	if n.Value == nil && n.Kind == syntax.DeclConst {
		up.Error(n.Span(), "const %q must be initialized", n.Name)
	}
	qt := QualifiedType{Type: final, Const: n.Kind == syntax.DeclConst}
	checkDuplicate(up, up.scope, n.Span(), n.Name, nil)
	makeEntity(up.scope, n.Name, n, newVariable(n, n, qt))
	return qt
}

func typecheckStruct(up *UnitParser, n *syntax.StructExpr) QualifiedType {
	st := &StructType{Name: n.Name}
	for _, f := range n.Fields {
		st.Fields = append(st.Fields, StructField{Name: f.Name, Type: resolveTypeExpr(up, f.Type), Required: f.Required})
	}
	checkDuplicate(up, up.scope, n.Span(), n.Name, nil)
	makeEntity(up.scope, n.Name, n, &StructEntity{Type: st})
	return QualifiedType{Type: TypeVoid}
}

func typecheckEnum(up *UnitParser, n *syntax.EnumExpr) QualifiedType {
	et := &EnumType{Name: n.Name, Variants: append([]string(nil), n.Variants...)}
	seen := make(map[string]bool, len(n.Variants))
	for _, v := range n.Variants {
		if seen[v] {
			up.Error(n.Span(), "Duplicate enum variant %q", v)
		}
		seen[v] = true
	}
	checkDuplicate(up, up.scope, n.Span(), n.Name, nil)
	makeEntity(up.scope, n.Name, n, &EnumEntity{Type: et})
	return QualifiedType{Type: TypeVoid}
}

func typecheckClass(up *UnitParser, n *syntax.ClassExpr) QualifiedType {
	ct := &ClassType{Name: n.Name}
	if n.Extends != nil {
		base := resolveTypeExpr(up, n.Extends)
		if bc, ok := base.(*ClassType); ok {
			ct.Base = bc
		} else if !base.Unreal() {
			up.Error(n.Extends.Span(), "Cannot extend non-class type %s", base)
		}
	}

	checkDuplicate(up, up.scope, n.Span(), n.Name, nil)
	ce := makeEntity(up.scope, n.Name, n, &ClassEntity{Type: ct})
	ce.Members = NewNamespace(false, ce, up.scope)
	ct.Members = ce.Members

	prevScope := up.scope
	up.scope = ce.Members
	for _, m := range n.Members {
		typecheckClassMember(up, m)
	}
	up.scope = prevScope

	return QualifiedType{Type: TypeVoid}
}

func typecheckClassMember(up *UnitParser, m syntax.ClassMember) {
	switch decl := m.Decl.(type) {
	case *syntax.AttrDeclExpr:
		typ := Type(TypeInvalid)
		if decl.Type != nil {
			typ = resolveTypeExpr(up, decl.Type)
		}
		for _, dep := range decl.Depends {
			if len(up.scope.Local(dep)) == 0 {
				up.Error(decl.Span(), "Attribute %q depends on undefined member %q", decl.Name, dep)
			}
		}
		qt := QualifiedType{Type: typ}
		if decl.Get && !decl.Set {
			qt.Const = true
		}
		checkDuplicate(up, up.scope, decl.Span(), decl.Name, nil)
		makeMember(up.scope, decl.Name, decl, newVariable(decl, nil, qt))
	case *syntax.FunExpr:
		paramTypes := make([]Type, len(decl.Params))
		for i, p := range decl.Params {
			if p.Type != nil {
				paramTypes[i] = resolveTypeExpr(up, p.Type)
			} else {
				paramTypes[i] = TypeInvalid
			}
		}
		retType := Type(TypeVoid)
		if decl.RetType != nil {
			retType = resolveTypeExpr(up, decl.RetType)
		}
		ft := &FunctionType{Params: paramTypes, Ret: retType}
		checkDuplicate(up, up.scope, decl.Span(), decl.Name, ft)
		fn := makeMember(up.scope, decl.Name, decl, &FunctionEntity{Type: ft})

		// The method body's scope is nested under the class's member
		// namespace, so an unqualified reference inside it sees
		// sibling fields and methods the same way Entity.hpp's
		// member-function bodies resolve against their owning Class.
		memberScope := up.scope
		up.PushScope()
		for i, p := range decl.Params {
			makeEntity(up.scope, p.Name, decl, newVariable(decl, nil, QualifiedType{Type: paramTypes[i]}))
		}
		up.PushFunc(decl.Name, fn, QualifiedType{Type: retType})
		Typecheck(up, decl.Body)
		up.PopFunc()
		up.scope = memberScope
	case *syntax.DeclExpr:
		var declared Type
		if decl.Type != nil {
			declared = resolveTypeExpr(up, decl.Type)
		}
		var vt QualifiedType
		if decl.Value != nil {
			vt = Typecheck(up, decl.Value)
		}
		final := declared
		if final == nil {
			final = vt.Type
		}
		if final == nil {
			final = TypeInvalid
		}
		checkDuplicate(up, up.scope, decl.Span(), decl.Name, nil)
		makeMember(up.scope, decl.Name, decl, newVariable(decl, decl, QualifiedType{Type: final, Const: decl.Kind == syntax.DeclConst}))
	default:
		up.Error(m.RangeVal, "Internal: unrecognized class member node %T", decl)
	}
}

// typecheckUsing implements AST.cpp's UsingExpr::typecheck: resolve the
// named type and, for a class, register its member Namespace as an
// additional unqualified search root for the rest of this scope
// (spec.md §4.4 step 3, §4.5's "namespace + usingNs list" scope shape).
func typecheckUsing(up *UnitParser, n *syntax.UsingExpr) QualifiedType {
	typ := resolveTypeExpr(up, n.Type)
	if ct, ok := typ.(*ClassType); ok && ct.Members != nil {
		up.scope.AddUsing(ct.Members)
	}
	return QualifiedType{Type: TypeVoid}
}

func typecheckExtern(up *UnitParser, n *syntax.ExternExpr) QualifiedType {
	typ := resolveTypeExpr(up, n.Type)
	checkDuplicate(up, up.scope, n.Span(), n.Name, nil)
	makeEntity(up.scope, n.Name, n, newVariable(n, nil, QualifiedType{Type: typ, Const: true}))
	return QualifiedType{Type: TypeVoid}
}

// typecheckExport implements AST.cpp's ExportExpr::typecheck: typecheck
// the wrapped declaration as normal, then additionally register its
// bound name in the file's export table; only legal at file scope.
func typecheckExport(up *UnitParser, n *syntax.ExportExpr) QualifiedType {
	if !up.IsRootScope() {
		up.Error(n.Span(), "export is only allowed at file scope")
	}
	Typecheck(up, n.Decl)

	name := declaredName(n.Decl)
	if name == "" {
		up.Error(n.Span(), "export requires a named declaration")
		return QualifiedType{Type: TypeVoid}
	}
	es := up.scope.Local(name)
	if len(es) == 0 {
		return QualifiedType{Type: TypeVoid}
	}
	if _, dup := up.project.GetExported(name); dup {
		up.Error(n.Span(), "%q is already exported from this file", name)
		return QualifiedType{Type: TypeVoid}
	}
	up.project.addExported(name, es[len(es)-1])
	return QualifiedType{Type: TypeVoid}
}

func declaredName(n syntax.Expr) string {
	switch n := n.(type) {
	case *syntax.DeclExpr:
		return n.Name
	case *syntax.FunExpr:
		return n.Name
	case *syntax.StructExpr:
		return n.Name
	case *syntax.EnumExpr:
		return n.Name
	case *syntax.ClassExpr:
		return n.Name
	case *syntax.ExternExpr:
		return n.Name
	case *syntax.AnnotateExpr:
		return declaredName(n.Target)
	default:
		return ""
	}
}

// typecheckImport implements AST.cpp's ImportExpr::typecheck: resolve
// the `from` path relative to this file's search directory, recursively
// load and resolve it through the owning Project (which transparently
// handles the already-parsed and in-progress-cycle cases), then merge
// the requested names — or everything, for the `*` form — into the
// current scope, reporting a collision against an existing binding.
func typecheckImport(up *UnitParser, n *syntax.ImportExpr) QualifiedType {
	path := ResolveImportPath(up.src.SearchDir(), n.From)
	imported, err := up.proj.Load(path)
	if err != nil {
		up.Error(n.Span(), "Cannot import %q: %s", n.From, err)
		return QualifiedType{Type: TypeVoid}
	}

	merge := func(name string, e Entity) {
		if len(up.scope.Local(name)) > 0 {
			up.Error(n.Span(), "%q already declared in this scope", name)
			return
		}
		up.scope.pushEntity(name, e)
	}

	if n.Star {
		for name, e := range imported.AllExported() {
			merge(name, e)
		}
		return QualifiedType{Type: TypeVoid}
	}
	for _, name := range n.Names {
		e, ok := imported.GetExported(name)
		if !ok {
			up.Error(n.Span(), "%q from %q is not exported, or does not exist", name, n.From)
			continue
		}
		merge(name, e)
	}
	return QualifiedType{Type: TypeVoid}
}

// typecheckAnnotate implements AST.cpp's AttrExpr::typecheck for the
// `@ident`/`@ident(expr)` Attr form (SPEC_FULL §7): the attached
// declaration still typechecks and registers normally, and a
// parenthesized argument typechecks too (so a bad expression there is
// still reported), but the Attr itself carries no type information of
// its own and always yields Void regardless of what Target produced.
func typecheckAnnotate(up *UnitParser, n *syntax.AnnotateExpr) QualifiedType {
	if n.Arg != nil {
		Typecheck(up, n.Arg)
	}
	Typecheck(up, n.Target)
	return QualifiedType{Type: TypeVoid}
}

// typecheckDebug implements AST.cpp's DebugExpr::typecheck: dump the
// current scope stack for the "entities" probe, or report an
// unrecognized probe name as a reportable but non-fatal error.
func typecheckDebug(up *UnitParser, n *syntax.DebugExpr) QualifiedType {
	switch n.Probe {
	case "entities":
		depth := 0
		for cur := up.scope; cur != nil; cur = cur.parent {
			var names []string
			for name := range cur.entities {
				names = append(names, name)
			}
			up.Log(n.Span(), "scope[%d]: %s", depth, strings.Join(names, ", "))
			depth++
		}
	default:
		up.Error(n.Span(), "Unknown debug probe %q", n.Probe)
	}
	return QualifiedType{Type: TypeVoid}
}
