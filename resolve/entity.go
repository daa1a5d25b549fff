package resolve

import "github.com/orrery-lang/orrery/syntax"

// Entity is anything a Namespace can hold: a variable, a function, or
// a type (spec.md §4.4, grounded on Entity.hpp's Entity base class).
// An Entity knows its own enclosing Namespace but the Namespace does
// not retain ownership pressure back onto it beyond a plain pointer —
// there is no ownership cycle to break since Go is garbage collected,
// but the shape is kept identical to the C++ original for clarity.
type Entity interface {
	// Name is the entity's bare, unqualified name.
	Name() string
	// FullName is Name qualified by every enclosing namespace, joined
	// with "::" (Entity.hpp's getFullName).
	FullName() string
	// Namespace returns the namespace this entity was declared in (the
	// root namespace itself for an entity declared at the root).
	Namespace() *Namespace
	// Decl returns the syntax node that declared this entity, for
	// diagnostics.
	Decl() syntax.Node
	// applyTypeDefinition finishes constructing the entity now that it
	// is safely reachable from Namespace.makeEntity — the two-phase
	// construction pattern mirrors Entity.hpp's comment that building
	// the type can't happen inside the constructor because a template
	// method that needs to reach back into the owning namespace isn't
	// available yet at that point.
	applyTypeDefinition()
	// setNamespace and setName complete the common Entity state once an
	// owning Namespace is known.
	setNamespace(ns *Namespace)
	setName(name string)
	setDecl(n syntax.Node)
}

// entityBase implements the bookkeeping shared by every concrete
// Entity: its name, its owning namespace, and the declaration site.
type entityBase struct {
	name string
	ns   *Namespace
	decl syntax.Node
}

func (e *entityBase) Name() string         { return e.name }
func (e *entityBase) Namespace() *Namespace { return e.ns }
func (e *entityBase) Decl() syntax.Node     { return e.decl }
func (e *entityBase) setNamespace(ns *Namespace) { e.ns = ns }
func (e *entityBase) setName(name string)        { e.name = name }
func (e *entityBase) setDecl(n syntax.Node)       { e.decl = n }

func (e *entityBase) FullName() string {
	if e.ns == nil || e.ns.owner == nil {
		return e.name
	}
	return e.ns.owner.FullName() + "::" + e.name
}

// ValueEntity is an Entity that carries a runtime value's static type —
// a Variable or a FunctionEntity (Entity.hpp's ValueEntity).
type ValueEntity interface {
	Entity
	ValueType() QualifiedType
}

// TypeEntity is an Entity that itself names a type — a struct, enum,
// or class declaration (Entity.hpp's TypeEntity).
type TypeEntity interface {
	Entity
	NamedType() Type
}

// Variable is a `let`/`const` binding or a function parameter.
type Variable struct {
	entityBase
	Type  QualifiedType
	declK syntax.Expr // the *syntax.DeclExpr or *syntax.Param that introduced it
}

func newVariable(decl syntax.Node, declK syntax.Expr, qt QualifiedType) *Variable {
	v := &Variable{Type: qt, declK: declK}
	v.decl = decl
	return v
}

func (v *Variable) ValueType() QualifiedType { return v.Type }
func (v *Variable) applyTypeDefinition()     {}

// FunctionEntity is a `fun` declaration, or an accessor's synthesized
// getter/setter (spec.md §4.4).
type FunctionEntity struct {
	entityBase
	Type *FunctionType
}

func (f *FunctionEntity) ValueType() QualifiedType { return QualifiedType{Type: f.Type, Const: true} }
func (f *FunctionEntity) applyTypeDefinition()     {}

// StructEntity, EnumEntity, and ClassEntity are TypeEntity
// implementations for their respective declaration forms.

type StructEntity struct {
	entityBase
	Type *StructType
}

func (e *StructEntity) NamedType() Type      { return e.Type }
func (e *StructEntity) applyTypeDefinition() {}

type EnumEntity struct {
	entityBase
	Type *EnumType
}

func (e *EnumEntity) NamedType() Type      { return e.Type }
func (e *EnumEntity) applyTypeDefinition() {}

// ClassEntity is both a TypeEntity (it names ClassType) and the owner
// of a Namespace holding its members — the Go realization of
// Entity.hpp's Class, which derives from both Entity and Namespace via
// multiple inheritance. Go has no multiple inheritance, so ClassEntity
// holds its Members namespace by name rather than embedding it: an
// anonymous embed here would make `Name`/`Namespace` ambiguous
// selectors, since entityBase already promotes methods by those names.
type ClassEntity struct {
	entityBase
	Members *Namespace
	Type    *ClassType
}

func (e *ClassEntity) NamedType() Type { return e.Type }
func (e *ClassEntity) applyTypeDefinition() {
	// Entity.hpp's Class::applyTypeDefinition links m_classType to its
	// base class's type, once the base is known; our ClassType.Base is
	// set directly by the resolver when it builds the ClassEntity, so
	// there is nothing left to do here beyond keeping the hook for
	// symmetry with the other TypeEntity forms.
}

// makeEntity sets up e's name, namespace and declaration, runs the
// two-phase construction hook, and then pushes it into ns (Entity.hpp's
// templated makeEntity<T>: construct, then applyTypeDefinition, then
// pushEntity). The hook runs with the entity's own namespace already
// set, but before the entity is visible to lookups in ns.
func makeEntity[T Entity](ns *Namespace, name string, decl syntax.Node, e T) T {
	e.setNamespace(ns)
	e.setName(name)
	e.setDecl(decl)
	e.applyTypeDefinition()
	ns.pushEntity(name, e)
	return e
}
