// Package resolve implements the two-pass semantic analyzer: scope and
// namespace resolution, typechecking, and cross-file import/export
// linking (spec.md §4.4, §4.5, §4.6).
//
// resolve depends on syntax but syntax never depends on resolve, so
// Typecheck is implemented here as a type switch over syntax.Node
// rather than as a method on the AST types themselves — the same
// package split go.starlark.net uses between its syntax and resolve
// packages.
package resolve

import "fmt"

// Type is the closed set of type forms a declaration may carry
// (spec.md §4.6, grounded on compiler-v2/src/checker/ty.rs's Ty enum).
type Type interface {
	fmt.Stringer
	// Unreal reports whether this type stands in for "no real type was
	// determined" (Invalid) or "control never reaches here" (Never).
	// Both are convertible to and from anything, so that one illegal
	// subexpression doesn't cascade into dozens of unrelated errors.
	Unreal() bool
	// Reduce strips away alias indirection, returning the underlying
	// type an Alias ultimately names. Non-aliases return themselves.
	Reduce() Type
}

// Primitive is the enumeration of built-in scalar and marker types.
type Primitive uint8

const (
	// Invalid marks a type that could not be determined because of an
	// earlier error; it is convertible to everything so one mistake
	// doesn't produce a cascade of unrelated type errors.
	Invalid Primitive = iota
	// Never is the type of an expression that cannot complete normally
	// (e.g. both branches of an exhaustive `return`).
	Never
	Void
	Bool
	Int
	Float
	String
)

func (p Primitive) String() string {
	switch p {
	case Invalid:
		return "<invalid>"
	case Never:
		return "never"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "<unknown primitive>"
	}
}

// PrimitiveType wraps a Primitive as a Type.
type PrimitiveType struct{ Kind Primitive }

func (t PrimitiveType) String() string { return t.Kind.String() }
func (t PrimitiveType) Unreal() bool   { return t.Kind == Invalid || t.Kind == Never }
func (t PrimitiveType) Reduce() Type   { return t }

var (
	TypeInvalid = PrimitiveType{Invalid}
	TypeNever   = PrimitiveType{Never}
	TypeVoid    = PrimitiveType{Void}
	TypeBool    = PrimitiveType{Bool}
	TypeInt     = PrimitiveType{Int}
	TypeFloat   = PrimitiveType{Float}
	TypeString  = PrimitiveType{String}
)

// FunctionType is the type of a callable: its parameter types in
// order, and its return type.
type FunctionType struct {
	Params []Type
	Ret    Type
}

func (t *FunctionType) String() string {
	s := "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + t.Ret.String()
}
func (t *FunctionType) Unreal() bool { return false }
func (t *FunctionType) Reduce() Type { return t }

// StructField describes one member of a StructType.
type StructField struct {
	Name     string
	Type     Type
	Required bool
}

// StructType is a plain data aggregate (spec.md §4 DATA MODEL, `struct`
// declarations).
type StructType struct {
	Name   string
	Fields []StructField
}

func (t *StructType) String() string { return t.Name }
func (t *StructType) Unreal() bool   { return false }
func (t *StructType) Reduce() Type   { return t }

// EnumType is a closed set of named variants.
type EnumType struct {
	Name     string
	Variants []string
}

func (t *EnumType) String() string { return t.Name }
func (t *EnumType) Unreal() bool   { return false }
func (t *EnumType) Reduce() Type   { return t }

// ClassType is the type of instances of a `decl` class. Base may be nil
// for a class with no explicit `extends` clause. Members links back to
// the ClassEntity's own member Namespace, so that a `using` directive
// naming this type (spec.md §4.4 step 3) has something to register as
// an additional search root.
type ClassType struct {
	Name    string
	Base    *ClassType
	Members *Namespace
}

func (t *ClassType) String() string { return t.Name }
func (t *ClassType) Unreal() bool   { return false }
func (t *ClassType) Reduce() Type   { return t }

// IsSubclassOf reports whether t is c or a (possibly indirect)
// subclass of c.
func (t *ClassType) IsSubclassOf(c *ClassType) bool {
	for cur := t; cur != nil; cur = cur.Base {
		if cur == c {
			return true
		}
	}
	return false
}

// AliasType names another type without introducing a distinct nominal
// identity (a `using`-style type alias).
type AliasType struct {
	Name string
	Of   Type
}

func (t *AliasType) String() string { return t.Name }
func (t *AliasType) Unreal() bool   { return t.Of.Unreal() }
func (t *AliasType) Reduce() Type   { return t.Of.Reduce() }

// QualifiedType pairs a Type with its const-ness (spec.md §4 DATA
// MODEL "QualifiedType").
type QualifiedType struct {
	Type  Type
	Const bool
}

func (q QualifiedType) String() string {
	if q.Const {
		return "const " + q.Type.String()
	}
	return q.Type.String()
}

// Convertible reports whether a value of type from may be used where a
// value of type to is expected: exact reduced-type equality, or either
// side being Unreal (compiler-v2/src/checker/ty.rs's `convertible`).
func Convertible(from, to Type) bool {
	if from.Unreal() || to.Unreal() {
		return true
	}
	return typesEqual(from.Reduce(), to.Reduce())
}

func typesEqual(a, b Type) bool {
	switch av := a.(type) {
	case PrimitiveType:
		bv, ok := b.(PrimitiveType)
		return ok && av.Kind == bv.Kind
	case *FunctionType:
		bv, ok := b.(*FunctionType)
		if !ok || len(av.Params) != len(bv.Params) || !typesEqual(av.Ret, bv.Ret) {
			return false
		}
		for i := range av.Params {
			if !typesEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case *StructType:
		bv, ok := b.(*StructType)
		return ok && av == bv
	case *EnumType:
		bv, ok := b.(*EnumType)
		return ok && av == bv
	case *ClassType:
		bv, ok := b.(*ClassType)
		return ok && av == bv
	default:
		return a == b
	}
}
