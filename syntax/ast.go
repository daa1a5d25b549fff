package syntax

import "github.com/orrery-lang/orrery/token"

// Node is implemented by every AST node: expressions, statements, and
// the File root. Mirrors go.starlark.net/syntax.Node: a single Span
// accessor lets diagnostics and tooling walk the tree generically
// without a type switch, while the Stmt/Expr marker interfaces below
// still let the parser and resolver distinguish node categories.
type Node interface {
	Span() Range
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node. In this language nearly
// every construct is an expression (spec.md §3 "everything but File is
// an Expr"); Stmt exists only for ExprStmt, matching the original
// AST's top-level ListExpr holding a sequence of Exprs rather than
// Stmts. Kept for parity with the teacher's syntax.go shape, not
// because the grammar needs a separate statement category.
type Stmt interface {
	Node
	stmt()
}

// File is the root of a parsed source file (spec.md §4.5 "AST::pull").
type File struct {
	RangeVal Range
	Source   *Source
	Body     []Expr
}

func (f *File) Span() Range { return f.RangeVal }

// Ident is a bare identifier reference. IsSpecial is set for the three
// reserved identifiers this/super/root (spec.md §9 Supplemented
// Features); Absolute is set only for "root", marking the path it
// heads as rooted at the global namespace rather than resolved
// lexically.
type Ident struct {
	RangeVal  Range
	Name      string
	IsSpecial bool
	Absolute  bool
}

func (n *Ident) Span() Range { return n.RangeVal }
func (n *Ident) expr()       {}

// Literal is a Bool/Int/Float/String/Void constant.
type Literal struct {
	RangeVal Range
	Kind     token.LiteralKind
	BoolVal  bool
	IntVal   uint64
	FloatVal float64
	Text     string
}

func (n *Literal) Span() Range { return n.RangeVal }
func (n *Literal) expr()       {}

// UnaryExpr applies a unary prefix operator (only !, +, - per spec.md
// §3) to X.
type UnaryExpr struct {
	RangeVal Range
	Op       token.Op
	X        Expr
}

func (n *UnaryExpr) Span() Range { return n.RangeVal }
func (n *UnaryExpr) expr()       {}

// BinaryExpr applies a binary operator to X and Y, already resolved to
// the correct precedence/associativity by the Pratt parser.
type BinaryExpr struct {
	RangeVal Range
	Op       token.Op
	X, Y     Expr
}

func (n *BinaryExpr) Span() Range { return n.RangeVal }
func (n *BinaryExpr) expr()       {}

// AttrExpr is a `.name` member access on X (spec.md §9 Supplemented
// Features, grounded on AST.cpp AttrExpr).
type AttrExpr struct {
	RangeVal Range
	X        Expr
	Name     string
}

func (n *AttrExpr) Span() Range { return n.RangeVal }
func (n *AttrExpr) expr()       {}

// ScopeExpr is an `X::name` scope-resolution access, the static
// counterpart to AttrExpr's dynamic member lookup.
type ScopeExpr struct {
	RangeVal Range
	X        Expr
	Name     string
}

func (n *ScopeExpr) Span() Range { return n.RangeVal }
func (n *ScopeExpr) expr()       {}

// CallExpr is a function or constructor call Fn(Args...).
type CallExpr struct {
	RangeVal Range
	Fn       Expr
	Args     []Expr
}

func (n *CallExpr) Span() Range { return n.RangeVal }
func (n *CallExpr) expr()       {}

// NewExpr is a `new Type(Args...)` instantiation expression.
type NewExpr struct {
	RangeVal Range
	Type     Expr
	Args     []Expr
}

func (n *NewExpr) Span() Range { return n.RangeVal }
func (n *NewExpr) expr()       {}

// IndexExpr is a subscript X[Index].
type IndexExpr struct {
	RangeVal Range
	X, Index Expr
}

func (n *IndexExpr) Span() Range { return n.RangeVal }
func (n *IndexExpr) expr()       {}

// TypeofExpr is `typeof X`.
type TypeofExpr struct {
	RangeVal Range
	X        Expr
}

func (n *TypeofExpr) Span() Range { return n.RangeVal }
func (n *TypeofExpr) expr()       {}

// IsExpr is `X is Type`, a runtime/static type test.
type IsExpr struct {
	RangeVal Range
	X        Expr
	Type     Expr
}

func (n *IsExpr) Span() Range { return n.RangeVal }
func (n *IsExpr) expr()       {}

// AsExpr is `X as Type`, a type ascription/cast.
type AsExpr struct {
	RangeVal Range
	X        Expr
	Type     Expr
}

func (n *AsExpr) Span() Range { return n.RangeVal }
func (n *AsExpr) expr()       {}

// BlockExpr is a `{ ... }` sequence of expressions evaluated in its own
// pushed scope (spec.md §4.4, grounded on AST.cpp BlockExpr).
type BlockExpr struct {
	RangeVal Range
	Body     *ListExpr
}

func (n *BlockExpr) Span() Range { return n.RangeVal }
func (n *BlockExpr) expr()       {}

// ListExpr is a bare `;`-separated sequence of expressions, with no
// scope of its own (spec.md §4.5, grounded on AST.cpp ListExpr). The
// root File node holds its top-level sequence the same way.
type ListExpr struct {
	RangeVal Range
	Body     []Expr
}

func (n *ListExpr) Span() Range { return n.RangeVal }
func (n *ListExpr) expr()       {}

// IfExpr is `if Cond Then else Else`, with Else possibly nil.
type IfExpr struct {
	RangeVal   Range
	Cond, Then Expr
	Else       Expr
}

func (n *IfExpr) Span() Range { return n.RangeVal }
func (n *IfExpr) expr()       {}

// WhileExpr is `while Cond Body`.
type WhileExpr struct {
	RangeVal   Range
	Cond, Body Expr
}

func (n *WhileExpr) Span() Range { return n.RangeVal }
func (n *WhileExpr) expr()       {}

// ForExpr is `for Name in Iter Body`.
type ForExpr struct {
	RangeVal   Range
	Name       string
	Iter, Body Expr
}

func (n *ForExpr) Span() Range { return n.RangeVal }
func (n *ForExpr) expr()       {}

// TryExpr is `try Body`, a failure-boundary wrapper whose exact runtime
// semantics live outside this frontend's scope (spec.md §1 Non-goals:
// no evaluator); the parser and resolver only need its shape.
type TryExpr struct {
	RangeVal Range
	Body     Expr
}

func (n *TryExpr) Span() Range { return n.RangeVal }
func (n *TryExpr) expr()       {}

// BreakExpr is `break`.
type BreakExpr struct{ RangeVal Range }

func (n *BreakExpr) Span() Range { return n.RangeVal }
func (n *BreakExpr) expr()       {}

// ContinueExpr is `continue`.
type ContinueExpr struct{ RangeVal Range }

func (n *ContinueExpr) Span() Range { return n.RangeVal }
func (n *ContinueExpr) expr()       {}

// ReturnExpr is `return [Value] [from Name]` (spec.md §9 Supplemented
// Features, grounded on AST.cpp ReturnExpr: an optional value and an
// optional labeled-function target).
type ReturnExpr struct {
	RangeVal Range
	Value    Expr // nil if bare `return`
	From     string
}

func (n *ReturnExpr) Span() Range { return n.RangeVal }
func (n *ReturnExpr) expr()       {}

// Param is one parameter of a FunExpr: a name, a declared type
// expression, and whether it is required (spec.md §4 DATA MODEL).
type Param struct {
	RangeVal Range
	Name     string
	Type     Expr
	Required bool
}

// FunExpr is a `fun name(params) -> RetType Body` declaration, or the
// anonymous form with Name == "".
type FunExpr struct {
	RangeVal Range
	Name     string
	Params   []Param
	RetType  Expr // nil if unannotated
	Body     Expr
}

func (n *FunExpr) Span() Range { return n.RangeVal }
func (n *FunExpr) expr()       {}

// DeclKind distinguishes `let` from `const` bindings.
type DeclKind uint8

const (
	DeclLet DeclKind = iota
	DeclConst
)

// DeclExpr is a `let`/`const` binding, optionally typed, optionally
// initialized.
type DeclExpr struct {
	RangeVal Range
	Kind     DeclKind
	Name     string
	Type     Expr // nil if unannotated
	Value    Expr // nil if uninitialized
}

func (n *DeclExpr) Span() Range { return n.RangeVal }
func (n *DeclExpr) expr()       {}

// StructField is one member of a StructExpr: a name, its declared
// type, and whether it must be supplied at construction (spec.md's
// `required` keyword).
type StructField struct {
	RangeVal Range
	Name     string
	Type     Expr
	Required bool
}

// StructExpr is a `struct name { fields }` declaration.
type StructExpr struct {
	RangeVal Range
	Name     string
	Fields   []StructField
}

func (n *StructExpr) Span() Range { return n.RangeVal }
func (n *StructExpr) expr()       {}

// EnumExpr is an `enum name { variants }` declaration. Each variant is
// a bare identifier; value assignment is left to the resolver.
type EnumExpr struct {
	RangeVal Range
	Name     string
	Variants []string
}

func (n *EnumExpr) Span() Range { return n.RangeVal }
func (n *EnumExpr) expr()       {}

// ClassMember tags which declaration form produced a ClassExpr member,
// so the resolver can apply the right Entity construction without
// re-deriving it from the member's dynamic type.
type ClassMember struct {
	RangeVal  Range
	Decl      Expr // *DeclExpr, *FunExpr, or *AttrDeclExpr
	Get, Set  bool // true if declared via get/set accessor syntax
	Depends   []string
}

// ClassExpr is a `decl name extends Base { members }` class
// declaration (spec.md §4.4; "decl" is the declaration keyword for
// both free-standing structs' behaviorful cousin and the class form).
type ClassExpr struct {
	RangeVal Range
	Name     string
	Extends  Expr // nil if no base class
	Members  []ClassMember
}

func (n *ClassExpr) Span() Range { return n.RangeVal }
func (n *ClassExpr) expr()       {}

// AttrDeclExpr is a `depends (a, b) get/set name -> Type` attribute
// declaration inside a class body (spec.md §9 Supplemented Features,
// grounded on AST.cpp AttrExpr — renamed here to avoid colliding with
// the member-access AttrExpr above, which serves an unrelated role).
type AttrDeclExpr struct {
	RangeVal Range
	Name     string
	Type     Expr
	Get, Set bool
	Depends  []string
}

func (n *AttrDeclExpr) Span() Range { return n.RangeVal }
func (n *AttrDeclExpr) expr()       {}

// UsingExpr is a `using Type` directive bringing a type's members into
// unqualified scope.
type UsingExpr struct {
	RangeVal Range
	Type     Expr
}

func (n *UsingExpr) Span() Range { return n.RangeVal }
func (n *UsingExpr) expr()       {}

// ExternExpr is an `extern name -> Type` declaration describing a
// binding supplied by the host environment rather than defined here.
type ExternExpr struct {
	RangeVal Range
	Name     string
	Type     Expr
}

func (n *ExternExpr) Span() Range { return n.RangeVal }
func (n *ExternExpr) expr()       {}

// ExportExpr is `export Decl`, marking Decl's bound name(s) as visible
// to importers of this file (spec.md §4.5, grounded on AST.cpp
// ExportExpr; only legal at file scope).
type ExportExpr struct {
	RangeVal Range
	Decl     Expr
}

func (n *ExportExpr) Span() Range { return n.RangeVal }
func (n *ExportExpr) expr()       {}

// ImportExpr is `import (* | {names}) from "path"` (spec.md §4.5,
// grounded on AST.cpp ImportExpr). Star is true for the wildcard form;
// Names holds the explicit name list otherwise.
type ImportExpr struct {
	RangeVal Range
	Star     bool
	Names    []string
	From     string
}

func (n *ImportExpr) Span() Range { return n.RangeVal }
func (n *ImportExpr) expr()       {}

// DebugExpr is the `@!debug("probe")` compiler-introspection directive
// (spec.md §9 Supplemented Features, grounded on AST.cpp DebugExpr).
// It has no runtime effect; the resolver dumps internal state matching
// Probe and reports an error (not fatal) for an unrecognized probe.
type DebugExpr struct {
	RangeVal Range
	Probe    string
}

func (n *DebugExpr) Span() Range { return n.RangeVal }
func (n *DebugExpr) expr()       {}

// AnnotateExpr is an Attr: `@ident` or `@ident(expr)` attached to the
// expression that follows it (spec.md §4.3 "Attr" — distinct from the
// member-access AttrExpr and the class-member AttrDeclExpr, both
// above, which serve unrelated roles despite the overlapping name in
// the original grammar).
type AnnotateExpr struct {
	RangeVal Range
	Name     string
	Arg      Expr // nil if the `(expr)` form was not used
	Target   Expr
}

func (n *AnnotateExpr) Span() Range { return n.RangeVal }
func (n *AnnotateExpr) expr()       {}

// ExprStmt wraps an Expr used in statement position. Present only for
// parity with the Stmt category; the parser never actually needs to
// distinguish it from its inner Expr today.
type ExprStmt struct {
	RangeVal Range
	X        Expr
}

func (n *ExprStmt) Span() Range { return n.RangeVal }
func (n *ExprStmt) stmt()       {}
