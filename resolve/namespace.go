package resolve

import "github.com/orrery-lang/orrery/syntax"

// Namespace holds entities by name, allowing more than one entity per
// name (function overloads) — Entity.hpp's Namespace, backed there by
// a std::multimap. owner is the Entity this namespace belongs to (a
// ClassEntity's Members, for example) and is nil for the namespaces
// that make up the lexical scope stack inside a function or block;
// parent is the lexically enclosing scope, nil only for the
// project-wide root namespace (a file's top-level scope is parented on
// it).
type Namespace struct {
	isGlobal bool
	owner    Entity
	parent   *Namespace
	entities map[string][]Entity
	usingNs  []*Namespace
}

// NewNamespace creates an empty namespace. owner may be nil.
func NewNamespace(isGlobal bool, owner Entity, parent *Namespace) *Namespace {
	return &Namespace{isGlobal: isGlobal, owner: owner, parent: parent, entities: make(map[string][]Entity)}
}

// IsGlobal reports whether this is the project-wide root namespace.
func (n *Namespace) IsGlobal() bool { return n.isGlobal }

// Parent returns the lexically enclosing namespace, or nil at the root.
func (n *Namespace) Parent() *Namespace { return n.parent }

// pushEntity adds e under name with no duplicate check (Entity.hpp's
// pushEntity: overload-aware callers are responsible for rejecting
// genuine collisions themselves, which is why duplicate detection in
// this codebase lives in the resolver's declaration handling, not
// here).
func (n *Namespace) pushEntity(name string, e Entity) {
	n.entities[name] = append(n.entities[name], e)
}

// Local returns every entity named name declared directly in this
// namespace, without walking to parent scopes.
func (n *Namespace) Local(name string) []Entity {
	return n.entities[name]
}

// AddUsing registers ns as an additional search root consulted by
// Lookup from this namespace outward (spec.md §4.4 step 3's
// usingNs[]), the effect of a `using Type` directive evaluated in this
// scope.
func (n *Namespace) AddUsing(ns *Namespace) {
	n.usingNs = append(n.usingNs, ns)
}

// Lookup returns every entity named name visible from this namespace,
// walking outward through enclosing scopes until one has a match
// (Entity.hpp's getEntity(name, currentNamespace, testNamespaces, ...)
// cross-scope signature, simplified to "nearest scope that has any
// binding wins" since overload resolution among same-name entities at
// one scope is a separate step done by the caller). Only when no scope
// on the parent chain binds name are the `using`-registered namespaces
// of those same scopes tried, innermost scope first (spec.md §4.4:
// parent chain first, then usingNs[] prefixes).
func (n *Namespace) Lookup(name string) []Entity {
	for cur := n; cur != nil; cur = cur.parent {
		if es := cur.entities[name]; len(es) > 0 {
			return es
		}
	}
	for cur := n; cur != nil; cur = cur.parent {
		for _, u := range cur.usingNs {
			if es := u.Local(name); len(es) > 0 {
				return es
			}
		}
	}
	return nil
}

// All returns every entity declared directly in this namespace, for
// diagnostics such as the `@!debug("entities")` scope dump (spec.md §9
// Supplemented Features).
func (n *Namespace) All() map[string][]Entity { return n.entities }

// makeMember is the Namespace-scoped counterpart to the package-level
// makeEntity: it pushes e into ns but never calls
// applyTypeDefinition — Entity.hpp's makeMember<T> skips that hook
// deliberately, since a class member never needs to reach back out to
// an enclosing namespace the way a top-level declaration might.
func makeMember[T Entity](ns *Namespace, name string, decl syntax.Node, e T) T {
	e.setNamespace(ns)
	e.setName(name)
	e.setDecl(decl)
	ns.pushEntity(name, e)
	return e
}
