// Package namespace implements the Namespace tree and name-resolution
// algorithm of spec.md §3 ("Namespace") and §4.2 (C3). It defines Extractor
// as a minimal interface so that this package has no dependency on the
// concrete extractor implementations in internal/runtime — those implement
// Extractor and depend on namespace, not the other way around, the same
// one-directional layering the teacher uses between internal/symbols and
// internal/evaluator.
package namespace

import (
	"strings"

	"github.com/vrules/valet/internal/diagnostics"
)

// Extractor is the minimal surface every compiled rule exposes to the
// namespace/resolution layer. Concrete behavior (matching) lives on the
// richer interface internal/runtime defines and implements.
type Extractor interface {
	// ExtractorName is the extractor's fully-qualified name, assigned when
	// it is defined in a Namespace.
	ExtractorName() string
}

// Rebinder resolves C9 dynamic rebinding for a single path component,
// consulting the active binding stack (spec.md §4.2 step 1). Implemented
// by internal/binding.Stack.Rebind; kept as a function type here so this
// package need not import internal/binding.
type Rebinder func(component string) (string, bool)

// Namespace is one node in the tree of scopes rule names are resolved in
// (spec.md §3 "Namespace").
type Namespace struct {
	Name       string
	Parent     *Namespace
	Children   map[string]*Namespace
	Local      map[string]Extractor
	SourcePath string
}

// NewRoot creates a fresh root namespace (no parent).
func NewRoot(name string) *Namespace {
	return &Namespace{
		Name:     name,
		Children: make(map[string]*Namespace),
		Local:    make(map[string]Extractor),
	}
}

// NewChild creates and attaches a child namespace under n, or returns the
// existing child of that name if already present (re-imports overwrite
// contents, not the namespace node itself).
func (n *Namespace) NewChild(name string) *Namespace {
	if c, ok := n.Children[name]; ok {
		return c
	}
	c := &Namespace{Name: name, Parent: n, Children: make(map[string]*Namespace), Local: make(map[string]Extractor)}
	n.Children[name] = c
	return c
}

// Define binds name to e in this namespace's local scope. Re-binding a name
// overwrites the previous extractor (spec.md §4.2 invariant).
func (n *Namespace) Define(name string, e Extractor) {
	n.Local[name] = e
}

// Resolve implements spec.md §4.2's resolution algorithm for a reference
// "p1.p2....pk.leaf" occurring during execution of an extractor defined in
// namespace n:
//
//  1. If a binding frame rebinds the first component, substitute it.
//  2. Look up p1 as a child namespace of n; if found, descend and retry
//     with the remaining components.
//  3. Else if p1 is a local extractor and there are no further components,
//     return it.
//  4. Else walk to n.Parent and retry from step 2.
//  5. On reaching root without a hit, fail with UnresolvedName.
func (n *Namespace) Resolve(ref string, rebind Rebinder) (Extractor, error) {
	parts := strings.Split(ref, ".")
	if rebind != nil {
		if to, ok := rebind(parts[0]); ok {
			rebound := strings.Split(to, ".")
			parts = append(rebound, parts[1:]...)
		}
	}
	for scope := n; scope != nil; scope = scope.Parent {
		if e, ok := scope.resolveFrom(parts); ok {
			return e, nil
		}
	}
	return nil, diagnostics.UnresolvedName(ref)
}

// resolveFrom walks child namespaces for parts[0..k-1], then requires
// parts[k] to name a local extractor with no further components.
func (scope *Namespace) resolveFrom(parts []string) (Extractor, bool) {
	cur := scope
	for i, p := range parts {
		last := i == len(parts)-1
		if !last {
			child, ok := cur.Children[p]
			if !ok {
				return nil, false
			}
			cur = child
			continue
		}
		if e, ok := cur.Local[p]; ok {
			return e, true
		}
		// A namespace whose name equals the final component cannot itself
		// stand in for an extractor.
		return nil, false
	}
	return nil, false
}

// ResolveUnqualified looks for a local extractor named ref by climbing
// parent scopes, without descending into child namespaces — used for bare
// single-component references (the common case: no dots, no rebinding
// concerns beyond the top-level Resolve call already applying them).
func (n *Namespace) ResolveUnqualified(ref string) (Extractor, bool) {
	for scope := n; scope != nil; scope = scope.Parent {
		if e, ok := scope.Local[ref]; ok {
			return e, true
		}
	}
	return nil, false
}
