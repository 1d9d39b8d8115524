// Package object is duoc's object model: the scope tree and semantic
// values (Module, Class, GenericClass, Function, Instance, UnionType)
// that Type Inference binds AST nodes to. Referents live in a side
// table keyed by AST node identity (see package infer) rather than on
// the nodes themselves, so this package has no dependency on package ast.
package object

// Scope is a name binding environment. Lookup walks the lexical chain
// (Parent) and finally falls back to Builtins, mirroring ModuleScope's
// BUILTINS fallback in the reference implementation.
type Scope interface {
	// Lookup resolves name in this scope or an enclosing one, falling
	// back to Builtins at the root. ok is false if name is unbound.
	Lookup(name string) (Value, bool)
	// Define binds name in this scope only.
	Define(name string, v Value)
	// Parent is the lexically enclosing scope, or nil at module scope.
	Parent() Scope
}

// Builtins is the process-global, write-once registry every scope
// chain falls back to. It is populated once by package builtins at
// program start and never mutated afterward.
var Builtins Scope

type baseScope struct {
	vars   map[string]Value
	parent Scope
}

func newBaseScope(parent Scope) baseScope {
	return baseScope{vars: make(map[string]Value), parent: parent}
}

func (s *baseScope) Define(name string, v Value) { s.vars[name] = v }
func (s *baseScope) Parent() Scope                { return s.parent }

// Names lists every name bound directly in this scope (not its
// ancestors), used by inference to flatten a module or class into its
// constituent functions for the dependency-retry driver.
func (s *baseScope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for n := range s.vars {
		names = append(names, n)
	}
	return names
}

func (s *baseScope) lookupLocal(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

func (s *baseScope) lookupChain(name string) (Value, bool) {
	if v, ok := s.lookupLocal(name); ok {
		return v, true
	}
	for scope := s.parent; scope != nil; scope = scope.Parent() {
		if bs, ok := scope.(interface{ lookupLocal(string) (Value, bool) }); ok {
			if v, ok := bs.lookupLocal(name); ok {
				return v, true
			}
		}
	}
	if Builtins != nil {
		if b, ok := Builtins.(interface{ lookupLocal(string) (Value, bool) }); ok {
			return b.lookupLocal(name)
		}
		return Builtins.Lookup(name)
	}
	return nil, false
}

// ModuleScope is the top-level scope of one Module. Its parent is nil:
// lookup misses fall straight through to Builtins.
type ModuleScope struct{ baseScope }

func NewModuleScope() *ModuleScope {
	return &ModuleScope{baseScope: newBaseScope(nil)}
}

func (s *ModuleScope) Lookup(name string) (Value, bool) { return s.lookupChain(name) }

// ClassScope holds a class body's own namespace (methods, class
// variables); its parent is the enclosing module scope.
type ClassScope struct {
	baseScope
	Owner *Class
}

func NewClassScope(parent Scope, owner *Class) *ClassScope {
	return &ClassScope{baseScope: newBaseScope(parent), Owner: owner}
}

func (s *ClassScope) Lookup(name string) (Value, bool) { return s.lookupChain(name) }

// FunctionScope holds one function's parameters and locals.
type FunctionScope struct {
	baseScope
	Owner *Function
}

func NewFunctionScope(parent Scope, owner *Function) *FunctionScope {
	return &FunctionScope{baseScope: newBaseScope(parent), Owner: owner}
}

func (s *FunctionScope) Lookup(name string) (Value, bool) { return s.lookupChain(name) }

// LocalScope is a narrowed child scope opened by `assert isinstance(...)`
// or an `if`/`elif` branch whose condition narrows a name's type. It
// shadows bindings without mutating the parent scope, so narrowing
// never leaks past the block that established it.
type LocalScope struct {
	baseScope
}

func NewLocalScope(parent Scope) *LocalScope {
	return &LocalScope{baseScope: newBaseScope(parent)}
}

func (s *LocalScope) Lookup(name string) (Value, bool) { return s.lookupChain(name) }
