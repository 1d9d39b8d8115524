// Package infer implements whole-program type inference: binding every
// AST node in a module (and its transitive imports) to an object.Value
// referent, resolving operator dispatch, generic specialization, and
// call-graph edges along the way. Grounded on analyzer.py's
// InferenceVisitor and its annotate_types dependency-retry driver in
// the retrieved original implementation.
package infer

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// Referents is the side table mapping an AST node's identity to the
// object.Value inference assigned it. Kept off the AST nodes
// themselves per the composition-over-inheritance design note: a
// node's shape never changes across passes, only what this table says
// about it.
type Referents struct {
	m map[ast.Node]object.Value
}

func NewReferents() *Referents { return &Referents{m: make(map[ast.Node]object.Value)} }

func (r *Referents) Set(n ast.Node, v object.Value) { r.m[n] = v }
func (r *Referents) Get(n ast.Node) (object.Value, bool) {
	v, ok := r.m[n]
	return v, ok
}

// pending signals that finishing the current node requires some other
// Function or GenericClass specialization to complete analysis first.
// It is the Go analogue of DependencyError: caught by the driver, never
// by ordinary error-handling callers.
type pending struct {
	on      string
	fn      *object.Function
	gen     *object.GenericClass
	genArgs []object.Value
}

func (p *pending) Error() string { return fmt.Sprintf("pending analysis of %s", p.on) }

// Program holds every module under analysis plus their shared
// referents table and builtins scope.
type Program struct {
	Modules   map[string]*object.Module
	Refs      *Referents
	Builtins  *object.ModuleScope
}

func NewProgram(builtinsScope *object.ModuleScope) *Program {
	return &Program{
		Modules:  make(map[string]*object.Module),
		Refs:     NewReferents(),
		Builtins: builtinsScope,
	}
}

// Analyze runs the dependency-retry driver over every Function and
// GenericClass specialization reachable from entry, to a fixed point.
// Each round attempts every unanalyzed function in turn; one that
// raises a pending signal is deferred to the next round. No dependency
// edges are recorded and retries are not topologically ordered: a
// round in which nothing progresses reports the first deferred
// function, not the cycle, and at most 64 rounds are run.
func (p *Program) Analyze(entry *object.Module) error {
	funcs := collectFunctions(entry, p.Modules)

	const maxRounds = 64
	for round := 0; round < maxRounds; round++ {
		progressed := false
		var deferred []*object.Function
		for _, fn := range funcs {
			if fn.Analyzed() {
				continue
			}
			v := newVisitor(p)
			err := v.analyzeFunction(fn)
			if err == nil {
				fn.MarkAnalyzed()
				progressed = true
				continue
			}
			if pend, ok := err.(*pending); ok {
				deferred = append(deferred, fn)
				if pend.gen != nil {
					if _, ok := pend.gen.Lookup(pend.genArgs); !ok {
						if _, newFuncs, buildErr := p.specialize(pend.gen, pend.genArgs); buildErr == nil {
							deferred = append(deferred, newFuncs...)
							progressed = true
						}
					} else {
						progressed = true
					}
				}
				continue
			}
			return err
		}
		funcs = dedupFuncs(deferred)
		if len(funcs) == 0 {
			return nil
		}
		if !progressed {
			// No function in this round finished, and another round
			// would not change that: report the first unresolved
			// dependency rather than spin to maxRounds.
			return fmt.Errorf("unresolved dependency cycle analyzing %s", funcs[0].Name)
		}
	}
	return fmt.Errorf("type inference did not converge after %d rounds", maxRounds)
}

func dedupFuncs(in []*object.Function) []*object.Function {
	seen := make(map[*object.Function]bool, len(in))
	out := make([]*object.Function, 0, len(in))
	for _, fn := range in {
		if seen[fn] {
			continue
		}
		seen[fn] = true
		out = append(out, fn)
	}
	return out
}

func collectFunctions(entry *object.Module, all map[string]*object.Module) []*object.Function {
	var out []*object.Function
	seen := make(map[*object.Module]bool)
	var walk func(m *object.Module)
	walk = func(m *object.Module) {
		if seen[m] {
			return
		}
		seen[m] = true
		out = append(out, flattenModuleFunctions(m)...)
		for _, imp := range m.Imported {
			walk(imp)
		}
	}
	walk(entry)
	return out
}

// flattenModuleFunctions yields every Function bound in a module's own
// top-level scope, including methods reachable through classes bound
// there — the Go analogue of analyzer.py's flatten_objects.
func flattenModuleFunctions(m *object.Module) []*object.Function {
	var out []*object.Function
	for _, name := range m.Scope.Names() {
		v, _ := m.Scope.Lookup(name)
		switch val := v.(type) {
		case *object.Function:
			out = append(out, val)
		case *object.Class:
			out = append(out, classMethods(val)...)
		}
	}
	return out
}

func classMethods(c *object.Class) []*object.Function {
	var out []*object.Function
	for _, name := range c.Scope.Names() {
		if v, ok := c.Scope.Lookup(name); ok {
			if fn, ok := v.(*object.Function); ok {
				out = append(out, fn)
			}
		}
	}
	return out
}
