// Package emit implements the Emitter: it walks one module's AST a
// second time (after Type Inference and the Call-Graph Pruner have
// run) and prints target-language source, consulting the Referents
// table built during inference to resolve every Name/Attribute/Call
// to the object it denotes instead of re-deriving it. Grounded on
// Transpiler(ast._Unparser) and HydrateGenerator in transpiler.py.
package emit

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/infer"
	"github.com/duallang/duoc/object"
	"github.com/duallang/duoc/reach"
)

// Importer formats one module's import statement given the imported
// module's name and the reachable names pulled from it. A nil
// Importer falls back to native ES module `import { a, b } from
// './mod.js'` syntax; the Bundler supplies the module-registry-style
// closure for loader-runtime bundle mode.
type Importer func(module string, names []string) string

// Exporter formats one top-level name's export statement. A nil
// Exporter prefixes class/function definitions with `export`
// directly instead (native ES module mode); the Bundler supplies the
// registry-style closure (`__export_js__.name = name;`) for loader
// mode.
type Exporter func(name string) string

// Emitter prints one module's target-language source.
type Emitter struct {
	w         *Writer
	refs      *infer.Referents
	reachable *reach.Set
	importer  Importer
	exporter  Exporter
}

func New(refs *infer.Referents, reachable *reach.Set, importer Importer, exporter Exporter) *Emitter {
	return &Emitter{w: NewWriter(), refs: refs, reachable: reachable, importer: importer, exporter: exporter}
}

func (e *Emitter) referent(n ast.Node) (object.Value, bool) {
	return e.refs.Get(n)
}

// included reports whether a top-level binding survived call-graph
// pruning, and so should actually be emitted.
func (e *Emitter) included(v object.Value) bool {
	if e.reachable == nil {
		return true
	}
	switch val := v.(type) {
	case *object.Function:
		return e.reachable.Funcs[val]
	case *object.Class:
		return e.reachable.Classes[val]
	case *object.GenericClass:
		for _, cls := range val.Specializations() {
			if e.reachable.Classes[cls] {
				return true
			}
		}
		return false
	}
	return true
}

// EmitModule prints one module's whole translated source, given the
// parsed file it was built from (for declaration order and source
// text) and the Module itself (for import-table and scope lookups).
func EmitModule(file *ast.File, mod *object.Module, refs *infer.Referents, reachable *reach.Set, importer Importer, exporter Exporter) (string, error) {
	e := New(refs, reachable, importer, exporter)
	if err := e.emitModule(file, mod); err != nil {
		return "", err
	}
	return e.w.String(), nil
}

func (e *Emitter) emitModule(file *ast.File, mod *object.Module) error {
	for importedName, importedMod := range mod.Imported {
		names := e.reachableNamesOf(importedMod)
		if len(names) == 0 {
			continue
		}
		if e.importer != nil {
			e.w.Fill(e.importer(importedName, names))
		} else {
			e.w.Fill(fmt.Sprintf("import { %s } from './%s.js';", joinComma(names), importedName))
		}
	}
	for _, stmt := range file.Body {
		switch n := stmt.(type) {
		case *ast.ClassDef:
			v, ok := mod.Scope.Lookup(n.Name)
			if !ok || !e.included(v) {
				continue
			}
			if gen, ok := v.(*object.GenericClass); ok {
				for _, cls := range gen.Specializations() {
					if e.reachable == nil || e.reachable.Classes[cls] {
						if err := e.emitClass(cls); err != nil {
							return err
						}
					}
				}
				continue
			}
			cls, ok := v.(*object.Class)
			if !ok {
				continue
			}
			if err := e.emitClass(cls); err != nil {
				return err
			}
		case *ast.FunctionDef:
			v, ok := mod.Scope.Lookup(n.Name)
			if !ok || !e.included(v) {
				continue
			}
			fn, ok := v.(*object.Function)
			if !ok {
				continue
			}
			if err := e.emitFunction(fn, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) reachableNamesOf(mod *object.Module) []string {
	var out []string
	for _, name := range mod.Scope.Names() {
		v, ok := mod.Scope.Lookup(name)
		if ok && e.included(v) {
			out = append(out, name)
		}
	}
	return out
}

func joinComma(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
