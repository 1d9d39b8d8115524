// Package compile wires the pipeline stages — AST Ingest, Type
// Inference, the Call-Graph Pruner, the Emitter, and the Bundler —
// into one invocation. Grounded on analyzer.py's own top-level
// analyze_module/compile entry point, which threads the same
// builtins scope and a fresh per-run cache through every stage.
package compile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/builtins"
	"github.com/duallang/duoc/bundle"
	"github.com/duallang/duoc/diagnostics"
	"github.com/duallang/duoc/domx"
	"github.com/duallang/duoc/emit"
	"github.com/duallang/duoc/infer"
	"github.com/duallang/duoc/object"
	"github.com/duallang/duoc/reach"
)

// Session scopes a single invocation's module-parse cache, builtins
// scope, and generic-specialization state, matching the distilled
// specification's requirement that nothing process-global is mutated
// across runs except the Builtins Registry, which NewSession replaces.
type Session struct {
	builtins *object.ModuleScope
	cache    map[string]*parsedModule
}

type parsedModule struct {
	file *ast.File
	mod  *object.Module
}

// NewSession builds a fresh builtins scope (core types plus the DOM
// runtime shim registry) for one compiler invocation. Every call
// rebuilds the Builtins Registry and installs it as object.Builtins,
// replacing the one an earlier Session installed; each Session also
// gets its own module-parse cache.
func NewSession() *Session {
	builtins := builtins.Load()
	domx.Load(builtins)
	return &Session{builtins: builtins, cache: make(map[string]*parsedModule)}
}

// Result is one compiled entry point: its bundled source (keyed by
// module name for Native mode, or a single "bundle" key for Loader
// mode) and the harvested style-class set for CSS generation.
// Compile does not fill Diagnostics: a failure is returned as
// Compile's error instead of a Result.
type Result struct {
	Bundle       map[string]string
	StyleClasses map[string]bool
	Diagnostics  []*diagnostics.Error
}

// Compile parses the single source file at modulePath, runs it through
// inference and pruning from entryFunc, and emits the requested Bundler
// mode. Import statements are rejected by ast.Parse, so no other module
// is loaded and the bundle holds this one module only.
func (s *Session) Compile(modulePath, entryFunc string, mode bundle.Mode) (*Result, error) {
	pm, moduleName, err := s.parse(modulePath)
	if err != nil {
		return nil, diagnostics.New(diagnostics.NameResolution, modulePath, ast.Range{}, "%s", err)
	}

	prog := infer.NewProgram(s.builtins)
	prog.Modules[moduleName] = pm.mod
	if err := prog.Analyze(pm.mod); err != nil {
		return nil, diagnostics.New(diagnostics.TypeUnderspecified, modulePath, ast.Range{}, "%s", err)
	}

	entryVal, ok := pm.mod.Scope.Lookup(entryFunc)
	if !ok {
		return nil, diagnostics.New(diagnostics.NameResolution, modulePath, ast.Range{},
			"entry point %q not found in %s", entryFunc, moduleName)
	}
	entryFn, ok := entryVal.(*object.Function)
	if !ok {
		return nil, diagnostics.New(diagnostics.NameResolution, modulePath, ast.Range{},
			"entry point %q is not a function", entryFunc)
	}

	var allModules []*object.Module
	for _, m := range prog.Modules {
		allModules = append(allModules, m)
	}
	reachable := reach.FromEntryPoint(entryFn, allModules, prog.Refs)

	var importer emit.Importer
	var exporter emit.Exporter
	if mode == bundle.Loader {
		importer = bundle.LoaderImporter
		exporter = bundle.LoaderExporter
	}

	source, err := emit.EmitModule(pm.file, pm.mod, prog.Refs, reachable, importer, exporter)
	if err != nil {
		return nil, diagnostics.New(diagnostics.UnsupportedConstruct, modulePath, ast.Range{}, "%s", err)
	}

	packages := []bundle.Package{{Name: moduleName, Source: source}}
	res := &Result{StyleClasses: reachable.StyleClasses}
	switch mode {
	case bundle.Native:
		res.Bundle = bundle.BuildNative(packages)
	default:
		res.Bundle = map[string]string{"bundle": bundle.Build(packages, moduleName, entryFunc, true)}
	}
	return res, nil
}

// parse loads and caches one source file's AST and bound Module,
// deriving a module name from the file's base name (minus extension)
// the way analyze_module derives one from its path argument.
func (s *Session) parse(path string) (*parsedModule, string, error) {
	moduleName := moduleNameOf(path)
	if pm, ok := s.cache[path]; ok {
		return pm, moduleName, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := ast.Parse(moduleName, src)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", path, err)
	}
	mod, err := infer.BuildModule(file)
	if err != nil {
		return nil, "", err
	}
	pm := &parsedModule{file: file, mod: mod}
	s.cache[path] = pm
	return pm, moduleName, nil
}

func moduleNameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
