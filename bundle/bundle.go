// Package bundle implements the Bundler: combining every reachable
// module's emitted source into one of two output shapes (a
// module-registry runtime loader, or plain native ES modules), plus
// Tailwind-style CSS generation from the harvested style-class set.
// Grounded on original_source/pyjs/transpiler/transpiler.py's
// bundle()/prepare_bundle() and utils.py's TailwindCSS.
package bundle

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Mode selects the Bundler's output shape.
type Mode int

const (
	// Loader emits a self-contained script: a small `define`/
	// `importModule` runtime followed by every module wrapped in a
	// `define(name, function(exports, importModule) {...})` factory,
	// closing with a call into the entry point module. Matches
	// bundle()'s own literal runtime preamble.
	Loader Mode = iota
	// Native emits plain ES module source per file, relying on the
	// target runtime's own `import`/`export` statements (the Importer/
	// Exporter callback pair threaded through the Emitter does the
	// actual rewriting; this mode just skips the loader preamble).
	Native
)

const loaderPreamble = `const modules = new Map();
const define = (name, moduleFactory) => {
  modules.set(name, moduleFactory);
};
const moduleCache = new Map();
const importModule = (name) => {
  if (moduleCache.has(name)) {
    return moduleCache.get(name).exports;
  }
  if (!modules.has(name)) {
    throw new Error(` + "`Module '${name}' does not exist.`" + `);
  }
  const moduleFactory = modules.get(name);
  const module = {exports: {}};
  moduleCache.set(name, module);
  moduleFactory(module.exports, importModule);
  return module.exports;
};
`

// Package is one compiled module's name and its emitted source, in
// the dependency order the caller built them in (the entry point's
// own module, and everything it transitively imports).
type Package struct {
	Name   string
	Source string
}

// LoaderImporter/LoaderExporter are the Importer/Exporter callbacks
// package emit threads through module emission for Loader mode,
// rewriting cross-module references to `importModule` calls into the
// registry this package's preamble defines.
func LoaderImporter(module string, names []string) string {
	return fmt.Sprintf("const {%s} = __import_js__(%q);", strings.Join(names, ", "), module)
}

func LoaderExporter(name string) string {
	return fmt.Sprintf("__export_js__.%s = %s;", name, name)
}

// Build assembles Loader-mode output: the runtime preamble, every
// package wrapped in its own `define` factory, and a trailing call
// into the entry module (optionally invoking its own exported entry
// function when includeMain requests the `.entry()` call suffix).
func Build(packages []Package, entryModule, entryFunc string, includeMain bool) string {
	var b strings.Builder
	b.WriteString(loaderPreamble)
	for _, pkg := range packages {
		if pkg.Source == "" {
			continue
		}
		fmt.Fprintf(&b, "define(%q, function (__export_js__, __import_js__) {\n", pkg.Name)
		b.WriteString(pkg.Source)
		b.WriteString("\n});\n")
	}
	fmt.Fprintf(&b, "importModule(%q)", entryModule)
	if includeMain {
		fmt.Fprintf(&b, ".%s()", entryFunc)
	}
	b.WriteString(";\n")
	return b.String()
}

// BuildNative returns Native-mode sources as a map from module name to
// source, each file already carrying its own `import`/`export`
// statements from the Emitter (no runtime registry needed); the
// sources are not concatenated.
func BuildNative(packages []Package) map[string]string {
	out := make(map[string]string, len(packages))
	for _, pkg := range packages {
		out[pkg.Name] = pkg.Source
	}
	return out
}

// TailwindCSS shells out to a tailwindcss-compatible binary to turn a
// harvested set of utility-class tokens into the CSS that actually
// defines them, exactly as utils.py's TailwindCSS.get_css does: build
// a throwaway HTML fragment referencing every class, pipe it to the
// binary's stdin, capture stdout. This is the one legitimately
// os/exec-only seam: no example repo wires a process-invocation
// library for shelling out, since os/exec already is the idiomatic
// way to do it in Go.
type TailwindCSS struct {
	Bin string // defaults to "tailwindcss"
}

func (t TailwindCSS) bin() string {
	if t.Bin == "" {
		return "tailwindcss"
	}
	return t.Bin
}

// GetCSS runs the configured binary against a synthetic fragment
// referencing every class in classes, returning its generated CSS.
func (t TailwindCSS) GetCSS(classes map[string]bool) (string, error) {
	names := make([]string, 0, len(classes))
	for c := range classes {
		names = append(names, c)
	}
	fragment := fmt.Sprintf(`<div class="%s"></div>`, strings.Join(names, " "))

	cmd := exec.Command(t.bin(), "--content", "-")
	cmd.Stdin = strings.NewReader(fragment)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tailwind CLI failed: %w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}
