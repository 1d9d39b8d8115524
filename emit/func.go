package emit

import (
	"fmt"
	"strings"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// emitFunction prints one function or method definition. topLevel is
// true for a module-level function (eligible for the bare `export`
// prefix in native-module mode); methods are never so prefixed.
// Grounded on Transpiler._function_helper.
func (e *Emitter) emitFunction(fn *object.Function, topLevel bool) error {
	fd, ok := fn.Decl.(*ast.FunctionDef)
	if !ok {
		return fmt.Errorf("function %s has no declaration", fn.Name)
	}

	isCustomElementInit := fn.Name == "__init__" && fn.IsMethod && fn.Owner != nil &&
		(fn.Owner.CustomElementKind() || fn.Owner.ProxyElementKind()) &&
		fn.Owner.Name != "CustomElement"

	var defStr string
	switch {
	case isCustomElementInit:
		defStr = "_create"
	case fn.Name == "__init__":
		defStr = "constructor"
	case fn.IsMethod:
		if fn.IsStatic {
			defStr = "static "
		}
		defStr += fn.Name
	default:
		prefix := "function "
		if e.exporter == nil && topLevel {
			prefix = "export function "
		}
		defStr = prefix + fn.Name
	}

	e.w.Fill(defStr)
	e.w.Write("(")
	e.emitArguments(fn, fd.Args)
	e.w.Write(")")

	var bodyErr error
	e.w.Block(func() {
		if fn.HasSourceDeco {
			for _, line := range strings.Split(fn.InlineSource, "\n") {
				if strings.TrimSpace(line) != "" {
					e.w.Fill(line)
				}
			}
			return
		}
		for _, s := range fd.Body {
			if err := e.emitStmt(s); err != nil {
				bodyErr = err
				return
			}
		}
		if isCustomElementInit {
			e.w.Fill("return this;")
		}
	})
	if bodyErr != nil {
		return bodyErr
	}

	if isCustomElementInit && fn.Owner.CustomElementKind() {
		e.generateBindMethod(fn, fd)
	}
	if e.exporter != nil && topLevel {
		e.w.Fill(e.exporter(fn.Name))
	}
	return nil
}

// emitArguments prints a parameter list, bagging every defaulted
// positional parameter into a trailing destructured `{ x=1 } = {}`
// options object, matching Transpiler.visit_arguments. The receiver
// parameter (element 0 for a non-static method) is skipped positionally
// rather than by name, mirroring bindParams' own `start` computation —
// `self`/`cls` never become explicit JS parameters since the method
// becomes a real JS method with an implicit `this`.
func (e *Emitter) emitArguments(fn *object.Function, args ast.Arguments) {
	start := 0
	if fn.IsMethod && !fn.IsStatic && len(args.Args) > 0 {
		start = 1
	}
	first := true
	startedDefaults := false
	for i, a := range args.Args {
		if i < start {
			continue
		}
		if !first {
			e.w.Write(", ")
		}
		first = false
		if a.Default != nil && !startedDefaults {
			startedDefaults = true
			e.w.Write("{ ")
		}
		e.w.Write(a.Name)
		if a.Default != nil {
			e.w.Write("=")
			e.emitExpr(a.Default)
		}
		if i == len(args.Args)-1 && startedDefaults {
			e.w.Write(" } = {}")
		}
	}
	if args.Vararg != nil {
		if !first {
			e.w.Write(", ")
		}
		e.w.Write("..." + args.Vararg.Name)
	}
}
