package infer

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// BuildModule converts one parsed file into a Module: every top-level
// ClassDef becomes a Class (or, with type parameters, a GenericClass)
// and every top-level FunctionDef becomes a Function, each bound into
// the module's scope. Class bodies are built in the same two passes
// the reference implementation's Module.build uses — first every
// class/function name is bound (so forward references and mutual
// recursion resolve), then each class's own body is populated — since
// a class can reference a sibling declared later in the same file.
func BuildModule(file *ast.File) (*object.Module, error) {
	mod := object.NewModule(file.Name)

	type pendingClass struct {
		decl *ast.ClassDef
		cls  *object.Class
		gen  *object.GenericClass
	}
	var classes []pendingClass

	for _, stmt := range file.Body {
		switch n := stmt.(type) {
		case *ast.ClassDef:
			if len(n.TypeParams) > 0 {
				gen := object.NewGenericClass(n.Name, mod.Scope, n.TypeParams)
				gen.Decl = n
				mod.Scope.Define(n.Name, gen)
				classes = append(classes, pendingClass{decl: n, gen: gen})
				continue
			}
			cls := object.NewClass(n.Name, mod.Scope, nil)
			cls.Decl = n
			mod.Scope.Define(n.Name, cls)
			classes = append(classes, pendingClass{decl: n, cls: cls})
		case *ast.FunctionDef:
			fn := object.NewFunction(n.Name, mod.Scope)
			fn.Decl = n
			mod.Scope.Define(n.Name, fn)
		}
	}

	for _, pc := range classes {
		if pc.gen != nil {
			continue // specialized lazily by inference, once type args are known
		}
		if pc.decl.Base != "" {
			base, ok := mod.Scope.Lookup(pc.decl.Base)
			if !ok {
				return nil, fmt.Errorf("%s: unresolved base class %q for %s", file.Name, pc.decl.Base, pc.decl.Name)
			}
			super, ok := base.(*object.Class)
			if !ok {
				return nil, fmt.Errorf("%s: base %q of %s is not a class", file.Name, pc.decl.Base, pc.decl.Name)
			}
			pc.cls.Super = super
		}
		populateClassBody(pc.cls, pc.decl)
	}

	return mod, nil
}

func populateClassBody(cls *object.Class, decl *ast.ClassDef) {
	for _, stmt := range decl.Body {
		fd, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		fn := object.NewFunction(fd.Name, cls.Scope)
		fn.Decl = fd
		fn.Owner = cls
		fn.IsMethod = true
		for _, d := range fd.Decorators {
			applyDecorator(fn, d)
		}
		cls.Scope.Define(fd.Name, fn)
	}
}

// applyDecorator reads the well-known decorator names the object model
// cares about: staticmethod, classmethod, nojs, and js(include=...).
// Every other decorator name is ignored, and no other pass reads a
// FunctionDef's Decorators list, so no rewriter or include hook is
// taken from any other decorator.
func applyDecorator(fn *object.Function, d ast.Decorator) {
	switch d.Name {
	case "staticmethod":
		fn.IsStatic = true
	case "classmethod":
		fn.IsClassMethod = true
	case "nojs":
		fn.ForceInclude = false
	case "js":
		for _, kw := range d.Keywords {
			if kw.Arg == "include" {
				fn.ForceInclude = true
			}
		}
	}
}
