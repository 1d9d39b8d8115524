package infer

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// specialize builds the concrete Class for one GenericClass
// instantiation by re-walking the generic class's declaration with its
// type parameters bound to args, the Go analogue of
// GenericClass.__call__'s eager "build it now" behavior (the original
// builds the specialization in its own __call__, then raises
// DependencyError so the caller retries once it's ready — here the
// build and the cache write happen together and the caller simply
// retries on the next round).
func (p *Program) specialize(gen *object.GenericClass, args []object.Value) (*object.Class, []*object.Function, error) {
	decl, ok := gen.Decl.(*ast.ClassDef)
	if !ok {
		return nil, nil, fmt.Errorf("generic class %s has no declaration", gen.Name)
	}
	var newFuncs []*object.Function
	cls := gen.Specialize(args, func(name string) *object.Class {
		c := object.NewClass(name, gen.Scope.Parent(), gen.Super)
		c.Decl = decl
		for i, tp := range gen.TypeParams {
			if i < len(args) {
				c.Scope.Define(tp, args[i])
			}
		}
		for _, stmt := range decl.Body {
			fd, ok := stmt.(*ast.FunctionDef)
			if !ok {
				continue
			}
			fn := object.NewFunction(fd.Name, c.Scope)
			fn.Decl = fd
			fn.Owner = c
			fn.IsMethod = true
			c.Scope.Define(fd.Name, fn)
			newFuncs = append(newFuncs, fn)
		}
		return c
	})
	return cls, newFuncs, nil
}
