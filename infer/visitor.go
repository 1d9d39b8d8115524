package infer

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/builtins"
	"github.com/duallang/duoc/object"
)

// visitor walks one function body at a time, binding every node it
// sees into the shared Referents table. It holds no state that
// survives past a single analyzeFunction call except what it writes
// into Referents and the Function's own Params/Return.
type visitor struct {
	p     *Program
	scope object.Scope
	fn    *object.Function
}

func newVisitor(p *Program) *visitor { return &visitor{p: p} }

func (v *visitor) analyzeFunction(fn *object.Function) error {
	fn.Reset()
	v.fn = fn
	v.scope = fn.Scope

	decl, ok := fn.Decl.(*ast.FunctionDef)
	if !ok {
		return nil // builtin: metadata only, no body to walk
	}
	if err := v.bindParams(decl); err != nil {
		return err
	}
	for _, s := range decl.Body {
		if err := v.visitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (v *visitor) bindParams(decl *ast.FunctionDef) error {
	args := decl.Args.Args
	start := 0
	if v.fn.IsMethod && !v.fn.IsStatic && len(args) > 0 {
		name := args[0].Name
		var recv object.Value
		if v.fn.IsClassMethod {
			recv = v.fn.Owner
		} else {
			recv = v.fn.Owner.Self()
		}
		v.fn.AddSelf(name, recv)
		v.fn.Params = append(v.fn.Params, object.Param{Name: name, Annotation: recv})
		start = 1
	}
	for _, a := range args[start:] {
		var ann object.Value
		var err error
		if a.Annotation != nil {
			ann, err = v.resolveAnnotation(a.Annotation)
			if err != nil {
				return err
			}
		} else if a.Default != nil {
			ann, err = v.visitExpr(a.Default)
			if err != nil {
				return err
			}
		} else {
			return fmt.Errorf("parameter %q has neither an annotation nor a default", a.Name)
		}
		v.scope.Define(a.Name, ann)
		v.fn.Params = append(v.fn.Params, object.Param{Name: a.Name, Annotation: ann, HasDefault: a.Default != nil})
	}
	if decl.Args.Vararg != nil {
		elem := object.Value(builtins.Object)
		if decl.Args.Vararg.Annotation != nil {
			if t, err := v.resolveAnnotation(decl.Args.Vararg.Annotation); err == nil {
				elem = t
			}
		}
		p := object.Param{Name: decl.Args.Vararg.Name, Annotation: elem}
		v.fn.Vararg = &p
		v.scope.Define(p.Name, builtins.Tuple)
	}
	if decl.Args.Kwarg != nil {
		p := object.Param{Name: decl.Args.Kwarg.Name, Annotation: builtins.Object}
		v.fn.Kwarg = &p
		v.scope.Define(p.Name, builtins.Dict)
	}
	if decl.Returns != nil {
		ret, err := v.resolveAnnotation(decl.Returns)
		if err != nil {
			return err
		}
		v.fn.Return = ret
	}
	return nil
}

// resolveAnnotation evaluates a type-annotation expression: a bare
// Name/Attribute lookup, a Subscript for a generic instantiation, or a
// BitOr chain for a union annotation.
func (v *visitor) resolveAnnotation(e ast.Expr) (object.Value, error) {
	switch n := e.(type) {
	case *ast.Name:
		val, ok := v.scope.Lookup(n.Id)
		if !ok {
			return nil, fmt.Errorf("unresolved type name %q", n.Id)
		}
		return val, nil
	case *ast.Attribute:
		return v.visitExpr(n)
	case *ast.Subscript:
		base, err := v.resolveAnnotation(n.Value)
		if err != nil {
			return nil, err
		}
		gen, ok := base.(*object.GenericClass)
		if !ok {
			return base, nil
		}
		var args []object.Value
		if tuple, ok := n.Slice.(*ast.TupleExpr); ok {
			for _, el := range tuple.Elts {
				a, err := v.resolveAnnotation(el)
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
		} else {
			a, err := v.resolveAnnotation(n.Slice)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		if cls, ok := gen.Lookup(args); ok {
			return cls, nil
		}
		return nil, &pending{on: gen.Name, gen: gen, genArgs: args}
	case *ast.BinOp:
		if n.Op != ast.BitOr {
			return nil, fmt.Errorf("unsupported annotation expression")
		}
		left, err := v.resolveAnnotation(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := v.resolveAnnotation(n.Right)
		if err != nil {
			return nil, err
		}
		u := object.NewUnionType()
		u.Add(left)
		u.Add(right)
		return u, nil
	case *ast.Constant:
		if n.Kind == ast.ConstNone {
			return builtins.NoneType, nil
		}
	}
	return nil, fmt.Errorf("unsupported annotation expression")
}
