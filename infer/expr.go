package infer

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/builtins"
	"github.com/duallang/duoc/object"
)

func (v *visitor) visitExpr(e ast.Expr) (object.Value, error) {
	val, err := v.visitExprInner(e)
	if err != nil {
		return nil, err
	}
	v.p.Refs.Set(e, val)
	return val, nil
}

func (v *visitor) visitExprInner(e ast.Expr) (object.Value, error) {
	switch n := e.(type) {
	case *ast.Name:
		return v.visitName(n)
	case *ast.Attribute:
		return v.visitAttribute(n)
	case *ast.Subscript:
		return v.visitSubscript(n)
	case *ast.Call:
		return v.visitCall(n)
	case *ast.BinOp:
		left, err := v.visitExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := v.visitExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return v.dispatchBinOp(n, left, right, n.Op)
	case *ast.BoolOp:
		u := object.NewUnionType()
		for _, val := range n.Values {
			t, err := v.visitExpr(val)
			if err != nil {
				return nil, err
			}
			u.Add(t)
		}
		return u, nil
	case *ast.UnaryOp:
		operand, err := v.visitExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		if n.Op == ast.Not {
			if _, err := v.dispatchUnary(n, operand, ast.Not); err != nil {
				return nil, err
			}
			return builtins.Bool, nil
		}
		return v.dispatchUnary(n, operand, n.Op)
	case *ast.Compare:
		left, err := v.visitExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := v.visitExpr(n.Comparator)
		if err != nil {
			return nil, err
		}
		if _, err := v.dispatchCompare(n, left, right, n.Op); err != nil {
			return nil, err
		}
		return builtins.Bool, nil
	case *ast.Constant:
		return v.constantType(n), nil
	case *ast.List:
		for _, el := range n.Elts {
			if _, err := v.visitExpr(el); err != nil {
				return nil, err
			}
		}
		return builtins.List, nil
	case *ast.SetExpr:
		for _, el := range n.Elts {
			if _, err := v.visitExpr(el); err != nil {
				return nil, err
			}
		}
		return builtins.List, nil
	case *ast.TupleExpr:
		for _, el := range n.Elts {
			if _, err := v.visitExpr(el); err != nil {
				return nil, err
			}
		}
		return builtins.Tuple, nil
	case *ast.Dict:
		for _, ent := range n.Entries {
			if ent.Key != nil {
				if _, err := v.visitExpr(ent.Key); err != nil {
					return nil, err
				}
			}
			if _, err := v.visitExpr(ent.Value); err != nil {
				return nil, err
			}
		}
		return builtins.Dict, nil
	case *ast.Starred:
		return v.visitExpr(n.Value)
	case *ast.IfExp:
		if _, err := v.visitExpr(n.Test); err != nil {
			return nil, err
		}
		body, err := v.visitExpr(n.Body)
		if err != nil {
			return nil, err
		}
		orelse, err := v.visitExpr(n.OrElse)
		if err != nil {
			return nil, err
		}
		u := object.NewUnionType()
		u.Add(body)
		u.Add(orelse)
		return u, nil
	case *ast.ListComp:
		return v.visitListComp(n)
	case *ast.Lambda:
		return v.visitLambda(n)
	case *ast.JoinedStr:
		for _, part := range n.Values {
			if _, err := v.visitExpr(part); err != nil {
				return nil, err
			}
		}
		return builtins.Str, nil
	case *ast.FormattedValue:
		if _, err := v.visitExpr(n.Value); err != nil {
			return nil, err
		}
		return builtins.Str, nil
	}
	return nil, fmt.Errorf("unsupported expression in inference")
}

func (v *visitor) constantType(n *ast.Constant) object.Value {
	switch n.Kind {
	case ast.ConstInt:
		return builtins.Int
	case ast.ConstFloat:
		return builtins.Float
	case ast.ConstStr:
		return builtins.Str
	case ast.ConstBool:
		return builtins.Bool
	case ast.ConstNone:
		return builtins.NoneType
	}
	return builtins.Object
}

func (v *visitor) visitName(n *ast.Name) (object.Value, error) {
	if n.Id == "super" {
		if v.fn.Owner == nil || v.fn.Owner.Super == nil {
			return nil, fmt.Errorf("'super' used outside a subclass method")
		}
		return v.fn.Owner.Super, nil
	}
	val, ok := v.scope.Lookup(n.Id)
	if !ok {
		return nil, fmt.Errorf("unresolved name %q", n.Id)
	}
	// The binding is returned as is, UnionType included; the reach
	// package visits every alternative of a union-typed name.
	return val, nil
}

func (v *visitor) visitAttribute(n *ast.Attribute) (object.Value, error) {
	objVal, err := v.visitExpr(n.Value)
	if err != nil {
		return nil, err
	}
	switch obj := objVal.(type) {
	case *object.Instance:
		if val, ok := obj.Find(n.Attr); ok {
			return val, nil
		}
		return nil, fmt.Errorf("%s has no attribute %q", obj.Of.Name, n.Attr)
	case *object.Class:
		if val, ok := obj.Find(n.Attr); ok {
			if fn, ok := val.(*object.Function); ok && !fn.Analyzed() {
				return nil, &pending{on: fn.Name, fn: fn}
			}
			return val, nil
		}
		return nil, fmt.Errorf("%s has no attribute %q", obj.Name, n.Attr)
	case *object.Module:
		if val, ok := obj.Scope.Lookup(n.Attr); ok {
			return val, nil
		}
		return nil, fmt.Errorf("module %s has no attribute %q", obj.Name, n.Attr)
	}
	return nil, fmt.Errorf("attribute access on unsupported value")
}

func (v *visitor) visitSubscript(n *ast.Subscript) (object.Value, error) {
	base, err := v.visitExpr(n.Value)
	if err != nil {
		return nil, err
	}
	if gen, ok := base.(*object.GenericClass); ok {
		return v.specializeGeneric(gen, n.Slice)
	}
	if _, err := v.visitExpr(n.Slice); err != nil {
		return nil, err
	}
	if c := ClassOf(base); c != nil {
		return methodReturn(c, "__getitem__")
	}
	return nil, fmt.Errorf("subscript on unsupported value")
}

func (v *visitor) specializeGeneric(gen *object.GenericClass, slice ast.Expr) (object.Value, error) {
	var args []object.Value
	if tuple, ok := slice.(*ast.TupleExpr); ok {
		for _, el := range tuple.Elts {
			a, err := v.resolveAnnotation(el)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
	} else {
		a, err := v.resolveAnnotation(slice)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if cls, ok := gen.Lookup(args); ok {
		return cls, nil
	}
	return nil, &pending{on: gen.Name, gen: gen, genArgs: args}
}

func (v *visitor) visitCall(n *ast.Call) (object.Value, error) {
	// tw(...) style-class harvesting: visited during call-graph pruning,
	// not here; inference only needs the call's own return type.
	callee, err := v.visitExpr(n.Func)
	if err != nil {
		return nil, err
	}
	for _, a := range n.Args {
		if _, err := v.visitExpr(a); err != nil {
			return nil, err
		}
	}
	for _, k := range n.Keywords {
		if _, err := v.visitExpr(k.Value); err != nil {
			return nil, err
		}
	}
	switch callee := callee.(type) {
	case *object.Class:
		if init, ok := callee.Init(); ok {
			if !init.Analyzed() {
				return nil, &pending{on: init.Name, fn: init}
			}
		}
		return callee.Self(), nil
	case *object.GenericClass:
		return v.specializeFromCall(callee, n)
	case *object.Function:
		if !callee.Analyzed() {
			return nil, &pending{on: callee.Name, fn: callee}
		}
		return callee.Return, nil
	}
	return nil, fmt.Errorf("call to unsupported value")
}

// specializeFromCall infers a generic class's type arguments from the
// constructor call's own argument types when the call site doesn't
// spell them out via a subscript (`Counter(0)` instead of
// `Counter[int](0)`), mirroring GenericClass.from_call.
func (v *visitor) specializeFromCall(gen *object.GenericClass, call *ast.Call) (object.Value, error) {
	var args []object.Value
	for _, a := range call.Args {
		t, err := v.visitExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
	if cls, ok := gen.Lookup(args); ok {
		return cls.Self(), nil
	}
	return nil, &pending{on: gen.Name, gen: gen, genArgs: args}
}

func (v *visitor) visitListComp(n *ast.ListComp) (object.Value, error) {
	iter, err := v.visitExpr(n.Generator.Iter)
	if err != nil {
		return nil, err
	}
	elem := iterElementType(iter)
	inner := object.NewLocalScope(v.scope)
	inner.Define(nameOf(n.Generator.Target), elem)
	saved := v.scope
	v.scope = inner
	_, err = v.visitExpr(n.Elt)
	v.scope = saved
	if err != nil {
		return nil, err
	}
	return builtins.List, nil
}

func nameOf(e ast.Expr) string {
	if n, ok := e.(*ast.Name); ok {
		return n.Id
	}
	return "_"
}

func (v *visitor) visitLambda(n *ast.Lambda) (object.Value, error) {
	inner := object.NewLocalScope(v.scope)
	for _, a := range n.Args {
		inner.Define(a, object.NewUnionType())
	}
	saved := v.scope
	v.scope = inner
	ret, err := v.visitExpr(n.Body)
	v.scope = saved
	if err != nil {
		return nil, err
	}
	fn := object.NewFunction("<lambda>", v.scope)
	fn.Return = ret
	fn.MarkAnalyzed()
	return fn, nil
}
