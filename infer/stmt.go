package infer

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

func (v *visitor) visitStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Assign:
		return v.visitAssign(n)
	case *ast.AnnAssign:
		return v.visitAnnAssign(n)
	case *ast.AugAssign:
		return v.visitAugAssign(n)
	case *ast.Return:
		if n.Value == nil {
			return nil
		}
		val, err := v.visitExpr(n.Value)
		if err != nil {
			return err
		}
		v.p.Refs.Set(n, val)
		if v.fn.Return == nil {
			v.fn.Return = val
		}
		return nil
	case *ast.ExprStmt:
		_, err := v.visitExpr(n.Value)
		return err
	case *ast.If:
		return v.visitIf(n)
	case *ast.While:
		if _, err := v.visitExpr(n.Test); err != nil {
			return err
		}
		return v.visitBody(n.Body)
	case *ast.For:
		return v.visitFor(n)
	case *ast.Assert:
		return v.visitAssert(n)
	case *ast.Raise:
		if n.Exc != nil {
			_, err := v.visitExpr(n.Exc)
			return err
		}
		return nil
	case *ast.Pass:
		return nil
	default:
		return fmt.Errorf("unsupported statement in inference")
	}
}

func (v *visitor) visitBody(body []ast.Stmt) error {
	for _, s := range body {
		if err := v.visitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// visitAssign implements make_assignment: Name targets define in the
// current scope, Attribute targets narrow that instance's own
// attribute (not the class), Subscript targets resolve __setitem__.
func (v *visitor) visitAssign(n *ast.Assign) error {
	val, err := v.visitExpr(n.Value)
	if err != nil {
		return err
	}
	return v.assignTo(n.Target, val)
}

func (v *visitor) assignTo(target ast.Expr, val object.Value) error {
	switch t := target.(type) {
	case *ast.Name:
		v.scope.Define(t.Id, val)
		v.p.Refs.Set(t, val)
		return nil
	case *ast.Attribute:
		objVal, err := v.visitExpr(t.Value)
		if err != nil {
			return err
		}
		if inst, ok := objVal.(*object.Instance); ok {
			inst.SetAttr(t.Attr, val)
		}
		v.p.Refs.Set(t, val)
		return nil
	case *ast.Subscript:
		base, err := v.visitExpr(t.Value)
		if err != nil {
			return err
		}
		if _, err := v.visitExpr(t.Slice); err != nil {
			return err
		}
		c := ClassOf(base)
		if c == nil {
			return fmt.Errorf("unsupported subscript assignment target")
		}
		_, err = methodReturn(c, "__setitem__")
		return err
	case *ast.TupleExpr:
		// unpacking assignment: no further narrowing per element type
		// is tracked beyond binding each target to the aggregate value.
		for _, el := range t.Elts {
			if err := v.assignTo(el, val); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported assignment target")
}

func (v *visitor) visitAnnAssign(n *ast.AnnAssign) error {
	ann, err := v.resolveAnnotation(n.Annotation)
	if err != nil {
		return err
	}
	if n.Value != nil {
		if _, err := v.visitExpr(n.Value); err != nil {
			return err
		}
	}
	return v.assignTo(n.Target, ann)
}

func (v *visitor) visitAugAssign(n *ast.AugAssign) error {
	cur, err := v.visitExpr(n.Target)
	if err != nil {
		return err
	}
	rhs, err := v.visitExpr(n.Value)
	if err != nil {
		return err
	}
	result, err := v.dispatchBinOp(n, cur, rhs, n.Op)
	if err != nil {
		return err
	}
	return v.assignTo(n.Target, result)
}

func (v *visitor) visitIf(n *ast.If) error {
	narrowed, restore := v.applyNarrowing(n.Test)
	if narrowed != nil {
		v.scope = narrowed
	}
	err := v.visitBody(n.Body)
	if narrowed != nil {
		v.scope = restore
	}
	if err != nil {
		return err
	}
	return v.visitBody(n.OrElse)
}

func (v *visitor) visitFor(n *ast.For) error {
	iterVal, err := v.visitExpr(n.Iter)
	if err != nil {
		return err
	}
	elem := iterElementType(iterVal)
	if tuple, ok := n.Target.(*ast.TupleExpr); ok {
		for _, el := range tuple.Elts {
			if err := v.assignTo(el, elem); err != nil {
				return err
			}
		}
	} else if err := v.assignTo(n.Target, elem); err != nil {
		return err
	}
	return v.visitBody(n.Body)
}

// iterElementType gives a loop target's type: a UnionType iterable is
// returned as itself, and any other iterable yields a fresh, empty
// UnionType. A specialized container's type argument is not read, so
// iterating a list[int] does not bind the target to int.
func iterElementType(container object.Value) object.Value {
	if _, ok := container.(*object.UnionType); ok {
		return container
	}
	return object.NewUnionType()
}

func (v *visitor) visitAssert(n *ast.Assert) error {
	narrowed, _ := v.applyNarrowing(n.Test)
	if narrowed != nil {
		v.scope = narrowed
	}
	if n.Msg != nil {
		if _, err := v.visitExpr(n.Msg); err != nil {
			return err
		}
	}
	return nil
}
