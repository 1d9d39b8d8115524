package infer

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// ClassOf returns the static class a value was inferred to be: itself
// if it already is a Class, or the owning Class of an Instance. Most
// of type inference operates on classes directly rather than on
// instances, since this is a static type system, not an interpreter.
func ClassOf(v object.Value) *object.Class {
	switch t := v.(type) {
	case *object.Class:
		return t
	case *object.Instance:
		return t.Of
	}
	return nil
}

func methodReturn(c *object.Class, name string) (object.Value, error) {
	v, ok := c.Find(name)
	if !ok {
		return nil, fmt.Errorf("%s has no %s", c.Name, name)
	}
	fn, ok := v.(*object.Function)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not callable", c.Name, name)
	}
	if !fn.Analyzed() {
		return nil, &pending{on: fn.Name, fn: fn}
	}
	return fn.Return, nil
}

// BinOpNames returns (forward, reflected) dunder names for a BinOp
// kind. ast.Pow maps to __mod__/__rmod__, not __pow__/__rpow__ — a
// quirk of the original BIN_OPS table preserved faithfully (see
// DESIGN.md's Builtins Registry entry).
func BinOpNames(op ast.BinOpKind) (string, string) {
	switch op {
	case ast.Add:
		return "__add__", "__radd__"
	case ast.Sub:
		return "__sub__", "__rsub__"
	case ast.Mult:
		return "__mul__", "__rmul__"
	case ast.Div:
		return "__truediv__", "__rtruediv__"
	case ast.FloorDiv:
		return "__floordiv__", "__rfloordiv__"
	case ast.Pow:
		return "__mod__", "__rmod__"
	}
	return "", ""
}

// dispatchBinOp implements Python's double-dispatch protocol: try the
// left operand's forward method, then the right operand's reflected
// method. Either side raising pending defers the whole expression.
func (v *visitor) dispatchBinOp(node ast.Node, left, right object.Value, op ast.BinOpKind) (object.Value, error) {
	fwd, rfl := BinOpNames(op)
	if lc := ClassOf(left); lc != nil {
		if ret, err := methodReturn(lc, fwd); err == nil {
			v.p.Refs.Set(node, ret)
			return ret, nil
		} else if _, ok := err.(*pending); ok {
			return nil, err
		}
	}
	if rc := ClassOf(right); rc != nil {
		if ret, err := methodReturn(rc, rfl); err == nil {
			v.p.Refs.Set(node, ret)
			return ret, nil
		} else if _, ok := err.(*pending); ok {
			return nil, err
		}
	}
	return nil, fmt.Errorf("unsupported operand types for binary operator")
}

func CompareOpNames(op ast.CompareOpKind) (fwd, rfl string, special bool) {
	switch op {
	case ast.Lt:
		return "__lt__", "__gt__", false
	case ast.LtE:
		return "__le__", "__ge__", false
	case ast.Gt:
		return "__gt__", "__lt__", false
	case ast.GtE:
		return "__ge__", "__le__", false
	case ast.Eq:
		return "__eq__", "__eq__", false
	case ast.NotEq:
		return "__ne__", "__ne__", false
	case ast.Is:
		return "__is__", "__is__", false
	case ast.IsNot:
		return "__is_not__", "__is_not__", false
	}
	return "", "", true
}

// dispatchCompare resolves a single comparison. `in`/`not in` swap
// operands once and call __contains__ on the right side with no
// reflected fallback, per analyzer.py's visit_Compare. Other operators
// try the left operand's method first and the right's reflected one
// second. object's __eq__/__ne__ gets no special case: a left operand
// that inherits object's equality resolves to it even when the right
// operand's class overrides __eq__/__ne__.
func (v *visitor) dispatchCompare(node ast.Node, left, right object.Value, op ast.CompareOpKind) (object.Value, error) {
	if op == ast.In || op == ast.NotIn {
		rc := ClassOf(right)
		if rc == nil {
			return nil, fmt.Errorf("unsupported operand for containment check")
		}
		ret, err := methodReturn(rc, "__contains__")
		if err != nil {
			return nil, err
		}
		v.p.Refs.Set(node, ret)
		return ret, nil
	}
	fwd, rfl, _ := CompareOpNames(op)
	if lc := ClassOf(left); lc != nil {
		if ret, err := methodReturn(lc, fwd); err == nil {
			v.p.Refs.Set(node, ret)
			return ret, nil
		} else if _, ok := err.(*pending); ok {
			return nil, err
		}
	}
	if rc := ClassOf(right); rc != nil {
		if ret, err := methodReturn(rc, rfl); err == nil {
			v.p.Refs.Set(node, ret)
			return ret, nil
		} else if _, ok := err.(*pending); ok {
			return nil, err
		}
	}
	return nil, fmt.Errorf("unsupported operand types for comparison")
}

func UnaryOpName(op ast.UnaryOpKind) string {
	switch op {
	case ast.UAdd:
		return "__pos__"
	case ast.USub:
		return "__neg__"
	case ast.Invert:
		return "__invert__"
	case ast.Not:
		return "__bool__"
	}
	return ""
}

func (v *visitor) dispatchUnary(node ast.Node, operand object.Value, op ast.UnaryOpKind) (object.Value, error) {
	c := ClassOf(operand)
	if c == nil {
		return nil, fmt.Errorf("unsupported operand type for unary operator")
	}
	ret, err := methodReturn(c, UnaryOpName(op))
	if err != nil {
		return nil, err
	}
	v.p.Refs.Set(node, ret)
	return ret, nil
}
