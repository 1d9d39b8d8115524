package emit

import (
	"fmt"
	"strings"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// emitCall prints one call expression: the super()-call textual
// special case, `new` construction for class/generic-specialization
// calls, inline-hook/template dispatch for builtin and decorated
// methods, and plain calls otherwise. Grounded on Transpiler.visit_Call.
func (e *Emitter) emitCall(call *ast.Call) error {
	if code, handled, err := e.trySuperCall(call); err != nil {
		return err
	} else if handled {
		e.w.Write(code)
		return e.emitCallArgs(call)
	}

	funcReferent, _ := e.referent(call.Func)
	switch fr := funcReferent.(type) {
	case *object.Class:
		return e.emitConstructorCall(fr, call)
	case *object.GenericClass:
		if res, ok := e.referent(call); ok {
			if inst, ok := res.(*object.Instance); ok {
				return e.emitConstructorCall(inst.Of, call)
			}
		}
		return fmt.Errorf("unresolved generic specialization for call")
	case *object.Function:
		return e.emitFunctionCall(fr, call)
	}

	if err := e.emitExpr(call.Func); err != nil {
		return err
	}
	return e.emitCallArgs(call)
}

// trySuperCall recognizes `super().method(...)` / `super().__init__(...)`
// by a syntactic pattern match and writes the `super`/`super.method`
// prefix, matching Transpiler's super_call check. Only for `__init__`
// is the referent of `super` looked up, to append `._create` when the
// superclass is a CustomElement.
func (e *Emitter) trySuperCall(call *ast.Call) (string, bool, error) {
	attr, ok := call.Func.(*ast.Attribute)
	if !ok {
		return "", false, nil
	}
	innerCall, ok := attr.Value.(*ast.Call)
	if !ok {
		return "", false, nil
	}
	name, ok := innerCall.Func.(*ast.Name)
	if !ok || name.Id != "super" {
		return "", false, nil
	}
	if attr.Attr == "__init__" {
		out := "super"
		if superCls, ok := e.referent(innerCall.Func); ok {
			if cls, ok := superCls.(*object.Class); ok && cls.CustomElementKind() {
				out += "._create"
			}
		}
		return out, true, nil
	}
	return "super." + attr.Attr, true, nil
}

func (e *Emitter) emitConstructorCall(cls *object.Class, call *ast.Call) error {
	e.w.Write("new " + cls.Name)
	if cls.CustomElementKind() {
		if err := e.emitCallArgsEmpty(); err != nil {
			return err
		}
		e.w.Write("._create")
		return e.emitCallArgs(call)
	}
	return e.emitCallArgs(call)
}

func (e *Emitter) emitCallArgsEmpty() error {
	e.w.Write("()")
	return nil
}

// emitFunctionCall handles both attribute-style method calls (where
// InlineSource/Inline/CallHook templates fire for builtin and
// decorated methods) and bare name calls (free functions, including
// `len`'s type-dependent `.length`/`.size` special case).
func (e *Emitter) emitFunctionCall(fn *object.Function, call *ast.Call) error {
	if attr, ok := call.Func.(*ast.Attribute); ok {
		selfCode := e.captureExpr(attr.Value)
		argCodes, argTypes := e.captureArgs(call.Args)

		if fn.CallHook != nil {
			if code, ok := fn.CallHook.Rewrite(selfCode, argCodes, argTypes); ok {
				e.w.Write(code)
				return nil
			}
		}
		if fn.InlineSource != "" {
			e.w.Write(renderTemplate(fn.InlineSource, selfCode, argCodes))
			return nil
		}
		if fn.Inline != nil {
			other := ""
			var otherTypes []string
			if len(argCodes) > 0 {
				other = argCodes[0]
				otherTypes = argTypes
			}
			if code, ok := fn.Inline(selfCode, other, otherTypes); ok {
				e.w.Write(code)
				return nil
			}
		}
		e.w.Write(selfCode + "." + attr.Attr)
		return e.emitCallArgs(call)
	}

	if fn.Name == "len" && fn.Owner == nil {
		argCodes, argTypes := e.captureArgs(call.Args)
		accessor := ".length"
		if len(argTypes) > 0 && argTypes[0] == "dict" {
			accessor = ".size"
		}
		if len(argCodes) > 0 {
			e.w.Write(argCodes[0] + accessor)
		}
		return nil
	}
	if fn.CallHook != nil {
		argCodes, argTypes := e.captureArgs(call.Args)
		if code, ok := fn.CallHook.Rewrite("", argCodes, argTypes); ok {
			e.w.Write(code)
			return nil
		}
	}
	if fn.InlineSource != "" {
		e.w.Write(fn.InlineSource)
		return e.emitCallArgs(call)
	}
	if err := e.emitExpr(call.Func); err != nil {
		return err
	}
	return e.emitCallArgs(call)
}

// emitCallArgs prints the parenthesized, comma-joined positional
// argument list followed by a trailing keyword object literal, the Go
// analogue of Transpiler.visit_Call's own `delimit("(", ")")` body.
func (e *Emitter) emitCallArgs(call *ast.Call) error {
	e.w.Write("(")
	first := true
	for _, a := range call.Args {
		if !first {
			e.w.Write(", ")
		}
		first = false
		if err := e.emitCallArg(a); err != nil {
			return err
		}
	}
	if len(call.Keywords) > 0 {
		if !first {
			e.w.Write(", ")
		}
		e.w.Write("{")
		for i, k := range call.Keywords {
			if i > 0 {
				e.w.Write(", ")
			}
			e.w.Write(k.Arg + ": ")
			if err := e.emitExpr(k.Value); err != nil {
				return err
			}
		}
		e.w.Write("}")
	}
	e.w.Write(")")
	return nil
}

// emitCallArg prints one positional argument, appending `.bind(recv)`
// when the argument is a bare method reference (an Attribute whose
// referent is a Function, passed uncalled as a callback) rather than
// an invocation — matching Transpiler.visit_call_arg.
func (e *Emitter) emitCallArg(arg ast.Expr) error {
	if err := e.emitExpr(arg); err != nil {
		return err
	}
	if attr, ok := arg.(*ast.Attribute); ok {
		if v, ok := e.referent(arg); ok {
			if _, isFn := v.(*object.Function); isFn {
				e.w.Write(".bind(")
				if err := e.emitExpr(attr.Value); err != nil {
					return err
				}
				e.w.Write(")")
			}
		}
	}
	return nil
}

// captureExpr renders one expression in isolation, the Go analogue of
// Transpiler.isolated_visit: a throwaway Emitter sharing this one's
// referents and reachability, used wherever a hook needs already-
// formatted operand text rather than a live write target.
func (e *Emitter) captureExpr(expr ast.Expr) string {
	sub := &Emitter{w: NewWriter(), refs: e.refs, reachable: e.reachable, importer: e.importer, exporter: e.exporter}
	_ = sub.emitExpr(expr)
	return sub.w.String()
}

func (e *Emitter) captureArgs(args []ast.Expr) ([]string, []string) {
	codes := make([]string, len(args))
	types := make([]string, len(args))
	for i, a := range args {
		codes[i] = e.captureExpr(a)
		if v, ok := e.referent(a); ok {
			types[i] = typeNameOf(v)
		}
	}
	return codes, types
}

func typeNameOf(v object.Value) string {
	switch val := v.(type) {
	case *object.Instance:
		return val.Of.Name
	case nil:
		return ""
	default:
		return val.TypeName()
	}
}

// renderTemplate substitutes {self}/{other}/{default} placeholders in
// a builtin method's InlineSource template with already-emitted
// operand text.
func renderTemplate(tmpl, self string, others []string) string {
	out := strings.ReplaceAll(tmpl, "{self}", self)
	if len(others) > 0 {
		out = strings.ReplaceAll(out, "{other}", others[0])
	}
	if len(others) > 1 {
		out = strings.ReplaceAll(out, "{default}", others[1])
	}
	return out
}

func findMethod(c *object.Class, name string) (*object.Function, bool) {
	v, ok := c.Find(name)
	if !ok {
		return nil, false
	}
	fn, ok := v.(*object.Function)
	return fn, ok
}

// renderDunder formats one resolved operator-method dispatch as
// target-language source: a hook/template if the method supplies one,
// else a plain method-call fallback for a user-defined dunder method
// with an ordinary JS body.
func (e *Emitter) renderDunder(fn *object.Function, self, other, otherType string) (string, bool) {
	if fn.Inline != nil {
		return fn.Inline(self, other, []string{otherType})
	}
	if fn.InlineSource != "" {
		return renderTemplate(fn.InlineSource, self, []string{other}), true
	}
	if other == "" {
		return fmt.Sprintf("%s.%s()", self, fn.Name), true
	}
	return fmt.Sprintf("%s.%s(%s)", self, fn.Name, other), true
}
