// Package builtins populates object.Builtins once at process start: the
// primitive classes (object, type, NoneType, bool, int, float, str,
// list, dict, tuple, Iterable) and free functions (len, isinstance,
// hasattr, callable, print, bin/oct/hex) every module's scope falls
// back to. Grounded throughout on _builtins.py in the retrieved
// original implementation.
package builtins

import (
	"fmt"

	"github.com/duallang/duoc/object"
)

var (
	Object   *object.Class
	Type     *object.Class
	NoneType *object.Class
	Bool     *object.Class
	Int      *object.Class
	Float    *object.Class
	Str      *object.Class
	List     *object.Class
	Dict     *object.Class
	Tuple    *object.Class
	Iterable *object.Class
)

// Load builds the registry and installs it as object.Builtins. It is
// called by compile.NewSession, so every Session rebuilds the registry
// and replaces object.Builtins before any module is analyzed.
func Load() *object.ModuleScope {
	scope := object.NewModuleScope()
	object.Builtins = scope

	Object = defineClass(scope, "object", nil)
	method(Object, "__is__", tmpl("{self} === {other}"), "object", "bool")
	method(Object, "__is_not__", tmpl("{self} !== {other}"), "object", "bool")
	method(Object, "__eq__", tmpl("{self} === {other}"), "object", "bool")
	method(Object, "__ne__", tmpl("{self} !== {other}"), "object", "bool")

	Type = defineClass(scope, "type", Object)
	NoneType = defineClass(scope, "NoneType", Object)
	Iterable = defineClass(scope, "Iterable", Object)
	Tuple = defineClass(scope, "tuple", Object)

	Bool = defineClass(scope, "bool", nil) // set below once Int exists, bool subclasses int
	Int = defineClass(scope, "int", Object)
	Bool.Super = Int

	Float = defineClass(scope, "float", Object)
	Str = defineClass(scope, "str", Object)
	List = defineClass(scope, "list", Object)
	Dict = defineClass(scope, "dict", Object)

	loadInt()
	loadBool()
	loadFloat()
	loadStr()
	loadList()
	loadDict()
	loadFreeFunctions(scope)

	return scope
}

func defineClass(scope *object.ModuleScope, name string, super *object.Class) *object.Class {
	c := object.NewClass(name, scope, super)
	scope.Define(name, c)
	return c
}

func method(c *object.Class, name string, inline string, otherType, retType string) *object.Function {
	fn := object.NewFunction(name, c.Scope)
	fn.Owner = c
	fn.IsMethod = true
	fn.InlineSource = inline
	fn.Params = []object.Param{{Name: "self"}, {Name: "other"}}
	_ = otherType
	if retType != "" {
		fn.Return = lookupPrimitive(retType)
	}
	fn.MarkAnalyzed()
	c.Scope.Define(name, fn)
	return fn
}

func methodFn(c *object.Class, name string, inline object.InlineFn, retType string) *object.Function {
	fn := object.NewFunction(name, c.Scope)
	fn.Owner = c
	fn.IsMethod = true
	fn.Inline = inline
	fn.Params = []object.Param{{Name: "self"}, {Name: "other"}}
	if retType != "" {
		fn.Return = lookupPrimitive(retType)
	}
	fn.MarkAnalyzed()
	c.Scope.Define(name, fn)
	return fn
}

func tmpl(s string) string { return s }

func lookupPrimitive(name string) object.Value {
	switch name {
	case "bool":
		return Bool
	case "int":
		return Int
	case "float":
		return Float
	case "str":
		return Str
	case "object":
		return Object
	case "NoneType":
		return NoneType
	}
	return nil
}

// intOp reproduces int_op(name, op, r, wrap) from _builtins.py: a
// closure that only fires when the call's other argument is itself an
// int/bool, and falls back to NotImplemented (ok=false) otherwise so
// the reflected method on the other operand's own class gets a turn.
func intOp(op string, reflected bool, wrap string) object.InlineFn {
	return func(self, other string, argTypes []string) (string, bool) {
		if len(argTypes) == 0 || !(argTypes[0] == "int" || argTypes[0] == "bool") {
			return "", false
		}
		lhs, rhs := self, other
		if reflected {
			lhs, rhs = other, self
		}
		code := fmt.Sprintf("%s %s %s", lhs, op, rhs)
		if wrap != "" {
			code = fmt.Sprintf("%s(%s)", wrap, code)
		}
		return code, true
	}
}

func loadInt() {
	method(Int, "__init__", "", "object", "")
	method(Int, "__bool__", "{self}", "", "bool")
	methodFn(Int, "__lt__", intOp("<", false, ""), "bool")
	methodFn(Int, "__le__", intOp("<=", false, ""), "bool")
	methodFn(Int, "__gt__", intOp(">", false, ""), "bool")
	methodFn(Int, "__ge__", intOp(">=", false, ""), "bool")
	methodFn(Int, "__eq__", intOp("==", false, ""), "bool")
	methodFn(Int, "__ne__", intOp("!=", false, ""), "bool")
	methodFn(Int, "__add__", intOp("+", false, ""), "int")
	methodFn(Int, "__radd__", intOp("+", true, ""), "int")
	methodFn(Int, "__sub__", intOp("-", false, ""), "int")
	methodFn(Int, "__rsub__", intOp("-", true, ""), "int")
	methodFn(Int, "__mul__", intOp("*", false, ""), "int")
	methodFn(Int, "__rmul__", intOp("*", true, ""), "int")
	methodFn(Int, "__truediv__", intOp("/", false, ""), "float")
	methodFn(Int, "__rtruediv__", intOp("/", true, ""), "float")
	methodFn(Int, "__floordiv__", intOp("/", false, "Math.floor"), "int")
	methodFn(Int, "__rfloordiv__", intOp("/", true, "Math.floor"), "int")
	// pyjs's own BIN_OPS table maps ast.Pow to __mod__/__rmod__ while
	// the emitted operator text stays "**" — an apparent naming quirk
	// in the source it was distilled from. Preserved faithfully:
	// whatever the inference layer calls for `**`, this is the hook it
	// resolves to.
	methodFn(Int, "__mod__", intOp("**", false, ""), "int")
	methodFn(Int, "__rmod__", intOp("**", true, ""), "int")
}

func loadBool() {
	method(Bool, "__init__", "", "object", "")
}

func loadFloat() {
	method(Float, "__init__", "", "object", "")
	method(Float, "__bool__", "{self} !== 0", "", "bool")
	methodFn(Float, "__add__", intOp("+", false, ""), "float")
	methodFn(Float, "__sub__", intOp("-", false, ""), "float")
	methodFn(Float, "__mul__", intOp("*", false, ""), "float")
	methodFn(Float, "__truediv__", intOp("/", false, ""), "float")
}

func loadStr() {
	method(Str, "__init__", "String({other})", "object", "")
	method(Str, "__bool__", "{self}.length > 0", "", "bool")
	method(Str, "__add__", "{self} + {other}", "str", "str")
	method(Str, "__mul__", "{self}.repeat({other})", "int", "str")
	method(Str, "__rmul__", "{self}.repeat({other})", "int", "str")
	method(Str, "strip", "{self}.trim()", "", "str")
}

func loadList() {
	method(List, "append", "{self}.push({other})", "", "NoneType")
	method(List, "extend", "{self}.push(...{other})", "", "NoneType")
	method(List, "pop", "{self}.pop()", "", "object")
	method(List, "__bool__", "{self}.length > 0", "", "bool")
	method(List, "__add__", "{self}.concat({other})", "list", "list")
	method(List, "__getitem__", "{self}[{other}]", "int", "object")
	method(List, "__setitem__", "", "", "NoneType")
}

func loadDict() {
	method(Dict, "keys", "{self}.keys()", "", "Iterable")
	method(Dict, "values", "{self}.values()", "", "Iterable")
	method(Dict, "items", "{self}.entries()", "", "Iterable")
	method(Dict, "__bool__", "{self}?.size > 0", "", "bool")
	method(Dict, "__getitem__", "{self}.get({other})", "object", "object")
	method(Dict, "__setitem__", "", "", "NoneType")
	method(Dict, "get", "{self}.has({other}) ? {self}.get({other}) : {default}", "object", "object")
}

func loadFreeFunctions(scope *object.ModuleScope) {
	define := func(name, inline string, ret object.Value) {
		fn := object.NewFunction(name, scope)
		fn.InlineSource = inline
		fn.Return = ret
		fn.MarkAnalyzed()
		scope.Define(name, fn)
	}
	define("len", "", Int) // .length vs .size is resolved per-call by the Emitter from the argument's own type
	define("isinstance", "", Bool)
	define("hasattr", "", Bool)
	define("callable", "", Bool)
	define("classmethod", "", nil)
	define("print", "console.log", nil)
	define("bin", "", Str)
	define("oct", "", Str)
	define("hex", "", Str)
}
