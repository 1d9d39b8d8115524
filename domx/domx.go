// Package domx registers the DOM runtime shim's base classes into the
// builtins registry: HTMLElement, the CustomElement/ProxyElement/
// ContextProxy hierarchy the Emitter's hydration pass branches on, and
// the `tw`/`tag` free functions the Call-Graph Pruner's style-class
// harvesting recognizes. Grounded on domx.py in the retrieved original
// implementation; the runtime behavior these classes describe (actual
// DOM manipulation) lives in the JS runtime shim the compiler targets,
// not in this package — duoc only needs their shape for emission.
package domx

import (
	"github.com/duallang/duoc/builtins"
	"github.com/duallang/duoc/object"
)

var (
	Element        *object.Class
	HTMLElement    *object.Class
	CustomElement  *object.Class
	ProxyElement   *object.Class
	ContextProxy   *object.Class
)

// Load registers the DOM shim classes into scope, which callers pass
// the same object.Builtins scope used by package builtins so ordinary
// base-class lookup in package infer resolves them with no special
// casing.
func Load(scope *object.ModuleScope) {
	Element = defineClass(scope, "Element", builtins.Object)
	method(Element, "setAttribute", "", "")
	method(Element, "getAttribute", "", "str")
	method(Element, "append", "", "")

	HTMLElement = defineClass(scope, "HTMLElement", Element)

	CustomElement = defineClass(scope, "CustomElement", HTMLElement)
	CustomElement.IsCustomElement = true
	method(CustomElement, "set_data", "", "")
	method(CustomElement, "get_data", "", "str")
	method(CustomElement, "connectedCallback", "", "")
	method(CustomElement, "_create", "", "")
	method(CustomElement, "_hydrate", "", "")
	method(CustomElement, "initialize", "", "")
	forceInclude(CustomElement, "get_data")
	forceInclude(CustomElement, "connectedCallback")
	forceInclude(CustomElement, "_create")
	forceInclude(CustomElement, "_hydrate")
	forceInclude(CustomElement, "initialize")

	ProxyElement = defineClass(scope, "ProxyElement", builtins.Object)
	ProxyElement.IsProxyElement = true
	method(ProxyElement, "_hydrate", "", "")
	method(ProxyElement, "setAttribute", "", "")
	method(ProxyElement, "getAttribute", "", "str")
	forceInclude(ProxyElement, "_hydrate")

	ContextProxy = defineClass(scope, "ContextProxy", builtins.Object)
	ContextProxy.IsContextProxy = true
	method(ContextProxy, "get_data", "", "str")

	loadFreeFunctions(scope)
}

func defineClass(scope *object.ModuleScope, name string, super *object.Class) *object.Class {
	c := object.NewClass(name, scope, super)
	scope.Define(name, c)
	return c
}

func method(c *object.Class, name, inline, retType string) *object.Function {
	fn := object.NewFunction(name, c.Scope)
	fn.Owner = c
	fn.IsMethod = true
	fn.InlineSource = inline
	if retType == "str" {
		fn.Return = builtins.Str
	}
	fn.MarkAnalyzed()
	c.Scope.Define(name, fn)
	return fn
}

func forceInclude(c *object.Class, name string) {
	if v, ok := c.Scope.Lookup(name); ok {
		if fn, ok := v.(*object.Function); ok {
			fn.ForceInclude = true
		}
	}
}

func loadFreeFunctions(scope *object.ModuleScope) {
	tw := object.NewFunction("tw", scope)
	tw.MarkAnalyzed()
	scope.Define("tw", tw)

	tag := object.NewFunction("tag", scope)
	tag.Return = HTMLElement
	tag.MarkAnalyzed()
	scope.Define("tag", tag)
}
