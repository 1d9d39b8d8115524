package emit

import (
	"fmt"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/domx"
	"github.com/duallang/duoc/infer"
	"github.com/duallang/duoc/object"
)

// generateBindMethod emits the `_hydrate()` companion method that every
// CustomElement constructor gets, whether or not it assigns any
// HTMLElement/ProxyElement/ContextProxy-typed attribute: reattaching
// already-server-rendered DOM nodes by id instead of re-running `_create`.
// Grounded on Transpiler.generate_bind_method / HydrateGenerator.
func (e *Emitter) generateBindMethod(fn *object.Function, fd *ast.FunctionDef) {
	e.w.Fill("_hydrate()")
	g := &hydrateGen{e: e, elementAttrs: map[string]bool{}}
	e.w.Block(func() {
		for _, s := range fd.Body {
			g.visitStmt(s)
		}
	})
}

// hydrateGen walks a constructor's own body a second time, picking out
// the statements relevant to re-binding DOM elements on hydration —
// the Go analogue of HydrateGenerator(ast.NodeVisitor).
type hydrateGen struct {
	e             *Emitter
	selfIDEmitted bool
	elementAttrs  map[string]bool
}

func (g *hydrateGen) addSelfID() {
	if !g.selfIDEmitted {
		g.selfIDEmitted = true
		g.e.w.Fill("const self_id = this.get_data('self-id');")
	}
}

func (g *hydrateGen) visitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Assign:
		g.visitAssign(n)
	case *ast.ExprStmt:
		g.visitExprStmt(n)
	}
}

// visitAssign recognizes `self.attr = <element-valued expression>` and
// rewrites it into the matching hydration lookup, branching on the
// assigned value's class the same three ways the CustomElement
// `__setattr__` hydration protocol distinguishes.
func (g *hydrateGen) visitAssign(n *ast.Assign) {
	attr, ok := n.Target.(*ast.Attribute)
	if !ok {
		return
	}
	recv, ok := attr.Value.(*ast.Name)
	if !ok || recv.Id != "self" {
		return
	}
	valVal, ok := g.e.referent(n.Value)
	if !ok {
		return
	}
	cls := infer.ClassOf(valVal)
	if cls == nil {
		return
	}

	switch {
	case cls.IsSubclassOf(domx.HTMLElement):
		g.addSelfID()
		g.elementAttrs[attr.Attr] = true
		g.e.w.Fill(fmt.Sprintf("this.%s = document.getElementById(self_id+'-%s');", attr.Attr, attr.Attr))
	case cls.ProxyElementKind():
		g.addSelfID()
		g.elementAttrs[attr.Attr] = true
		g.e.w.Fill(fmt.Sprintf("this.%s = new %s()._hydrate(document.getElementById(self_id+'-%s'));", attr.Attr, cls.Name, attr.Attr))
	case cls.ContextProxyKind():
		g.addSelfID()
		g.elementAttrs[attr.Attr] = true
		g.e.w.Fill(fmt.Sprintf("this.%s = document.getElementById(self_id+'-%s');", attr.Attr, attr.Attr))
	}
}

// visitExprStmt passes through only the statements that operate on a
// captured element (an attribute already re-bound above) or call
// addEventListener — every other expression statement in the
// constructor body (ordinary bookkeeping, non-element assigns) has no
// place in `_hydrate` and is silently dropped, matching
// HydrateGenerator.visit_Expr's own selective re-traversal.
func (g *hydrateGen) visitExprStmt(n *ast.ExprStmt) {
	call, ok := n.Value.(*ast.Call)
	if !ok {
		return
	}
	funcAttr, ok := call.Func.(*ast.Attribute)
	if !ok {
		return
	}
	if funcAttr.Attr == "addEventListener" || g.referencesCapturedElement(funcAttr.Value) {
		_ = g.e.emitStmt(n)
	}
}

func (g *hydrateGen) referencesCapturedElement(v ast.Expr) bool {
	attr, ok := v.(*ast.Attribute)
	if !ok {
		return false
	}
	recv, ok := attr.Value.(*ast.Name)
	if !ok || recv.Id != "self" {
		return false
	}
	return g.elementAttrs[attr.Attr]
}
