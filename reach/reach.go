// Package reach implements the Call-Graph Pruner: starting from one
// entry point, it walks the call graph Type Inference already bound
// (via the Referents side table) and marks every Function and Class
// actually used. Anything left unmarked is dead for this bundle and
// the Emitter skips it. Grounded on analyzer.py's CallGraphVisitor.
package reach

import (
	"strings"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/infer"
	"github.com/duallang/duoc/object"
)

// Set is the result of one reachability pass.
type Set struct {
	Funcs        map[*object.Function]bool
	Classes      map[*object.Class]bool
	StyleClasses map[string]bool
}

func newSet() *Set {
	return &Set{
		Funcs:        make(map[*object.Function]bool),
		Classes:      make(map[*object.Class]bool),
		StyleClasses: make(map[string]bool),
	}
}

// Walker runs one reachability pass over a Program's referents.
type Walker struct {
	refs *infer.Referents
	set  *Set
}

// FromEntryPoint computes everything reachable from entry, honoring
// force-include decorators on functions the entry point never calls
// directly (e.g. a custom element's connectedCallback, which the
// runtime invokes, not user code).
func FromEntryPoint(entry *object.Function, allModules []*object.Module, refs *infer.Referents) *Set {
	w := &Walker{refs: refs, set: newSet()}
	w.visitFunc(entry)
	for _, m := range allModules {
		w.applyForceIncludes(m)
	}
	return w.set
}

func (w *Walker) applyForceIncludes(m *object.Module) {
	for _, name := range m.Scope.Names() {
		v, _ := m.Scope.Lookup(name)
		switch val := v.(type) {
		case *object.Function:
			if val.ForceInclude {
				w.visitFunc(val)
			}
		case *object.Class:
			w.applyClassForceIncludes(val)
		case *object.GenericClass:
			for _, cls := range val.Specializations() {
				w.applyClassForceIncludes(cls)
			}
		}
	}
}

func (w *Walker) applyClassForceIncludes(cls *object.Class) {
	for _, name := range cls.Scope.Names() {
		if v, ok := cls.Scope.Lookup(name); ok {
			if fn, ok := v.(*object.Function); ok && fn.ForceInclude {
				w.set.Classes[cls] = true
				w.visitFunc(fn)
			}
		}
	}
}

func (w *Walker) visitFunc(fn *object.Function) {
	if fn == nil || w.set.Funcs[fn] {
		return
	}
	w.set.Funcs[fn] = true
	if fn.Owner != nil {
		w.set.Classes[fn.Owner] = true
	}
	decl, ok := fn.Decl.(*ast.FunctionDef)
	if !ok {
		return
	}
	for _, s := range decl.Body {
		w.visitStmt(s)
	}
}

func (w *Walker) visitClass(cls *object.Class) {
	if cls == nil || w.set.Classes[cls] {
		return
	}
	w.set.Classes[cls] = true
	if init, ok := cls.Init(); ok {
		w.visitFunc(init)
	}
}

func (w *Walker) visitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		w.visitExpr(n.Value)
	case *ast.Assign:
		w.visitExpr(n.Value)
	case *ast.AnnAssign:
		if n.Value != nil {
			w.visitExpr(n.Value)
		}
	case *ast.AugAssign:
		w.visitExpr(n.Value)
	case *ast.Return:
		if n.Value != nil {
			w.visitExpr(n.Value)
		}
	case *ast.If:
		w.visitExpr(n.Test)
		for _, s := range n.Body {
			w.visitStmt(s)
		}
		for _, s := range n.OrElse {
			w.visitStmt(s)
		}
	case *ast.For:
		w.visitExpr(n.Iter)
		for _, s := range n.Body {
			w.visitStmt(s)
		}
	case *ast.While:
		w.visitExpr(n.Test)
		for _, s := range n.Body {
			w.visitStmt(s)
		}
	case *ast.Assert:
		w.visitExpr(n.Test)
	case *ast.Raise:
		if n.Exc != nil {
			w.visitExpr(n.Exc)
		}
	}
}

func (w *Walker) visitExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Call:
		w.visitCall(n)
	case *ast.Attribute:
		w.visitExpr(n.Value)
	case *ast.Subscript:
		w.visitExpr(n.Value)
		w.visitExpr(n.Slice)
	case *ast.BinOp:
		w.visitExpr(n.Left)
		w.visitExpr(n.Right)
	case *ast.BoolOp:
		for _, v := range n.Values {
			w.visitExpr(v)
		}
	case *ast.UnaryOp:
		w.visitExpr(n.Operand)
	case *ast.Compare:
		w.visitExpr(n.Left)
		w.visitExpr(n.Comparator)
	case *ast.List:
		for _, el := range n.Elts {
			w.visitExpr(el)
		}
	case *ast.SetExpr:
		for _, el := range n.Elts {
			w.visitExpr(el)
		}
	case *ast.TupleExpr:
		for _, el := range n.Elts {
			w.visitExpr(el)
		}
	case *ast.Dict:
		for _, ent := range n.Entries {
			if ent.Key != nil {
				w.visitExpr(ent.Key)
			}
			w.visitExpr(ent.Value)
		}
	case *ast.Starred:
		w.visitExpr(n.Value)
	case *ast.IfExp:
		w.visitExpr(n.Test)
		w.visitExpr(n.Body)
		w.visitExpr(n.OrElse)
	case *ast.ListComp:
		w.visitExpr(n.Generator.Iter)
		w.visitExpr(n.Elt)
	case *ast.Lambda:
		w.visitExpr(n.Body)
	case *ast.JoinedStr:
		for _, part := range n.Values {
			w.visitExpr(part)
		}
	case *ast.FormattedValue:
		w.visitExpr(n.Value)
	case *ast.Name:
		// A name bound to a UnionType visits every function and class
		// among its alternatives.
		if v, ok := w.refs.Get(n); ok {
			if u, ok := v.(*object.UnionType); ok {
				for _, alt := range u.Alternatives() {
					switch a := alt.(type) {
					case *object.Function:
						w.visitFunc(a)
					case *object.Class:
						w.visitClass(a)
					}
				}
			}
		}
	}
}

// visitCall recognizes the `tw("a b c")` style-class harvesting call
// specially — it contributes space-split class names to the bundle's
// CSS generation instead of (or alongside) being a traversable call —
// then falls through to ordinary callee resolution via Referents.
func (w *Walker) visitCall(n *ast.Call) {
	if name, ok := n.Func.(*ast.Name); ok && name.Id == "tw" && len(n.Args) > 0 {
		if lit, ok := n.Args[0].(*ast.Constant); ok && lit.Kind == ast.ConstStr {
			for _, cls := range strings.Fields(lit.Str) {
				w.set.StyleClasses[cls] = true
			}
		}
	}
	w.visitExpr(n.Func)
	for _, a := range n.Args {
		w.visitExpr(a)
	}
	for _, k := range n.Keywords {
		w.visitExpr(k.Value)
	}

	callee, ok := w.refs.Get(n.Func)
	if !ok {
		return
	}
	switch v := callee.(type) {
	case *object.Function:
		w.visitFunc(v)
	case *object.Class:
		w.visitClass(v)
	case *object.GenericClass:
		for _, cls := range v.Specializations() {
			w.visitClass(cls)
		}
	}
}
