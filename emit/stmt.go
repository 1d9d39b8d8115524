package emit

import (
	"fmt"
	"strconv"

	"github.com/duallang/duoc/ast"
)

// emitStmt prints one statement. Grounded on Transpiler's visit_*
// overrides of ast._Unparser for statement nodes.
func (e *Emitter) emitStmt(stmt ast.Stmt) error {
	switch n := stmt.(type) {
	case *ast.Assign:
		return e.emitAssign(n)
	case *ast.AnnAssign:
		return e.emitAnnAssign(n)
	case *ast.AugAssign:
		return e.emitAugAssign(n)
	case *ast.Return:
		return e.emitReturn(n)
	case *ast.If:
		return e.emitIf(n)
	case *ast.For:
		return e.emitFor(n)
	case *ast.While:
		return e.emitWhile(n)
	case *ast.Pass:
		return nil
	case *ast.Assert:
		return e.emitAssert(n)
	case *ast.Raise:
		return e.emitRaise(n)
	case *ast.ExprStmt:
		e.w.Fill("")
		if err := e.emitExpr(n.Value); err != nil {
			return err
		}
		e.w.Write(";")
		return nil
	}
	return fmt.Errorf("emit: unsupported statement %T", stmt)
}

func (e *Emitter) emitAssign(n *ast.Assign) error {
	e.w.Fill("")
	if err := e.emitExpr(n.Target); err != nil {
		return err
	}
	e.w.Write(" = ")
	if err := e.emitExpr(n.Value); err != nil {
		return err
	}
	e.w.Write(";")
	return nil
}

// emitAnnAssign prints a declaration statement, special-casing the two
// annotation names the object model's decorator handling recognizes
// outside the regular type system: `__static__` for a class-field
// declared static, and `__const__` for a top-level exported constant.
// Matches Transpiler.visit_AnnAssign.
func (e *Emitter) emitAnnAssign(n *ast.AnnAssign) error {
	e.w.Fill("")
	prefix := "var "
	if name, ok := n.Annotation.(*ast.Name); ok {
		switch name.Id {
		case "__static__":
			prefix = "static "
		case "__const__":
			prefix = "export const "
		}
	}
	e.w.Write(prefix)
	if err := e.emitExpr(n.Target); err != nil {
		return err
	}
	if n.Value != nil {
		e.w.Write(" = ")
		if err := e.emitExpr(n.Value); err != nil {
			return err
		}
	}
	e.w.Write(";")
	return nil
}

// emitAugAssign lowers `target OP= value` to the same forward/reflected
// operator-method resolution an equivalent BinOp would use, followed
// by a plain assignment — the emission-time analogue of
// analyzer.py's visit_AugAssign, which rewrites the node into a BinOp
// then an Assign during inference itself. The synthesized BinOp reuses
// Target/Value as its own Left/Right, so the Referents lookups inside
// emitBinOp resolve against the same node identities inference recorded.
func (e *Emitter) emitAugAssign(n *ast.AugAssign) error {
	e.w.Fill("")
	if err := e.emitExpr(n.Target); err != nil {
		return err
	}
	e.w.Write(" = ")
	if err := e.emitBinOp(&ast.BinOp{Left: n.Target, Right: n.Value, Op: n.Op}); err != nil {
		return err
	}
	e.w.Write(";")
	return nil
}

func (e *Emitter) emitReturn(n *ast.Return) error {
	e.w.Fill("return")
	if n.Value != nil {
		e.w.Write(" ")
		if err := e.emitExpr(n.Value); err != nil {
			return err
		}
	}
	e.w.Write(";")
	return nil
}

// emitIf flattens a Python `elif` chain (represented as a single-stmt
// If in OrElse) into a JS `else if` chain rather than nesting braces,
// matching Transpiler.visit_If's own orelse-collapsing loop.
func (e *Emitter) emitIf(n *ast.If) error {
	e.w.Fill("if (")
	if err := e.emitExpr(n.Test); err != nil {
		return err
	}
	e.w.Write(")")
	if err := e.emitBody(n.Body); err != nil {
		return err
	}
	orelse := n.OrElse
	for len(orelse) == 1 {
		elif, ok := orelse[0].(*ast.If)
		if !ok {
			break
		}
		e.w.Write(" else if (")
		if err := e.emitExpr(elif.Test); err != nil {
			return err
		}
		e.w.Write(")")
		if err := e.emitBody(elif.Body); err != nil {
			return err
		}
		orelse = elif.OrElse
	}
	if len(orelse) > 0 {
		e.w.Write(" else")
		if err := e.emitBody(orelse); err != nil {
			return err
		}
	}
	return nil
}

// emitFor lowers `for target in iter:` to `for (const x of iter)`,
// destructuring a flat tuple target into `const [a, b] of iter`.
func (e *Emitter) emitFor(n *ast.For) error {
	e.w.Fill("for (const ")
	if tup, ok := n.Target.(*ast.TupleExpr); ok {
		if err := e.emitSeq("[", "]", tup.Elts); err != nil {
			return err
		}
	} else if err := e.emitExpr(n.Target); err != nil {
		return err
	}
	e.w.Write(" of ")
	if err := e.emitExpr(n.Iter); err != nil {
		return err
	}
	e.w.Write(")")
	return e.emitBody(n.Body)
}

func (e *Emitter) emitWhile(n *ast.While) error {
	e.w.Fill("while (")
	if err := e.emitExpr(n.Test); err != nil {
		return err
	}
	e.w.Write(")")
	return e.emitBody(n.Body)
}

func (e *Emitter) emitAssert(n *ast.Assert) error {
	e.w.Fill("console.assert(")
	if err := e.emitExpr(n.Test); err != nil {
		return err
	}
	if n.Msg != nil {
		e.w.Write(", ")
		if err := e.emitExpr(n.Msg); err != nil {
			return err
		}
	}
	e.w.Write(");")
	return nil
}

// emitRaise lowers `raise Exc(...)`/`raise Exc` to a `throw` of the
// exception's name as a string literal (`throw "Exc";`); no JS Error
// object is constructed. Any other raised expression is thrown as its
// own source, and a bare `raise` throws undefined.
func (e *Emitter) emitRaise(n *ast.Raise) error {
	e.w.Fill("throw ")
	if n.Exc == nil {
		e.w.Write("undefined;")
		return nil
	}
	exc := n.Exc
	if call, ok := exc.(*ast.Call); ok {
		exc = call.Func
	}
	switch x := exc.(type) {
	case *ast.Name:
		e.w.Write(strconv.Quote(x.Id) + ";")
		return nil
	case *ast.Attribute:
		e.w.Write(strconv.Quote(x.Attr) + ";")
		return nil
	}
	if err := e.emitExpr(n.Exc); err != nil {
		return err
	}
	e.w.Write(";")
	return nil
}

func (e *Emitter) emitBody(body []ast.Stmt) error {
	var bodyErr error
	e.w.Block(func() {
		for _, s := range body {
			if err := e.emitStmt(s); err != nil {
				bodyErr = err
				return
			}
		}
	})
	return bodyErr
}
