// Package ast defines duoc's source-language AST: a tagged-union tree of
// statement and expression nodes produced by Ingest (Parse, in this package) and
// consumed by Type Inference, the Call-Graph Pruner, and the Emitter.
//
// Nodes are plain records — no semantic annotation lives on them.
// Object-model referents assigned during inference live in a side table
// keyed by node identity (see package infer), per the "composition over
// inheritance" design note: AST shape stays stable across passes, and a
// node's pointer is its identity key.
package ast

// Range is a half-open source span, 1-indexed on the line to match the
// rest of the toolchain's diagnostics.
type Range struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

// Node is satisfied by every statement and expression node.
type Node interface {
	node()
	Pos() Range
}

// Stmt is satisfied by statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Expr is satisfied by expression nodes.
type Expr interface {
	Node
	expr()
}

type base struct {
	Range Range
}

func (b base) Pos() Range { return b.Range }
func (base) node()        {}
