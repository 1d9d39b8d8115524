package ast

// Decorator is a decorator-list entry read as metadata only; Ingest
// records the call/name shape, and package infer's applyDecorator
// interprets the well-known names on methods when it builds Function
// wrappers.
type Decorator struct {
	Name     string // e.g. "js", "nojs", "js_str"
	Args     []Expr
	Keywords []Keyword
}

// File is the root of one parsed module's AST.
type File struct {
	base
	Name string
	Body []Stmt
}

func (File) stmt() {}

// Arg is one function parameter.
type Arg struct {
	Name       string
	Annotation Expr // nil if unannotated
	Default    Expr // nil if required
}

// Arguments is a function's full parameter list, split the way
// analyzer.py's visit_FunctionDef binds them: positional args (each
// possibly defaulted), an optional *vararg, and an optional **kwarg.
type Arguments struct {
	Args   []Arg
	Vararg *Arg // nil if the function takes no *args
	Kwarg  *Arg // nil if the function takes no **kwargs
}

// ClassDef is a class with at most one base (single-inheritance only,
// per the Emitter's `class Name extends Base` contract).
type ClassDef struct {
	base
	Name        string
	Base        string // "" if no base
	TypeParams  []string
	Decorators  []Decorator
	Body        []Stmt
}

func (ClassDef) stmt() {}

// FunctionDef is a function or method definition.
type FunctionDef struct {
	base
	Name       string
	Args       Arguments
	Returns    Expr // return-type annotation, nil if absent
	Decorators []Decorator
	Body       []Stmt
	IsAsync    bool
}

func (FunctionDef) stmt() {}

// Assign is `target = value`; target is Name, Attribute, or Subscript.
type Assign struct {
	base
	Target Expr
	Value  Expr
}

func (Assign) stmt() {}

// AnnAssign is `target: annotation = value` (value may be nil: a bare
// declaration with no initializer).
type AnnAssign struct {
	base
	Target     Expr
	Annotation Expr
	Value      Expr
}

func (AnnAssign) stmt() {}

// AugAssign is `target OP= value`, lowered by inference into the
// equivalent BinOp-then-Assign per analyzer.py's visit_AugAssign.
type AugAssign struct {
	base
	Target Expr
	Op     BinOpKind
	Value  Expr
}

func (AugAssign) stmt() {}

// Return is `return value` (value nil for a bare `return`).
type Return struct {
	base
	Value Expr
}

func (Return) stmt() {}

// If is `if test: body else: orelse` (orelse nil if absent; an `elif`
// chain is represented as a single-statement If in OrElse).
type If struct {
	base
	Test   Expr
	Body   []Stmt
	OrElse []Stmt
}

func (If) stmt() {}

// For is `for target in iter: body`; target is Name or a flat
// TupleExpr (no nested unpacking), per analyzer.py's visit_For.
type For struct {
	base
	Target Expr
	Iter   Expr
	Body   []Stmt
}

func (For) stmt() {}

// While is `while test: body`.
type While struct {
	base
	Test Expr
	Body []Stmt
}

func (While) stmt() {}

// Pass is a no-op placeholder statement.
type Pass struct {
	base
}

func (Pass) stmt() {}

// Assert is `assert test` or `assert test, msg` (msg nil if absent).
// When test is `isinstance(x, T)`, inference narrows x's type for the
// rest of the enclosing body — see SPEC_FULL.md §4.D's narrowing rule.
type Assert struct {
	base
	Test Expr
	Msg  Expr
}

func (Assert) stmt() {}

// Raise is `raise exc` (exc nil for a bare re-raise).
type Raise struct {
	base
	Exc Expr
}

func (Raise) stmt() {}

// ExprStmt is an expression evaluated for its side effect (a bare call,
// or a yield wrapped for the custom-element style-class harvesting
// pass — see the Call-Graph Pruner's `tw(...)` handling).
type ExprStmt struct {
	base
	Value Expr
}

func (ExprStmt) stmt() {}
