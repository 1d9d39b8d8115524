package ast

// Name is a bare identifier reference: a local, enclosing, module, or
// builtins lookup, resolved by package infer against the scope chain.
type Name struct {
	base
	Id string
}

func (Name) expr() {}

// Attribute is `Value.Attr`.
type Attribute struct {
	base
	Value Expr
	Attr  string
}

func (Attribute) expr() {}

// Subscript is `Value[Slice]`.
type Subscript struct {
	base
	Value Expr
	Slice Expr
}

func (Subscript) expr() {}

// Call is a call expression; Func may itself be a Subscript (generic
// instantiation, e.g. `Counter[int](...)`) per spec.md's visit_Call rule.
type Call struct {
	base
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

func (Call) expr() {}

// Keyword is a `name=value` call argument.
type Keyword struct {
	Arg   string
	Value Expr
}

// BinOpKind enumerates the arithmetic AST operators spec.md's BIN_OPS
// table dispatches on.
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mult
	Div
	FloorDiv
	Pow
	// BitOr only appears in type-annotation position (`int | str`); it
	// has no runtime dunder and is never emitted as a value expression.
	BitOr
)

// BinOp is a binary arithmetic expression.
type BinOp struct {
	base
	Left, Right Expr
	Op          BinOpKind
}

func (BinOp) expr() {}

// BoolOpKind enumerates the short-circuit boolean connectives.
type BoolOpKind int

const (
	And BoolOpKind = iota
	Or
)

// BoolOp is `a and b` / `a or b`; values may chain (a and b and c).
type BoolOp struct {
	base
	Op     BoolOpKind
	Values []Expr
}

func (BoolOp) expr() {}

// CompareOpKind enumerates the comparison operators spec.md's COMPARE_OPS
// table dispatches on, including the pyjs-specific `is`/`is not` synonyms.
type CompareOpKind int

const (
	Lt CompareOpKind = iota
	LtE
	Gt
	GtE
	Eq
	NotEq
	Is
	IsNot
	In
	NotIn
)

// Compare is a single binary comparison (chained comparisons are not
// supported — the SL subset always produces exactly one op/comparator,
// matching analyzer.py's `assert len(node.ops) == len(node.comparators) == 1`).
type Compare struct {
	base
	Left       Expr
	Op         CompareOpKind
	Comparator Expr
}

func (Compare) expr() {}

// UnaryOpKind enumerates the unary operators.
type UnaryOpKind int

const (
	UAdd UnaryOpKind = iota
	USub
	Invert
	Not
)

// UnaryOp is a unary expression.
type UnaryOp struct {
	base
	Op      UnaryOpKind
	Operand Expr
}

func (UnaryOp) expr() {}

// ConstKind tags the Go-native value held by a Constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstStr
	ConstBool
	ConstNone
)

// Constant is a literal int/float/str/bool/None.
type Constant struct {
	base
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func (Constant) expr() {}

// List is a list display `[e1, e2, ...]`.
type List struct {
	base
	Elts []Expr
}

func (List) expr() {}

// TupleExpr is a tuple display `(e1, e2, ...)`.
type TupleExpr struct {
	base
	Elts []Expr
}

func (TupleExpr) expr() {}

// SetExpr is a set display `{e1, e2, ...}`.
type SetExpr struct {
	base
	Elts []Expr
}

func (SetExpr) expr() {}

// DictEntry is one `key: value` pair of a Dict display.
type DictEntry struct {
	Key   Expr // nil for a `**other` unpacking entry
	Value Expr
}

// Dict is a dict display `{k1: v1, ...}`.
type Dict struct {
	base
	Entries []DictEntry
}

func (Dict) expr() {}

// Starred is `*value`, valid in call arguments.
type Starred struct {
	base
	Value Expr
}

func (Starred) expr() {}

// IfExp is the conditional expression `body if test else orelse`.
type IfExp struct {
	base
	Test, Body, OrElse Expr
}

func (IfExp) expr() {}

// Comprehension is the `for target in iter` clause of a ListComp; the SL
// subset supports a single generator clause with no filter, matching
// analyzer.py's visit_ListComp (`node.generators[0]`, no `if` chain).
type Comprehension struct {
	Target Expr
	Iter   Expr
}

// ListComp is `[elt for target in iter]`.
type ListComp struct {
	base
	Elt       Expr
	Generator Comprehension
}

func (ListComp) expr() {}

// Lambda is `lambda args: body`.
type Lambda struct {
	base
	Args []string
	Body Expr
}

func (Lambda) expr() {}

// JoinedStr is an f-string: a sequence of literal and interpolated parts.
type JoinedStr struct {
	base
	Values []Expr // Constant (ConstStr) or FormattedValue
}

func (JoinedStr) expr() {}

// FormattedValue is one `{expr}` interpolation inside an f-string.
type FormattedValue struct {
	base
	Value Expr
}

func (FormattedValue) expr() {}
