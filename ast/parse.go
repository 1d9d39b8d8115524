package ast

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parse ingests one module's source text into a File. It shells out to
// no external process: go-tree-sitter embeds the grammar, matching how
// the rest of the toolchain's CST consumers work.
func Parse(name string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parse %s: syntax error near line %d", name, root.StartPoint().Row+1)
	}
	b := &builder{src: src, name: name}
	body := b.block(root)
	if b.err != nil {
		return nil, b.err
	}
	return &File{base: base{Range: rangeOf(root)}, Name: name, Body: body}, nil
}

type builder struct {
	src  []byte
	name string
	err  error
}

func rangeOf(n *sitter.Node) Range {
	s, e := n.StartPoint(), n.EndPoint()
	return Range{
		StartLine: int(s.Row) + 1, StartCol: int(s.Column),
		EndLine: int(e.Row) + 1, EndCol: int(e.Column),
	}
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

func (b *builder) fail(n *sitter.Node, format string, args ...any) {
	if b.err != nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	b.err = fmt.Errorf("%s:%d: %s", b.name, n.StartPoint().Row+1, msg)
}

// block walks a sequence of statement siblings (a module body or an
// indented "block" node) into []Stmt, skipping comments and the bare
// punctuation tokens tree-sitter's Python grammar interleaves.
func (b *builder) block(n *sitter.Node) []Stmt {
	var out []Stmt
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if s := b.stmt(child); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (b *builder) stmt(n *sitter.Node) Stmt {
	switch n.Type() {
	case "decorated_definition":
		decorators := b.decorators(n)
		def := n.NamedChild(int(n.NamedChildCount()) - 1)
		s := b.stmt(def)
		switch d := s.(type) {
		case *FunctionDef:
			d.Decorators = decorators
			return d
		case *ClassDef:
			d.Decorators = decorators
			return d
		}
		return s

	case "function_definition":
		return b.funcDef(n, false)

	case "class_definition":
		return b.classDef(n)

	case "expression_statement":
		return b.exprStatement(n)

	case "assignment":
		return b.assignment(n)

	case "augmented_assignment":
		return b.augAssignment(n)

	case "return_statement":
		r := &Return{base: base{Range: rangeOf(n)}}
		if v := n.NamedChild(0); v != nil {
			r.Value = b.expr(v)
		}
		return r

	case "if_statement":
		return b.ifStatement(n)

	case "for_statement":
		return &For{
			base:   base{Range: rangeOf(n)},
			Target: b.expr(n.ChildByFieldName("left")),
			Iter:   b.expr(n.ChildByFieldName("right")),
			Body:   b.block(n.ChildByFieldName("body")),
		}

	case "while_statement":
		return &While{
			base: base{Range: rangeOf(n)},
			Test: b.expr(n.ChildByFieldName("condition")),
			Body: b.block(n.ChildByFieldName("body")),
		}

	case "pass_statement":
		return &Pass{base: base{Range: rangeOf(n)}}

	case "assert_statement":
		a := &Assert{base: base{Range: rangeOf(n)}, Test: b.expr(n.NamedChild(0))}
		if n.NamedChildCount() > 1 {
			a.Msg = b.expr(n.NamedChild(1))
		}
		return a

	case "raise_statement":
		r := &Raise{base: base{Range: rangeOf(n)}}
		if v := n.NamedChild(0); v != nil {
			r.Exc = b.expr(v)
		}
		return r

	case "break_statement", "continue_statement":
		// Loop control outside the SL's reachable surface is still valid
		// Python; represent as pass-through ExprStmt of a marker Name so
		// the Emitter can special-case it without a dedicated node type.
		return &ExprStmt{base: base{Range: rangeOf(n)}, Value: &Name{base: base{Range: rangeOf(n)}, Id: n.Type()}}

	default:
		b.fail(n, "unsupported statement %q", n.Type())
		return nil
	}
}

func (b *builder) decorators(n *sitter.Node) []Decorator {
	var out []Decorator
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() != "decorator" {
			continue
		}
		target := c.NamedChild(0)
		d := Decorator{}
		switch target.Type() {
		case "identifier":
			d.Name = b.text(target)
		case "call":
			fn := target.ChildByFieldName("function")
			d.Name = b.text(fn)
			args := target.ChildByFieldName("arguments")
			if args != nil {
				for j := 0; j < int(args.NamedChildCount()); j++ {
					arg := args.NamedChild(j)
					if arg.Type() == "keyword_argument" {
						d.Keywords = append(d.Keywords, Keyword{
							Arg:   b.text(arg.ChildByFieldName("name")),
							Value: b.expr(arg.ChildByFieldName("value")),
						})
						continue
					}
					d.Args = append(d.Args, b.expr(arg))
				}
			}
		case "attribute":
			// e.g. `@__init__.inline` re-decoration: Attr names the facet.
			d.Name = b.text(target.ChildByFieldName("attribute"))
		default:
			d.Name = b.text(target)
		}
		out = append(out, d)
	}
	return out
}

func (b *builder) funcDef(n *sitter.Node, isAsync bool) *FunctionDef {
	fn := &FunctionDef{
		base:    base{Range: rangeOf(n)},
		Name:    b.text(n.ChildByFieldName("name")),
		IsAsync: isAsync,
		Body:    b.block(n.ChildByFieldName("body")),
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		fn.Returns = b.expr(rt)
	}
	fn.Args = b.arguments(n.ChildByFieldName("parameters"))
	return fn
}

func (b *builder) arguments(n *sitter.Node) Arguments {
	var args Arguments
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "identifier":
			args.Args = append(args.Args, Arg{Name: b.text(p)})
		case "typed_parameter":
			name := b.text(p.NamedChild(0))
			var ann Expr
			if p.NamedChildCount() > 1 {
				ann = b.expr(p.NamedChild(1))
			}
			args.Args = append(args.Args, Arg{Name: name, Annotation: ann})
		case "default_parameter":
			args.Args = append(args.Args, Arg{
				Name:    b.text(p.ChildByFieldName("name")),
				Default: b.expr(p.ChildByFieldName("value")),
			})
		case "typed_default_parameter":
			args.Args = append(args.Args, Arg{
				Name:       b.text(p.ChildByFieldName("name")),
				Annotation: b.expr(p.ChildByFieldName("type")),
				Default:    b.expr(p.ChildByFieldName("value")),
			})
		case "list_splat_pattern":
			a := Arg{Name: b.text(p.NamedChild(0))}
			args.Vararg = &a
		case "dictionary_splat_pattern":
			a := Arg{Name: b.text(p.NamedChild(0))}
			args.Kwarg = &a
		case "typed_parameter_with_default":
			// grammar alias used in some versions; treat as typed+default
			args.Args = append(args.Args, Arg{
				Name:       b.text(p.ChildByFieldName("name")),
				Annotation: b.expr(p.ChildByFieldName("type")),
				Default:    b.expr(p.ChildByFieldName("value")),
			})
		}
	}
	return args
}

func (b *builder) classDef(n *sitter.Node) *ClassDef {
	cd := &ClassDef{
		base: base{Range: rangeOf(n)},
		Name: b.text(n.ChildByFieldName("name")),
		Body: b.block(n.ChildByFieldName("body")),
	}
	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		for i := 0; i < int(bases.NamedChildCount()); i++ {
			base := bases.NamedChild(i)
			if base.Type() == "identifier" {
				cd.Base = b.text(base)
				break
			}
			// Type-parameterized base / metaclass keyword args are read
			// for their name only; generic parameters come from the
			// class's own `__type_params__`/subscript header, not here.
		}
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		for i := 0; i < int(tp.NamedChildCount()); i++ {
			cd.TypeParams = append(cd.TypeParams, b.text(tp.NamedChild(i)))
		}
	}
	return cd
}

func (b *builder) exprStatement(n *sitter.Node) Stmt {
	if n.NamedChildCount() == 0 {
		return &Pass{base: base{Range: rangeOf(n)}}
	}
	inner := n.NamedChild(0)
	if inner.Type() == "assignment" {
		return b.assignment(inner)
	}
	return &ExprStmt{base: base{Range: rangeOf(n)}, Value: b.expr(inner)}
}

func (b *builder) assignment(n *sitter.Node) Stmt {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	target := b.expr(left)
	if ann := n.ChildByFieldName("type"); ann != nil {
		a := &AnnAssign{base: base{Range: rangeOf(n)}, Target: target, Annotation: b.expr(ann)}
		if right != nil {
			a.Value = b.expr(right)
		}
		return a
	}
	return &Assign{base: base{Range: rangeOf(n)}, Target: target, Value: b.expr(right)}
}

var augOps = map[string]BinOpKind{
	"+=": Add, "-=": Sub, "*=": Mult, "/=": Div, "//=": FloorDiv, "**=": Pow,
}

func (b *builder) augAssignment(n *sitter.Node) Stmt {
	opText := b.text(n.ChildByFieldName("operator"))
	op, ok := augOps[opText]
	if !ok {
		b.fail(n, "unsupported augmented assignment operator %q", opText)
	}
	return &AugAssign{
		base:   base{Range: rangeOf(n)},
		Target: b.expr(n.ChildByFieldName("left")),
		Op:     op,
		Value:  b.expr(n.ChildByFieldName("right")),
	}
}

func (b *builder) ifStatement(n *sitter.Node) Stmt {
	s := &If{
		base: base{Range: rangeOf(n)},
		Test: b.expr(n.ChildByFieldName("condition")),
		Body: b.block(n.ChildByFieldName("consequence")),
	}
	// Every elif_clause and the optional else_clause are sibling children
	// of the if_statement; fold them right to left into nested OrElse.
	var alts []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "elif_clause" || c.Type() == "else_clause" {
			alts = append(alts, c)
		}
	}
	var orelse []Stmt
	for i := len(alts) - 1; i >= 0; i-- {
		alt := alts[i]
		if alt.Type() == "else_clause" {
			orelse = b.block(alt.ChildByFieldName("body"))
			continue
		}
		orelse = []Stmt{&If{base: base{Range: rangeOf(alt)}, Test: b.expr(alt.ChildByFieldName("condition")), Body: b.block(alt.ChildByFieldName("consequence")), OrElse: orelse}}
	}
	s.OrElse = orelse
	return s
}

var compareOps = map[string]CompareOpKind{
	"<": Lt, "<=": LtE, ">": Gt, ">=": GtE, "==": Eq, "!=": NotEq,
}

var binOps = map[string]BinOpKind{
	"+": Add, "-": Sub, "*": Mult, "/": Div, "//": FloorDiv, "**": Pow, "|": BitOr,
}

func (b *builder) expr(n *sitter.Node) Expr {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier":
		return &Name{base: base{Range: rangeOf(n)}, Id: b.text(n)}

	case "attribute":
		return &Attribute{
			base:  base{Range: rangeOf(n)},
			Value: b.expr(n.ChildByFieldName("object")),
			Attr:  b.text(n.ChildByFieldName("attribute")),
		}

	case "subscript":
		return &Subscript{
			base:  base{Range: rangeOf(n)},
			Value: b.expr(n.ChildByFieldName("value")),
			Slice: b.expr(n.ChildByFieldName("subscript")),
		}

	case "call":
		return b.call(n)

	case "binary_operator":
		opText := b.text(n.ChildByFieldName("operator"))
		op, ok := binOps[opText]
		if !ok {
			b.fail(n, "unsupported binary operator %q", opText)
		}
		return &BinOp{
			base: base{Range: rangeOf(n)}, Op: op,
			Left: b.expr(n.ChildByFieldName("left")), Right: b.expr(n.ChildByFieldName("right")),
		}

	case "boolean_operator":
		opText := b.text(n.ChildByFieldName("operator"))
		kind := And
		if opText == "or" {
			kind = Or
		}
		return &BoolOp{
			base: base{Range: rangeOf(n)}, Op: kind,
			Values: []Expr{b.expr(n.ChildByFieldName("left")), b.expr(n.ChildByFieldName("right"))},
		}

	case "not_operator":
		return &UnaryOp{base: base{Range: rangeOf(n)}, Op: Not, Operand: b.expr(n.ChildByFieldName("argument"))}

	case "unary_operator":
		opText := b.text(n.ChildByFieldName("operator"))
		kind := UAdd
		switch opText {
		case "-":
			kind = USub
		case "~":
			kind = Invert
		case "+":
			kind = UAdd
		}
		return &UnaryOp{base: base{Range: rangeOf(n)}, Op: kind, Operand: b.expr(n.ChildByFieldName("argument"))}

	case "comparison_operator":
		return b.comparison(n)

	case "integer":
		v, _ := strconv.ParseInt(b.text(n), 0, 64)
		return &Constant{base: base{Range: rangeOf(n)}, Kind: ConstInt, Int: v}

	case "float":
		v, _ := strconv.ParseFloat(b.text(n), 64)
		return &Constant{base: base{Range: rangeOf(n)}, Kind: ConstFloat, Float: v}

	case "true":
		return &Constant{base: base{Range: rangeOf(n)}, Kind: ConstBool, Bool: true}

	case "false":
		return &Constant{base: base{Range: rangeOf(n)}, Kind: ConstBool, Bool: false}

	case "none":
		return &Constant{base: base{Range: rangeOf(n)}, Kind: ConstNone}

	case "string":
		return b.stringExpr(n)

	case "list":
		return &List{base: base{Range: rangeOf(n)}, Elts: b.exprList(n)}

	case "set":
		return &SetExpr{base: base{Range: rangeOf(n)}, Elts: b.exprList(n)}

	case "tuple":
		return &TupleExpr{base: base{Range: rangeOf(n)}, Elts: b.exprList(n)}

	case "dictionary":
		return b.dictExpr(n)

	case "list_splat":
		return &Starred{base: base{Range: rangeOf(n)}, Value: b.expr(n.NamedChild(0))}

	case "conditional_expression":
		// grammar shape: <body> if <test> else <orelse>
		body := n.NamedChild(0)
		test := n.NamedChild(1)
		orelse := n.NamedChild(2)
		return &IfExp{base: base{Range: rangeOf(n)}, Test: b.expr(test), Body: b.expr(body), OrElse: b.expr(orelse)}

	case "list_comprehension":
		return b.listComp(n)

	case "lambda":
		l := &Lambda{base: base{Range: rangeOf(n)}}
		if params := n.ChildByFieldName("parameters"); params != nil {
			for i := 0; i < int(params.NamedChildCount()); i++ {
				l.Args = append(l.Args, b.text(params.NamedChild(i)))
			}
		}
		l.Body = b.expr(n.ChildByFieldName("body"))
		return l

	case "parenthesized_expression":
		return b.expr(n.NamedChild(0))

	case "keyword_argument":
		// only reachable when a caller mistakenly treats it as a value
		return b.expr(n.ChildByFieldName("value"))

	default:
		b.fail(n, "unsupported expression %q", n.Type())
		return nil
	}
}

func (b *builder) call(n *sitter.Node) *Call {
	c := &Call{base: base{Range: rangeOf(n)}, Func: b.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return c
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		a := args.NamedChild(i)
		if a.Type() == "keyword_argument" {
			c.Keywords = append(c.Keywords, Keyword{
				Arg:   b.text(a.ChildByFieldName("name")),
				Value: b.expr(a.ChildByFieldName("value")),
			})
			continue
		}
		c.Args = append(c.Args, b.expr(a))
	}
	return c
}

func (b *builder) comparison(n *sitter.Node) Expr {
	// comparison_operator has no named "operator" field; operands and the
	// infix operator token are positional children.
	left := n.NamedChild(0)
	opNode := n.Child(1)
	right := n.NamedChild(1)
	opText := b.text(opNode)

	var kind CompareOpKind
	switch opText {
	case "is":
		kind = Is
	case "in":
		kind = In
	case "not":
		// "is not" / "not in": the grammar emits two tokens; peek ahead.
		next := b.text(n.Child(2))
		if next == "in" {
			kind = NotIn
			right = n.NamedChild(1)
		} else {
			kind = IsNot
			right = n.NamedChild(1)
		}
	default:
		if k, ok := compareOps[opText]; ok {
			kind = k
		} else if opText == "is" {
			kind = Is
		} else {
			b.fail(n, "unsupported comparison operator %q", opText)
		}
	}
	// "is not" spans two anonymous tokens ("is", "not"); re-check.
	if opText == "is" && n.ChildCount() > 3 {
		if mid := b.text(n.Child(2)); mid == "not" {
			kind = IsNot
		}
	}
	return &Compare{base: base{Range: rangeOf(n)}, Left: b.expr(left), Op: kind, Comparator: b.expr(right)}
}

func (b *builder) exprList(n *sitter.Node) []Expr {
	var out []Expr
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, b.expr(n.NamedChild(i)))
	}
	return out
}

func (b *builder) dictExpr(n *sitter.Node) *Dict {
	d := &Dict{base: base{Range: rangeOf(n)}}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		pair := n.NamedChild(i)
		switch pair.Type() {
		case "pair":
			d.Entries = append(d.Entries, DictEntry{
				Key:   b.expr(pair.ChildByFieldName("key")),
				Value: b.expr(pair.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			d.Entries = append(d.Entries, DictEntry{Key: nil, Value: b.expr(pair.NamedChild(0))})
		}
	}
	return d
}

func (b *builder) listComp(n *sitter.Node) *ListComp {
	lc := &ListComp{base: base{Range: rangeOf(n)}, Elt: b.expr(n.ChildByFieldName("body"))}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "for_in_clause" {
			continue
		}
		lc.Generator = Comprehension{
			Target: b.expr(c.ChildByFieldName("left")),
			Iter:   b.expr(c.ChildByFieldName("right")),
		}
		break
	}
	return lc
}

// stringExpr handles both a plain string literal and an f-string, whose
// tree-sitter grammar represents interpolations as nested
// "interpolation" nodes inside the "string" node.
func (b *builder) stringExpr(n *sitter.Node) Expr {
	var parts []Expr
	hasInterp := false
	var lit strings.Builder

	flush := func(r Range) {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, &Constant{base: base{Range: r}, Kind: ConstStr, Str: lit.String()})
		lit.Reset()
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		switch c.Type() {
		case "interpolation":
			hasInterp = true
			flush(rangeOf(c))
			expr := c.NamedChild(0)
			parts = append(parts, &FormattedValue{base: base{Range: rangeOf(c)}, Value: b.expr(expr)})
		case "string_start", "string_end":
			// quote/prefix delimiters, not content
		case "string_content", "escape_sequence":
			lit.WriteString(b.text(c))
		}
	}
	flush(rangeOf(n))

	if !hasInterp {
		if len(parts) == 0 {
			return &Constant{base: base{Range: rangeOf(n)}, Kind: ConstStr, Str: stripQuotes(b.text(n))}
		}
		return parts[0]
	}
	return &JoinedStr{base: base{Range: rangeOf(n)}, Values: parts}
}

func stripQuotes(s string) string {
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
