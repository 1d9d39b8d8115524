package object

// Param is one bound parameter: its declared or inferred annotation,
// and whether a default value makes it optional.
type Param struct {
	Name       string
	Annotation Value
	HasDefault bool
}

// Function is a module-level function or a method. Decl holds the
// *ast.FunctionDef it was built from as an opaque value — package
// object does not import package ast, so callers (package infer) type
// assert it back.
type Function struct {
	Name   string
	Scope  *FunctionScope
	Decl   any
	Owner  *Class // non-nil for a method
	Params []Param
	Vararg *Param
	Kwarg  *Param
	Return Value

	IsMethod      bool
	IsStatic      bool
	IsClassMethod bool
	InlineSource  string    // non-empty: a literal "{self} op {other}"-style template
	Inline        InlineFn  // non-nil: an arg-type-dependent rewrite (e.g. int_op's NotImplemented fallback)
	CallHook      Hook      // non-nil: a call-site rewriter for a @js(...)-decorated function
	HasSourceDeco bool
	ForceInclude  bool

	analyzed bool
	parent   Scope
}

// InlineFn renders a call to a builtin dunder method directly as
// target-language source, given the already-emitted operand text and
// the inferred type names of the call's arguments. Returning ok=false
// signals NotImplemented, the same sentinel the reference
// implementation's int_op closures return to fall through to a
// reflected-method retry.
type InlineFn func(self, other string, argTypes []string) (code string, ok bool)

// Hook is the general call-site rewrite customization point: given the
// already-emitted source for the call's own receiver (empty if none)
// and its positional arguments, plus each argument's inferred type
// name, it either returns replacement target-language source or
// signals ok=false to fall through to ordinary call emission. This is
// the Go analogue of a decorator function's rewrite_call method.
type Hook interface {
	Rewrite(self string, args []string, argTypes []string) (code string, ok bool)
}

// ClosureHook adapts a plain Go func into a Hook — the direct port of
// a Python decorator closure.
type ClosureHook func(self string, args []string, argTypes []string) (string, bool)

func (h ClosureHook) Rewrite(self string, args []string, argTypes []string) (string, bool) {
	return h(self, args, argTypes)
}

func NewFunction(name string, parent Scope) *Function {
	f := &Function{Name: name, parent: parent}
	f.Scope = NewFunctionScope(parent, f)
	return f
}

func (f *Function) TypeName() string { return "function" }
func (*Function) value()             {}

// Reset clears every piece of state package infer's analyzeFunction
// rebuilds, but re-seeds
// the `super` binding immediately: a method's scope must always be
// able to resolve `super`, even mid-reset, since visit_Attribute may
// run again before the rest of the signature is rebuilt.
func (f *Function) Reset() {
	f.Scope = NewFunctionScope(f.parent, f)
	f.Params = nil
	f.Vararg = nil
	f.Kwarg = nil
	f.Return = nil
	f.analyzed = false
	if f.Owner != nil {
		f.Scope.Define("super", f.Owner)
	}
}

// Analyzed reports whether package infer's analyzeFunction has
// completed at least once without raising its pending signal. Using a
// not-yet-analyzed Function during inference raises that signal.
func (f *Function) Analyzed() bool { return f.analyzed }

// MarkAnalyzed is called by package infer once a full pass over the
// function body completes with no unresolved dependency.
func (f *Function) MarkAnalyzed() { f.analyzed = true }

// AddSelf binds the implicit first parameter (`self` for an instance
// method, `cls` for a classmethod) to the given receiver type.
func (f *Function) AddSelf(name string, recv Value) {
	f.Scope.Define(name, recv)
}
