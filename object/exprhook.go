package object

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprHookEnv is the variable environment an ExprHook program runs
// against: the receiver's already-emitted text, each argument's
// already-emitted text, and each argument's inferred type name,
// addressable from the expression as `self`, `args`, and `argTypes`.
type ExprHookEnv struct {
	Self     string   `expr:"self"`
	Args     []string `expr:"args"`
	ArgTypes []string `expr:"argTypes"`
}

// ExprHook is a Hook whose rewrite logic is an expr-lang/expr
// expression rather than a Go closure — an enrichment over the
// reference implementation's plain Python closures, letting a call-
// site rewrite that only needs to branch on argument type names be
// written as one expression instead of a dedicated ClosureHook. The
// compiled expression must evaluate to a string (the replacement
// source) or to the empty string to signal "not applicable" (ok=false),
// mirroring InlineFn's NotImplemented fallback.
type ExprHook struct {
	program *vm.Program
	source  string
}

// NewExprHook compiles source once, at construction; compilation
// errors surface immediately rather than at first call, and the
// compiled program is reused for every call.
func NewExprHook(source string) (*ExprHook, error) {
	program, err := expr.Compile(source, expr.Env(ExprHookEnv{}))
	if err != nil {
		return nil, fmt.Errorf("compiling hook expression %q: %w", source, err)
	}
	return &ExprHook{program: program, source: source}, nil
}

// MustNewExprHook panics on a compile error, so a hook whose source is
// a Go literal fails where it is constructed. The builtins registry
// does not construct any ExprHook; its hooks are Go closures and
// templates.
func MustNewExprHook(source string) *ExprHook {
	h, err := NewExprHook(source)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *ExprHook) Rewrite(self string, args []string, argTypes []string) (string, bool) {
	out, err := expr.Run(h.program, ExprHookEnv{Self: self, Args: args, ArgTypes: argTypes})
	if err != nil {
		return "", false
	}
	s, ok := out.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
