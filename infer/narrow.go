package infer

import (
	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// applyNarrowing recognizes `isinstance(x, T)` in a condition and
// returns a LocalScope with x rebound to T, plus the scope to restore
// once the narrowed block ends. It returns (nil, currentScope) when
// the condition doesn't narrow anything.
func (v *visitor) applyNarrowing(test ast.Expr) (object.Scope, object.Scope) {
	restore := v.scope
	call, ok := test.(*ast.Call)
	if !ok {
		return nil, restore
	}
	fn, ok := call.Func.(*ast.Name)
	if !ok || fn.Id != "isinstance" || len(call.Args) != 2 {
		return nil, restore
	}
	targetName, ok := call.Args[0].(*ast.Name)
	if !ok {
		return nil, restore
	}
	cls, err := v.resolveAnnotation(call.Args[1])
	if err != nil {
		return nil, restore
	}
	local := object.NewLocalScope(v.scope)
	local.Define(targetName.Id, cls)
	return local, restore
}
