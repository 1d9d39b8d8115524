package ast

import "fmt"

// WrapMethodSource wraps a bare method body (dedented source text taken
// from a `@js.inline`/`@js.source` decorator payload, or from a
// full-body-rewrite hook) in a throwaway class header so Ingest's
// single-entry grammar — which only parses complete modules — can parse
// a lone method. Reparsing a wrapped snippet and pulling the first
// FunctionDef out of the synthetic class mirrors Function.from_py_func's
// "dummy class header" trick in the original implementation.
func WrapMethodSource(methodSrc string) string {
	return fmt.Sprintf("class __reparse__:\n%s", indentBlock(methodSrc))
}

func indentBlock(src string) string {
	out := make([]byte, 0, len(src)+len(src)/8+1)
	atLineStart := true
	for i := 0; i < len(src); i++ {
		c := src[i]
		if atLineStart && c != '\n' {
			out = append(out, ' ', ' ', ' ', ' ')
			atLineStart = false
		}
		out = append(out, c)
		if c == '\n' {
			atLineStart = true
		}
	}
	return string(out)
}

// UnwrapReparsedMethod extracts the single FunctionDef produced by
// reparsing WrapMethodSource's output.
func UnwrapReparsedMethod(file *File) (*FunctionDef, bool) {
	if len(file.Body) != 1 {
		return nil, false
	}
	cls, ok := file.Body[0].(*ClassDef)
	if !ok || len(cls.Body) == 0 {
		return nil, false
	}
	fn, ok := cls.Body[0].(*FunctionDef)
	return fn, ok
}
