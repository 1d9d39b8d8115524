// Package diagnostics implements the compiler's typed error model: one
// error kind per failure category named in the error-handling design,
// a source range on every error, and a SARIF 2.1.0 exporter alongside
// the always-on human-readable report. Grounded on
// output.SARIFFormatter's use of owenrumney/go-sarif/v2 for the SARIF
// shape, and on the error-kind enumeration itself.
package diagnostics

import (
	"fmt"

	"github.com/duallang/duoc/ast"
)

// Kind enumerates the six failure categories a translation can raise.
// Dependency is internal-only: the inference driver's retry loop uses
// it as a recoverable signal and it must never escape infer.Analyze.
type Kind int

const (
	NameResolution Kind = iota
	TypeUnderspecified
	TypeMismatch
	UnsupportedConstruct
	Dependency
	ExternalToolFailure
)

func (k Kind) String() string {
	switch k {
	case NameResolution:
		return "name-resolution"
	case TypeUnderspecified:
		return "type-underspecified"
	case TypeMismatch:
		return "type-mismatch"
	case UnsupportedConstruct:
		return "unsupported-construct"
	case Dependency:
		return "dependency"
	case ExternalToolFailure:
		return "external-tool-failure"
	}
	return "unknown"
}

// ruleID is the SARIF rule identifier for each Kind, stable across
// runs so tooling can track a specific failure category over time.
func (k Kind) ruleID() string {
	return "duoc/" + k.String()
}

// Error is one translation failure: its Kind, the source range it
// occurred at (zero Range if not tied to a specific span, e.g. an
// external-tool failure), the module it was raised in, and a message.
type Error struct {
	Kind    Kind
	Module  string
	Range   ast.Range
	Message string
}

func (e *Error) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Module, e.Range.StartLine, e.Range.StartCol, e.Kind, e.Message)
}

// New builds one Error, the constructor every compiler phase is
// expected to raise failures through rather than a bare fmt.Errorf, so
// the CLI can always recover a Kind/Range/Module triple for reporting.
func New(kind Kind, module string, rng ast.Range, format string, args ...any) *Error {
	return &Error{Kind: kind, Module: module, Range: rng, Message: fmt.Sprintf(format, args...)}
}
