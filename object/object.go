package object

import "fmt"

// Value is implemented by every semantic value the scope chain can
// bind a name to: Module, Class, GenericClass, Function, Instance, and
// UnionType.
type Value interface {
	// TypeName is the value's display name, used both in diagnostics
	// and in generated type annotations (see the annotation round-trip
	// property).
	TypeName() string
	value()
}

// DependencyError describes evaluation of some Value that requires
// another Function or GenericClass specialization to have finished
// analysis first. Nothing in duoc raises it: Type Inference signals
// the same condition with its own unexported pending type.
type DependencyError struct {
	On Value
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("analysis of %s depends on %s, which is not yet analyzed", "<pending>", e.On.TypeName())
}

// Module is one compiled source file: an import table and a scope
// holding its top-level classes, functions, and globals.
type Module struct {
	Name       string
	Scope      *ModuleScope
	Imported   map[string]*Module // alias -> module
	IsBuiltins bool
}

func NewModule(name string) *Module {
	return &Module{Name: name, Scope: NewModuleScope(), Imported: make(map[string]*Module)}
}

func (m *Module) TypeName() string { return m.Name }
func (*Module) value()             {}

// Instance is a concrete value of some Class: a bag of attribute
// bindings plus the Class it was constructed from. Reassigning an
// attribute narrows that Instance only — find/attrs sharing lets two
// Instance values alias the same underlying attribute map (used by
// `self` across a method call and its narrowed views).
type Instance struct {
	Of    *Class
	attrs map[string]Value
}

func NewInstance(of *Class) *Instance {
	return &Instance{Of: of, attrs: make(map[string]Value)}
}

func (i *Instance) TypeName() string { return i.Of.Name }
func (*Instance) value()             {}

// Find resolves an attribute on this instance, falling back to the
// owning class's method/attribute search (own body, then bases).
func (i *Instance) Find(name string) (Value, bool) {
	if v, ok := i.attrs[name]; ok {
		return v, true
	}
	return i.Of.FindAttr(name)
}

// SetAttr narrows one attribute on this instance only.
func (i *Instance) SetAttr(name string, v Value) { i.attrs[name] = v }

// Reassign returns a new Instance sharing this one's attribute map, so
// mutations made through either view are visible through both — used
// when narrowing `self` within a method without losing sibling state.
func (i *Instance) Reassign() *Instance {
	return &Instance{Of: i.Of, attrs: i.attrs}
}
