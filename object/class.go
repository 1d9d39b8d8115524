package object

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Class is a concrete (non-generic, or already-specialized generic)
// class: a scope holding its own methods/class variables, an optional
// single base, and a canonical Instance (`_self`) that analysis reuses
// across methods instead of minting a new Instance per call site.
type Class struct {
	Name       string
	Scope      *ClassScope
	Super      *Class
	self       *Instance
	// IsCustomElement/IsProxyElement/IsContextProxy flag the three DOM
	// base classes the Emitter's hydration pass branches on — set once,
	// on the domx registry's own root classes, and inherited down the
	// Super chain by CustomElementKind, ProxyElementKind and
	// ContextProxyKind.
	IsCustomElement bool
	IsProxyElement  bool
	IsContextProxy  bool
	Decl       any // *ast.ClassDef this class was built from, for the Emitter's declaration-order walk
}

func NewClass(name string, parent Scope, super *Class) *Class {
	c := &Class{Name: name, Super: super}
	c.Scope = NewClassScope(parent, c)
	c.self = NewInstance(c)
	return c
}

func (c *Class) TypeName() string { return c.Name }
func (*Class) value()             {}

// Self is the canonical Instance of this class, shared across all of
// its own methods' `self` bindings.
func (c *Class) Self() *Instance { return c.self }

// Init returns the class's own `__init__`, if defined (not inherited —
// callers walk Super themselves when an override isn't present).
func (c *Class) Init() (*Function, bool) {
	v, ok := c.Scope.lookupLocal("__init__")
	if !ok {
		return nil, false
	}
	fn, ok := v.(*Function)
	return fn, ok
}

// Find resolves a method or class attribute by walking this class's
// own scope, then its Super chain.
func (c *Class) Find(name string) (Value, bool) {
	for cls := c; cls != nil; cls = cls.Super {
		if v, ok := cls.Scope.lookupLocal(name); ok {
			return v, true
		}
	}
	return nil, false
}

// FindAttr is an alias for Find used from Instance.Find, kept distinct
// to mirror the reference implementation's separate find/find_attrs
// entry points (attrs additionally considers instance-level
// annotations recorded during __init__ analysis, via the caller).
func (c *Class) FindAttr(name string) (Value, bool) { return c.Find(name) }

// FindBases returns this class's own chain of superclasses, not
// including itself.
func (c *Class) FindBases() []*Class {
	var out []*Class
	for cls := c.Super; cls != nil; cls = cls.Super {
		out = append(out, cls)
	}
	return out
}

// IsSubclassOf reports whether c is other or descends from it, used by
// the Emitter's hydration pass to recognize DOM element attributes.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls == other {
			return true
		}
	}
	return false
}

// CustomElementKind reports whether c or any ancestor is flagged
// IsCustomElement — the Go analogue of issubclass(cls, CustomElement).
func (c *Class) CustomElementKind() bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls.IsCustomElement {
			return true
		}
	}
	return false
}

// ProxyElementKind reports whether c or any ancestor is flagged
// IsProxyElement.
func (c *Class) ProxyElementKind() bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls.IsProxyElement {
			return true
		}
	}
	return false
}

// ContextProxyKind reports whether c or any ancestor is flagged
// IsContextProxy.
func (c *Class) ContextProxyKind() bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls.IsContextProxy {
			return true
		}
	}
	return false
}

// GenericClass is a class declared with type parameters
// (`class Box[T]:`). It is never instantiated directly: __call__
// specializes it into a concrete Class, keyed by a structural name
// (`Box__int`) built from the concrete type arguments, and caches the
// specialization so repeated use of the same instantiation reuses one
// Class rather than re-specializing.
type GenericClass struct {
	Name          string
	Scope         *ClassScope
	Super         *Class
	TypeParams    []string
	Decl          any // *ast.ClassDef
	specializations *lru.Cache[string, *Class]
}

func NewGenericClass(name string, parent Scope, typeParams []string) *GenericClass {
	cache, err := lru.New[string, *Class](256)
	if err != nil {
		panic(err)
	}
	g := &GenericClass{Name: name, TypeParams: typeParams, specializations: cache}
	g.Scope = NewClassScope(parent, nil)
	return g
}

func (g *GenericClass) TypeName() string { return g.Name }
func (*GenericClass) value()             {}

// StructuralName builds the cache key and the emitted class name for
// one instantiation, e.g. Specialize(["int"]) on `Box` yields
// "Box__int".
func StructuralName(base string, typeArgs []Value) string {
	parts := make([]string, len(typeArgs))
	for i, t := range typeArgs {
		parts[i] = t.TypeName()
	}
	if len(parts) == 0 {
		return base
	}
	return fmt.Sprintf("%s__%s", base, strings.Join(parts, "_"))
}

// Specialize returns the cached Class for typeArgs, building and
// caching it via build on a miss. build is supplied by package infer,
// since constructing the specialized scope requires re-walking the
// generic class's AST body with TypeParams bound to typeArgs.
func (g *GenericClass) Specialize(typeArgs []Value, build func(name string) *Class) *Class {
	key := StructuralName(g.Name, typeArgs)
	if cls, ok := g.specializations.Get(key); ok {
		return cls
	}
	cls := build(key)
	g.specializations.Add(key, cls)
	return cls
}

// Lookup reports whether typeArgs has already been specialized,
// without triggering a build — used by package infer's retry driver to
// decide whether a pending signal's specialization must still be built.
func (g *GenericClass) Lookup(typeArgs []Value) (*Class, bool) {
	return g.specializations.Get(StructuralName(g.Name, typeArgs))
}

// Specializations lists every concrete Class built from this generic
// so far, in no particular order — used by the Call-Graph Pruner,
// which must walk every instantiation actually used rather than the
// generic declaration itself.
func (g *GenericClass) Specializations() []*Class {
	keys := g.specializations.Keys()
	out := make([]*Class, 0, len(keys))
	for _, k := range keys {
		if cls, ok := g.specializations.Peek(k); ok {
			out = append(out, cls)
		}
	}
	return out
}
