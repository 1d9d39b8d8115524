package emit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/duallang/duoc/ast"
	"github.com/duallang/duoc/object"
)

// emitClass prints one class definition: single inheritance, then its
// own methods in source order, then the custom-element registration
// epilogue if applicable. Grounded on Transpiler.visit_ClassDef.
func (e *Emitter) emitClass(cls *object.Class) error {
	decl, ok := cls.Decl.(*ast.ClassDef)
	if !ok {
		return fmt.Errorf("class %s has no declaration", cls.Name)
	}
	e.w.Fill("")
	export := "export "
	if e.exporter != nil {
		export = ""
	}
	e.w.Write(fmt.Sprintf("%sclass %s", export, cls.Name))
	if cls.Super != nil {
		e.w.Write(" extends " + cls.Super.Name)
	}
	var bodyErr error
	e.w.Block(func() {
		for _, stmt := range decl.Body {
			fd, ok := stmt.(*ast.FunctionDef)
			if !ok {
				continue
			}
			v, ok := cls.Scope.Lookup(fd.Name)
			if !ok {
				continue
			}
			fn, ok := v.(*object.Function)
			if !ok || !e.included(fn) {
				continue
			}
			if err := e.emitFunction(fn, false); err != nil {
				bodyErr = err
				return
			}
		}
	})
	if bodyErr != nil {
		return bodyErr
	}
	if cls.CustomElementKind() && cls.Name != "CustomElement" {
		e.w.Fill(fmt.Sprintf("customElements.define(%q, %s);", tagNameOf(cls.Name), cls.Name))
	}
	if e.exporter != nil {
		e.w.Fill(e.exporter(cls.Name))
	}
	return nil
}

var (
	tagBoundary1 = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	tagBoundary2 = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
)

// tagNameOf derives a kebab-case custom-element tag name from a class
// name, the same two-pass regex domx.py's CustomElementMetaclass uses
// (e.g. "MyWidget" -> "my-widget").
func tagNameOf(name string) string {
	s := tagBoundary1.ReplaceAllString(name, "$1-$2")
	s = tagBoundary2.ReplaceAllString(s, "$1-$2")
	return strings.ToLower(s)
}
