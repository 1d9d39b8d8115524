// Package html implements the HTML Serializer: rendering an
// already-constructed DOM node tree to an indented HTML fragment, the
// server-side-rendering counterpart to the Emitter's client-side JS
// output. Grounded verbatim on original_source/pyjs/server.py's write().
package html

import "github.com/duallang/duoc/emit"

// Node is a server-rendered DOM element: a tag name, its attribute and
// dataset maps (kept separate, matching HTMLElement's own
// attributes/dataset split so a `data-` prefix is only ever added
// here, not baked into caller-supplied attribute keys), and its
// children — each either a nested Node or a literal text string.
type Node struct {
	Tag     string
	Attrs   map[string]string
	Dataset map[string]string
	// Children holds *Node and string entries, matching write()'s own
	// isinstance(child, HTMLElement) / else-assert-str branch.
	Children []any
}

// voidElements is the standard HTML void element set: elements that
// never have children and always self-close, matching the explicit
// list named in the specification's expansion of write()'s behavior.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Render serializes n depth-first into an indented HTML fragment,
// reusing the Emitter's own indent-tracking Writer rather than a
// second string-builder wrapper.
func Render(n *Node) string {
	w := emit.NewWriter()
	writeNode(w, n)
	return w.String()
}

func writeNode(w *emit.Writer, n *Node) {
	var start string
	start = "<" + n.Tag
	for k, v := range n.Attrs {
		if v != "" {
			start += " " + k + `="` + v + `"`
		}
	}
	for k, v := range n.Dataset {
		if v != "" {
			start += " data-" + k + `="` + v + `"`
		}
	}

	if voidElements[n.Tag] {
		w.Fill(start + "/>")
		return
	}
	if len(n.Children) == 0 {
		w.Fill(start + "/>")
		return
	}
	w.Fill(start + ">")
	w.Indent()
	for _, child := range n.Children {
		switch c := child.(type) {
		case *Node:
			writeNode(w, c)
		case string:
			w.Fill(c)
		}
	}
	w.Dedent()
	w.Fill("</" + n.Tag + ">")
}

// Page wraps a body Node in the standard document shell (head with a
// UTF-8 meta tag and a stylesheet link, the body itself, and a script
// tag loading the bundled entry point), matching server.py's html()/
// page() pair.
func Page(body *Node, jsSrc, cssHref, scriptType string) string {
	if scriptType == "" {
		scriptType = "module"
	}
	doc := &Node{Tag: "html", Children: []any{
		&Node{Tag: "head", Children: []any{
			&Node{Tag: "meta", Attrs: map[string]string{"charset": "utf-8"}},
			&Node{Tag: "link", Attrs: map[string]string{"rel": "stylesheet", "href": cssHref}},
		}},
		&Node{Tag: "body", Children: []any{body}},
		&Node{Tag: "script", Attrs: map[string]string{"type": scriptType, "src": jsSrc}, Children: []any{" "}},
	}}
	return Render(doc)
}
