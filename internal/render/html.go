package render

import (
	"strconv"
	"strings"

	"github.com/dgallion1/astview/internal/asttree"
	"github.com/dgallion1/astview/internal/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markup vocabulary shared with the dom and selection packages.
const (
	ClassNode      = "ast-node"
	ClassLabel     = "ast-child"
	ClassHighlight = "highlight"

	AttrStart = "data-start"
	AttrEnd   = "data-end"

	// Undefined fills data-start/data-end for nodes without a span so every
	// container carries both attributes.
	Undefined = "undefined"
)

// Render turns a tree into nested <ul class="ast-node"> markup. A nil tree
// renders as the empty string.
func Render(node *asttree.Node) string {
	if node == nil {
		return ""
	}
	var buf strings.Builder
	// Rendering an in-memory tree into a strings.Builder cannot fail.
	_ = html.Render(&buf, Fragment(node))
	return buf.String()
}

// RenderTree parses a compiler dump and renders it. Invalid dumps render
// as the empty string.
func RenderTree(dumpText string) string {
	return Render(parser.ParseDump(dumpText))
}

// Fragment builds the html node tree for node without serializing it.
func Fragment(node *asttree.Node) *html.Node {
	start, end := Undefined, Undefined
	if node.HasSpan() {
		start = strconv.Itoa(node.Span.Start)
		end = strconv.Itoa(node.Span.End)
	}

	ul := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Ul,
		Data:     "ul",
		Attr: []html.Attribute{
			{Key: "class", Val: ClassNode},
			{Key: AttrStart, Val: start},
			{Key: AttrEnd, Val: end},
		},
	}
	li := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Li,
		Data:     "li",
		Attr:     []html.Attribute{{Key: "class", Val: ClassLabel}},
	}
	li.AppendChild(&html.Node{Type: html.TextNode, Data: node.Label()})
	ul.AppendChild(li)

	for _, c := range node.Children {
		ul.AppendChild(Fragment(c))
	}
	return ul
}
