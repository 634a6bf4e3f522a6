// Package dom is a small server-side document model for the playground
// page: a tree pane holding rendered AST markup, a plain-text result pane,
// class-list helpers and a synchronous event dispatcher.
package dom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Pane ids, matching the element ids of the playground page.
const (
	PaneTree   = "interactive-ast"
	PaneResult = "result"
)

// AttrID holds the handle assigned to every mounted element.
const AttrID = "data-id"

var ErrUnknownElement = errors.New("unknown element")

// ViewMode selects which pane is visible.
type ViewMode int

const (
	ViewTree ViewMode = iota
	ViewText
)

func (m ViewMode) String() string {
	if m == ViewTree {
		return "tree"
	}
	return "text"
}

// Document owns the two panes and every listener attached below them.
// It is not safe for concurrent use; callers serialize access.
type Document struct {
	body       *html.Node
	treePane   *html.Node
	resultPane *html.Node
	mode       ViewMode

	elements map[string]*html.Node
	nextID   int

	listeners    map[ListenerID]*listener
	byTarget     map[*html.Node][]ListenerID
	nextListener ListenerID
}

// NewDocument returns a document with an empty tree pane visible.
func NewDocument() *Document {
	d := &Document{
		body:      &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"},
		elements:  make(map[string]*html.Node),
		listeners: make(map[ListenerID]*listener),
		byTarget:  make(map[*html.Node][]ListenerID),
	}
	d.treePane = newPane(atom.Div, PaneTree)
	d.resultPane = newPane(atom.Pre, PaneResult)
	d.body.AppendChild(d.treePane)
	d.body.AppendChild(d.resultPane)
	d.SetViewMode(ViewTree)
	return d
}

func newPane(a atom.Atom, id string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "id", Val: id}},
	}
}

// TreePane returns the container of the mounted AST markup.
func (d *Document) TreePane() *html.Node {
	return d.treePane
}

// MountTree replaces the tree pane's content with markup. Elements of the
// previous content are forgotten: their handles no longer resolve. Callers
// must remove listeners on the old content first.
func (d *Document) MountTree(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	})
	if err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}

	d.ClearTree()
	for _, n := range nodes {
		d.treePane.AppendChild(n)
	}
	d.assignIDs(d.treePane)
	return nil
}

// ClearTree empties the tree pane.
func (d *Document) ClearTree() {
	for c := d.treePane.FirstChild; c != nil; {
		next := c.NextSibling
		d.forget(c)
		d.treePane.RemoveChild(c)
		c = next
	}
}

func (d *Document) assignIDs(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			id := "n" + strconv.Itoa(d.nextID)
			d.nextID++
			setAttr(c, AttrID, id)
			d.elements[id] = c
		}
		d.assignIDs(c)
	}
}

func (d *Document) forget(n *html.Node) {
	if id, ok := Attr(n, AttrID); ok {
		delete(d.elements, id)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

// ElementByID resolves a handle assigned at mount time.
func (d *Document) ElementByID(id string) (*html.Node, error) {
	n, ok := d.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	return n, nil
}

// SetResultText replaces the result pane's content with plain text.
func (d *Document) SetResultText(text string) {
	for c := d.resultPane.FirstChild; c != nil; c = d.resultPane.FirstChild {
		d.resultPane.RemoveChild(c)
	}
	d.resultPane.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// ResultText returns the result pane's text.
func (d *Document) ResultText() string {
	return TextContent(d.resultPane)
}

// SetViewMode shows one pane and hides the other. It never touches pane
// content.
func (d *Document) SetViewMode(mode ViewMode) {
	d.mode = mode
	if mode == ViewTree {
		setAttr(d.treePane, "style", "display: block")
		setAttr(d.resultPane, "style", "display: none")
		return
	}
	setAttr(d.treePane, "style", "display: none")
	setAttr(d.resultPane, "style", "display: inline-block")
}

func (d *Document) ViewMode() ViewMode {
	return d.mode
}

// Visible reports whether the pane with the given id is shown.
func (d *Document) Visible(pane string) bool {
	switch pane {
	case PaneTree:
		return d.mode == ViewTree
	case PaneResult:
		return d.mode == ViewText
	}
	return false
}

// TreeHTML serializes the tree pane's content, including live state such
// as highlight classes and element handles.
func (d *Document) TreeHTML() string {
	var buf strings.Builder
	for c := d.treePane.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// QueryAllByClass returns the elements under root carrying class, in
// document order.
func QueryAllByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && HasClass(c, class) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Parent returns the enclosing element of n, or nil.
func Parent(n *html.Node) *html.Node {
	if n == nil || n.Parent == nil || n.Parent.Type != html.ElementNode {
		return nil
	}
	return n.Parent
}

// HasClass reports whether class is in n's class list.
func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to n's class list if missing.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	if v == "" {
		setAttr(n, "class", class)
		return
	}
	setAttr(n, "class", v+" "+class)
}

// RemoveClass drops class from n's class list.
func RemoveClass(n *html.Node, class string) {
	v, ok := Attr(n, "class")
	if !ok {
		return
	}
	fields := strings.Fields(v)
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

// TextContent concatenates the text nodes below n.
func TextContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
