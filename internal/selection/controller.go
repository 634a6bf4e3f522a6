// Package selection connects a rendered AST to the editor: hovering a node
// label highlights the node, clicking it selects the node's span in the
// source text.
package selection

import (
	"log/slog"
	"strconv"

	"github.com/dgallion1/astview/internal/dom"
	"github.com/dgallion1/astview/internal/render"
	"golang.org/x/net/html"
)

// SelectionPort is the editor side of the controller. SelectRange selects
// [start, end) and places the caret at end.
type SelectionPort interface {
	SelectRange(start, end int) error
}

// Controller binds interaction to the tree pane of a document. It must be
// used from the goroutine that owns the document.
type Controller struct {
	doc    *dom.Document
	editor SelectionPort
	log    *slog.Logger

	bound []dom.ListenerID
}

func NewController(doc *dom.Document, editor SelectionPort, log *slog.Logger) *Controller {
	return &Controller{doc: doc, editor: editor, log: log}
}

// BindInteractions attaches hover and click listeners to every node label
// currently mounted and returns how many labels were bound. Listeners from
// an earlier bind are removed first.
func (c *Controller) BindInteractions() int {
	c.UnbindInteractions()

	labels := dom.QueryAllByClass(c.doc.TreePane(), render.ClassLabel)
	for _, label := range labels {
		c.bound = append(c.bound,
			c.doc.AddEventListener(label, dom.MouseEnter, c.onMouseEnter),
			c.doc.AddEventListener(label, dom.MouseLeave, c.onMouseLeave),
			c.doc.AddEventListener(label, dom.Click, c.onClick),
		)
	}
	return len(labels)
}

// UnbindInteractions removes every listener installed by BindInteractions.
// It is safe to call when nothing is bound.
func (c *Controller) UnbindInteractions() {
	for _, id := range c.bound {
		c.doc.RemoveEventListener(id)
	}
	c.bound = nil
}

// Bound reports whether listeners are currently attached.
func (c *Controller) Bound() bool {
	return len(c.bound) > 0
}

func (c *Controller) onMouseEnter(ev dom.Event) {
	if node := enclosingNode(ev.Target); node != nil {
		dom.AddClass(node, render.ClassHighlight)
	}
}

func (c *Controller) onMouseLeave(ev dom.Event) {
	if node := enclosingNode(ev.Target); node != nil {
		dom.RemoveClass(node, render.ClassHighlight)
	}
}

func (c *Controller) onClick(ev dom.Event) {
	node := enclosingNode(ev.Target)
	if node == nil {
		return
	}
	startText, _ := dom.Attr(node, render.AttrStart)
	if startText == render.Undefined || startText == "" {
		return
	}
	endText, _ := dom.Attr(node, render.AttrEnd)

	start, err := strconv.Atoi(startText)
	if err != nil {
		c.log.Warn("ignoring click on node with bad span", "start", startText, "error", err)
		return
	}
	end, err := strconv.Atoi(endText)
	if err != nil {
		c.log.Warn("ignoring click on node with bad span", "end", endText, "error", err)
		return
	}
	c.onNodeSelected(start, end)
}

// onNodeSelected is the only path from the tree to the editor.
func (c *Controller) onNodeSelected(start, end int) {
	if err := c.editor.SelectRange(start, end); err != nil {
		c.log.Warn("selection rejected by editor", "start", start, "end", end, "error", err)
	}
}

func enclosingNode(label *html.Node) *html.Node {
	parent := dom.Parent(label)
	if parent == nil || !dom.HasClass(parent, render.ClassNode) {
		return nil
	}
	return parent
}
