package selection

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dgallion1/astview/internal/dom"
	"github.com/dgallion1/astview/internal/editor"
	"github.com/dgallion1/astview/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type recordingPort struct {
	calls [][2]int
}

func (p *recordingPort) SelectRange(start, end int) error {
	p.calls = append(p.calls, [2]int{start, end})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mount renders dump into a fresh document and returns the labels by text.
func mount(t *testing.T, dump string) (*dom.Document, map[string]*html.Node) {
	t.Helper()
	doc := dom.NewDocument()
	require.NoError(t, doc.MountTree(render.RenderTree(dump)))
	labels := make(map[string]*html.Node)
	for _, l := range dom.QueryAllByClass(doc.TreePane(), render.ClassLabel) {
		labels[dom.TextContent(l)] = l
	}
	return doc, labels
}

func TestClick_SelectsSpan(t *testing.T) {
	doc, labels := mount(t, "Program\n  Call@5..9\n")
	port := &recordingPort{}
	c := NewController(doc, port, discardLogger())
	assert.Equal(t, 2, c.BindInteractions())

	doc.Dispatch(dom.Event{Kind: dom.Click, Target: labels["Call @5..9"]})
	assert.Equal(t, [][2]int{{5, 9}}, port.calls)
}

func TestClick_UndefinedSpanIsSilent(t *testing.T) {
	doc, labels := mount(t, "Program\n  <Initializer>\n")
	port := &recordingPort{}
	c := NewController(doc, port, discardLogger())
	c.BindInteractions()

	doc.Dispatch(dom.Event{Kind: dom.Click, Target: labels["Program"]})
	doc.Dispatch(dom.Event{Kind: dom.Click, Target: labels["<Initializer>"]})
	assert.Empty(t, port.calls)
}

func TestClick_MovesEditorCaret(t *testing.T) {
	doc, labels := mount(t, "Program @0..14\n  Identifier(main) @5..9\n")
	buf := editor.NewBuffer(editor.UnitRune)
	buf.SetText("void main() {}")
	c := NewController(doc, buf, discardLogger())
	c.BindInteractions()

	doc.Dispatch(dom.Event{Kind: dom.Click, Target: labels["Identifier(main) @5..9"]})
	assert.Equal(t, editor.Selection{Anchor: 5, Head: 9}, buf.Selection())
	assert.Equal(t, "main", buf.SelectedText())
}

func TestClick_OutOfRangeSpanIsLoggedNotFatal(t *testing.T) {
	doc, labels := mount(t, "Program\n  Far@50..90\n")
	buf := editor.NewBuffer(editor.UnitRune)
	buf.SetText("short")
	c := NewController(doc, buf, discardLogger())
	c.BindInteractions()

	assert.NotPanics(t, func() {
		doc.Dispatch(dom.Event{Kind: dom.Click, Target: labels["Far @50..90"]})
	})
	assert.True(t, buf.Selection().IsEmpty())
}

func TestHover_TogglesHighlight(t *testing.T) {
	doc, labels := mount(t, "Program\n  A@0..3\n  B@3..5\n")
	c := NewController(doc, &recordingPort{}, discardLogger())
	c.BindInteractions()

	a, b := labels["A @0..3"], labels["B @3..5"]
	doc.Dispatch(dom.Event{Kind: dom.MouseEnter, Target: a})
	assert.True(t, dom.HasClass(a.Parent, render.ClassHighlight))
	assert.False(t, dom.HasClass(b.Parent, render.ClassHighlight))

	// Highlights are independent per node.
	doc.Dispatch(dom.Event{Kind: dom.MouseEnter, Target: b})
	assert.True(t, dom.HasClass(a.Parent, render.ClassHighlight))
	assert.True(t, dom.HasClass(b.Parent, render.ClassHighlight))

	doc.Dispatch(dom.Event{Kind: dom.MouseLeave, Target: a})
	assert.False(t, dom.HasClass(a.Parent, render.ClassHighlight))
	assert.True(t, dom.HasClass(b.Parent, render.ClassHighlight))
}

func TestUnbind_StaleNodesAreInert(t *testing.T) {
	doc, labels := mount(t, "Program\n  A@5..9\n")
	port := &recordingPort{}
	c := NewController(doc, port, discardLogger())
	c.BindInteractions()
	require.True(t, c.Bound())

	c.UnbindInteractions()
	assert.False(t, c.Bound())
	assert.Zero(t, doc.ListenerCount())

	a := labels["A @5..9"]
	assert.Zero(t, doc.Dispatch(dom.Event{Kind: dom.MouseEnter, Target: a}))
	assert.Zero(t, doc.Dispatch(dom.Event{Kind: dom.Click, Target: a}))
	assert.False(t, dom.HasClass(a.Parent, render.ClassHighlight))
	assert.Empty(t, port.calls)

	// Unbinding twice is harmless.
	c.UnbindInteractions()
}

func TestBind_DoesNotAccumulate(t *testing.T) {
	doc, labels := mount(t, "Program\n  A@5..9\n")
	port := &recordingPort{}
	c := NewController(doc, port, discardLogger())

	for range 3 {
		c.BindInteractions()
	}
	assert.Equal(t, 6, doc.ListenerCount())

	doc.Dispatch(dom.Event{Kind: dom.Click, Target: labels["A @5..9"]})
	assert.Len(t, port.calls, 1)
}

func TestRebindAfterRemount(t *testing.T) {
	doc, labels := mount(t, "Program\n  A@5..9\n")
	port := &recordingPort{}
	c := NewController(doc, port, discardLogger())
	c.BindInteractions()

	stale := labels["A @5..9"]
	c.UnbindInteractions()
	require.NoError(t, doc.MountTree(render.RenderTree("Program\n  B@1..2\n")))
	c.BindInteractions()

	assert.Zero(t, doc.Dispatch(dom.Event{Kind: dom.Click, Target: stale}))
	fresh := dom.QueryAllByClass(doc.TreePane(), render.ClassLabel)[1]
	assert.Equal(t, 1, doc.Dispatch(dom.Event{Kind: dom.Click, Target: fresh}))
	assert.Equal(t, [][2]int{{1, 2}}, port.calls)
}
