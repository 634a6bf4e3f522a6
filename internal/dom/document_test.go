package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `<ul class="ast-node" data-start="undefined" data-end="undefined"><li class="ast-child">Program</li>` +
	`<ul class="ast-node" data-start="0" data-end="3"><li class="ast-child">A @0..3</li></ul></ul>`

func TestMountTree_AssignsHandles(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.MountTree(sampleMarkup))

	labels := QueryAllByClass(d.TreePane(), "ast-child")
	require.Len(t, labels, 2)
	assert.Equal(t, "Program", TextContent(labels[0]))
	assert.Equal(t, "A @0..3", TextContent(labels[1]))

	for _, l := range labels {
		id, ok := Attr(l, AttrID)
		require.True(t, ok)
		got, err := d.ElementByID(id)
		require.NoError(t, err)
		assert.Same(t, l, got)
	}

	parent := Parent(labels[1])
	require.NotNil(t, parent)
	assert.True(t, HasClass(parent, "ast-node"))
	start, _ := Attr(parent, "data-start")
	assert.Equal(t, "0", start)
}

func TestMountTree_ForgetsPreviousContent(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.MountTree(sampleMarkup))
	old := QueryAllByClass(d.TreePane(), "ast-child")
	oldID, _ := Attr(old[0], AttrID)

	require.NoError(t, d.MountTree(sampleMarkup))
	_, err := d.ElementByID(oldID)
	assert.ErrorIs(t, err, ErrUnknownElement)
	assert.Len(t, QueryAllByClass(d.TreePane(), "ast-child"), 2)

	d.ClearTree()
	assert.Empty(t, QueryAllByClass(d.TreePane(), "ast-child"))
	assert.Equal(t, "", d.TreeHTML())
}

func TestClassHelpers(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.MountTree(sampleMarkup))
	node := QueryAllByClass(d.TreePane(), "ast-node")[0]

	AddClass(node, "highlight")
	AddClass(node, "highlight")
	v, _ := Attr(node, "class")
	assert.Equal(t, "ast-node highlight", v)
	assert.Contains(t, d.TreeHTML(), `class="ast-node highlight"`)

	RemoveClass(node, "highlight")
	v, _ = Attr(node, "class")
	assert.Equal(t, "ast-node", v)
	assert.False(t, HasClass(node, "highlight"))
}

func TestViewMode_Exclusive(t *testing.T) {
	d := NewDocument()
	assert.Equal(t, ViewTree, d.ViewMode())
	assert.True(t, d.Visible(PaneTree))
	assert.False(t, d.Visible(PaneResult))

	require.NoError(t, d.MountTree(sampleMarkup))
	d.SetResultText("tokens")
	d.SetViewMode(ViewText)
	assert.False(t, d.Visible(PaneTree))
	assert.True(t, d.Visible(PaneResult))

	// Toggling visibility leaves both panes' content alone.
	assert.Len(t, QueryAllByClass(d.TreePane(), "ast-child"), 2)
	assert.Equal(t, "tokens", d.ResultText())

	d.SetResultText("replaced")
	assert.Equal(t, "replaced", d.ResultText())
}

func TestDispatch(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.MountTree(sampleMarkup))
	label := QueryAllByClass(d.TreePane(), "ast-child")[1]
	id, _ := Attr(label, AttrID)

	var got []EventKind
	enter := d.AddEventListener(label, MouseEnter, func(ev Event) { got = append(got, ev.Kind) })
	d.AddEventListener(label, Click, func(ev Event) { got = append(got, ev.Kind) })
	assert.Equal(t, 2, d.ListenerCount())

	assert.Equal(t, 1, d.Dispatch(Event{Kind: MouseEnter, Target: label}))
	n, err := d.DispatchTo(id, Click)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = d.DispatchTo(id, MouseLeave)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []EventKind{MouseEnter, Click}, got)

	d.RemoveEventListener(enter)
	d.RemoveEventListener(enter)
	assert.Equal(t, 1, d.ListenerCount())
	assert.Equal(t, 0, d.Dispatch(Event{Kind: MouseEnter, Target: label}))

	_, err = d.DispatchTo(id, EventKind("dblclick"))
	assert.Error(t, err)
	_, err = d.DispatchTo("n9999", Click)
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestDispatch_HandlerRemovesLaterListener(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.MountTree(sampleMarkup))
	label := QueryAllByClass(d.TreePane(), "ast-child")[0]

	var second ListenerID
	calls := 0
	d.AddEventListener(label, Click, func(Event) {
		calls++
		d.RemoveEventListener(second)
	})
	second = d.AddEventListener(label, Click, func(Event) { calls++ })

	assert.Equal(t, 1, d.Dispatch(Event{Kind: Click, Target: label}))
	assert.Equal(t, 1, calls)
}
