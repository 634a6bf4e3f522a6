package outline

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/astview/internal/asttree"
)

var (
	colorType = lipgloss.Color("39")
	colorDim  = lipgloss.Color("241")

	typeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorType)

	spanStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	guideStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Options controls outline output.
type Options struct {
	Plain    bool // no terminal styling
	MaxDepth int  // 0 means unlimited
}

// Write prints the tree one node per line, indented two spaces per level.
func Write(w io.Writer, root *asttree.Node, opts Options) error {
	bw := bufio.NewWriter(w)
	asttree.Walk(root, func(n *asttree.Node, depth int) bool {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return false
		}
		bw.WriteString(line(n, depth, opts.Plain))
		bw.WriteByte('\n')
		return true
	})
	return bw.Flush()
}

func line(n *asttree.Node, depth int, plain bool) string {
	indent := strings.Repeat("  ", depth)
	if plain {
		return indent + n.Label()
	}

	var b strings.Builder
	if depth > 0 {
		b.WriteString(guideStyle.Render(strings.Repeat("│ ", depth-1) + "├ "))
	}
	b.WriteString(typeStyle.Render(n.Type))
	if n.Span != nil {
		b.WriteString(" ")
		b.WriteString(spanStyle.Render(n.Span.String()))
	}
	return b.String()
}
