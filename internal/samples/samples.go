package samples

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed samples.md
var catalog []byte

var ErrUnknownSample = errors.New("unknown sample")

// Sample is one example program.
type Sample struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

var (
	loadOnce sync.Once
	builtin  map[string]Sample
)

func load() map[string]Sample {
	loadOnce.Do(func() {
		builtin = Parse(catalog)
	})
	return builtin
}

// Get returns the built-in sample called name.
func Get(name string) (Sample, error) {
	s, ok := load()[strings.ToLower(name)]
	if !ok {
		return Sample{}, fmt.Errorf("%w: %s", ErrUnknownSample, name)
	}
	return s, nil
}

// Names returns the built-in sample names, sorted.
func Names() []string {
	names := make([]string, 0, len(load()))
	for name := range load() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the built-in samples sorted by name.
func All() []Sample {
	out := make([]Sample, 0, len(load()))
	for _, name := range Names() {
		out = append(out, builtin[name])
	}
	return out
}

// Parse reads a markdown catalog: every level-2 heading opens a sample, the
// first paragraph below it is the description and the first fenced code
// block is the source. Headings without a code block are dropped.
func Parse(src []byte) map[string]Sample {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	out := make(map[string]Sample)
	var cur *Sample
	flush := func() {
		if cur != nil && cur.Source != "" {
			out[cur.Name] = *cur
		}
		cur = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level > 2 {
				continue
			}
			flush()
			if node.Level == 2 {
				cur = &Sample{Name: kebab(string(node.Text(src)))}
			}
		case *ast.Paragraph:
			if cur != nil && cur.Description == "" && cur.Source == "" {
				cur.Description = strings.TrimSpace(string(node.Text(src)))
			}
		case *ast.FencedCodeBlock:
			if cur != nil && cur.Source == "" {
				cur.Source = blockLines(node, src)
			}
		}
	}
	flush()
	return out
}

func blockLines(n ast.Node, src []byte) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}

func kebab(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
