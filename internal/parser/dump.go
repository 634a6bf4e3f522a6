package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dgallion1/astview/internal/asttree"
)

// RootType is the type of the first record of every valid dump. Anything
// else at the top of the text is the compiler's error report.
const RootType = "Program"

// ErrNoProgram is returned by Parse when the text is not an AST dump.
var ErrNoProgram = errors.New("dump does not start with a Program record")

// Record is one decoded dump line.
type Record struct {
	Type  string
	Level int
	Span  *asttree.Span
}

// ParseDump rebuilds the tree encoded in a compiler dump. It returns nil
// unless the very first line of the text is the Program record, unindented.
// Anything else, leading blank lines included, is an error report.
//
// After the root, blank lines and lines that cannot be decoded are skipped,
// and so are unindented lines (a dump has exactly one root). The remaining
// records are attached as if the skipped lines had never been there.
func ParseDump(dumpText string) *asttree.Node {
	first, rest, _ := strings.Cut(dumpText, "\n")
	first = strings.TrimRight(first, "\r")
	if !strings.HasPrefix(first, RootType) {
		return nil
	}
	root, ok := DecodeLine(first)
	if !ok || root.Type != RootType {
		return nil
	}

	lines := splitLines(rest)
	records := make([]Record, 0, len(lines)+1)
	records = append(records, root)
	for _, line := range lines {
		rec, ok := DecodeLine(line)
		if !ok || rec.Level == 0 {
			continue
		}
		records = append(records, rec)
	}
	return build(records)
}

// Parse is ParseDump with an error instead of a nil tree.
func Parse(dumpText string) (*asttree.Node, error) {
	tree := ParseDump(dumpText)
	if tree == nil {
		return nil, ErrNoProgram
	}
	return tree, nil
}

// build links records into a tree in one pass. Nodes live in an arena sized
// up front so their addresses stay fixed; the ancestor stack holds arena
// indices only.
func build(records []Record) *asttree.Node {
	arena := make([]asttree.Node, len(records))
	for i, rec := range records {
		arena[i] = asttree.Node{Type: rec.Type, Level: rec.Level, Span: rec.Span}
	}

	// Every record after the root has level >= 1, so the root is never popped.
	stack := []int{0}
	for i := 1; i < len(arena); i++ {
		cur := &arena[i]
		for arena[stack[len(stack)-1]].Level >= cur.Level {
			stack = stack[:len(stack)-1]
		}
		parent := &arena[stack[len(stack)-1]]
		parent.Children = append(parent.Children, cur)
		stack = append(stack, i)
	}
	return &arena[0]
}

// DecodeLine decodes one dump line. ok is false when the line is blank or
// its span suffix is malformed. Span bounds are unsigned decimal numbers.
func DecodeLine(line string) (rec Record, ok bool) {
	line = strings.TrimRight(line, "\r")
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	rest := line[indent:]

	typ, spanText, hasSpan := strings.Cut(rest, "@")
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return Record{}, false
	}
	rec = Record{Type: typ, Level: indent / 2}
	if !hasSpan {
		return rec, true
	}

	startText, endText, found := strings.Cut(strings.TrimSpace(spanText), "..")
	if !found {
		return Record{}, false
	}
	start, ok := offset(startText)
	if !ok {
		return Record{}, false
	}
	end, ok := offset(endText)
	if !ok || end < start {
		return Record{}, false
	}
	rec.Span = &asttree.Span{Start: start, End: end}
	return rec, true
}

// offset parses a span bound. Only plain decimal digits are accepted.
func offset(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := raw[:0]
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
