package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/astview/internal/asttree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDump_TwoSiblings(t *testing.T) {
	root := ParseDump("Program\n  A@0..3\n  B@3..5\n")
	require.NotNil(t, root)
	assert.Equal(t, "Program", root.Type)
	assert.Zero(t, root.Level)
	assert.False(t, root.HasSpan())
	require.Len(t, root.Children, 2)

	want := []struct {
		typ  string
		span asttree.Span
	}{
		{"A", asttree.Span{Start: 0, End: 3}},
		{"B", asttree.Span{Start: 3, End: 5}},
	}
	for i, w := range want {
		c := root.Children[i]
		assert.Equal(t, w.typ, c.Type)
		assert.Equal(t, 1, c.Level)
		require.NotNil(t, c.Span)
		assert.Equal(t, w.span, *c.Span)
	}
}

func TestParseDump_PopsUntilParentFound(t *testing.T) {
	root := ParseDump("Program\n  A@0..10\n    B@1..3\n  C@4..8\n")
	require.NotNil(t, root)
	require.Len(t, root.Children, 2)

	a, c := root.Children[0], root.Children[1]
	assert.Equal(t, "A", a.Type)
	assert.Equal(t, "C", c.Type)
	assert.Equal(t, 1, c.Level)
	require.Len(t, a.Children, 1)
	assert.Equal(t, "B", a.Children[0].Type)
	assert.Equal(t, 2, a.Children[0].Level)
	assert.Empty(t, c.Children)
}

func TestParseDump_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"blank lines", "\n\n   \n"},
		{"wrong root", "NotProgram\nfoo"},
		{"compiler error", "error: expected `;`\n  ┌─ main.c:3:5\n"},
		{"indented root", "  Program\n    A@0..1\n"},
		{"tab indented root", "\tProgram\n  A@0..3\n"},
		{"leading blank line", "\nProgram\n  A@0..3\n"},
		{"leading whitespace line", "   \nProgram\n  A@0..3\n"},
		{"prefixed root", "ProgramX\n  A@0..1\n"},
		{"malformed root span", "Program @zero..1\n  A@0..1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseDump(tt.in))
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, ErrNoProgram)
		})
	}
}

func TestParseDump_RootWithSpan(t *testing.T) {
	dump := "Program @0..42\n  FunctionDeclaration @0..42\n    TypeSpecifier(Int) @0..3\n    Identifier(main) @4..8\n"
	root := ParseDump(dump)
	require.NotNil(t, root)
	require.NotNil(t, root.Span)
	assert.Equal(t, 42, root.Span.End)

	fn := root.Children[0]
	assert.Equal(t, "FunctionDeclaration", fn.Type)
	require.Len(t, fn.Children, 2)
	assert.Equal(t, "Identifier(main)", fn.Children[1].Type)
}

func TestParseDump_BlankLinesAfterRoot(t *testing.T) {
	root := ParseDump("Program\n\n  A@0..3\n   \n  B@3..5\n")
	require.NotNil(t, root)
	assert.Len(t, root.Children, 2)
}

func TestParseDump_SkipsMalformedLines(t *testing.T) {
	dump := strings.Join([]string{
		"Program",
		"  A@0..10",
		"    Bad@x..y",
		"      UnderBad@1..2",
		"  C@4..8",
	}, "\n")
	root := ParseDump(dump)
	require.NotNil(t, root)
	require.Len(t, root.Children, 2)

	a := root.Children[0]
	require.Len(t, a.Children, 1)
	assert.Equal(t, "UnderBad", a.Children[0].Type)
	assert.Equal(t, 3, a.Children[0].Level, "skipped lines do not renumber levels")
}

func TestParseDump_SkipsSecondRoot(t *testing.T) {
	root := ParseDump("Program\n  A@0..1\nProgram\n  B@1..2\n")
	require.NotNil(t, root)
	assert.Len(t, root.Children, 2)
}

func TestParseDump_CRLF(t *testing.T) {
	root := ParseDump("Program\r\n  A@0..3\r\n")
	require.NotNil(t, root)
	require.Len(t, root.Children, 1)
	assert.Equal(t, 3, root.Children[0].Span.End)
}

func TestParseDump_LevelInvariants(t *testing.T) {
	dump := `Program @0..120
  FunctionDeclaration @0..97
    TypeSpecifier(Int) @0..3
    Identifier(fibonacci) @4..13
    ParameterList @14..19
      Parameter(Int a) @14..19
    CompoundStatement @21..97
      SelectionStatement @25..53
        BinaryExpression @29..34
          Identifier(a) @29..30
          NumberLiteral(2) @33..34
        CompoundStatement @36..53
          ReturnStatement @42..51
      ReturnStatement @56..95
  FunctionDeclaration @98..120
    TypeSpecifier(Void) @98..102
`
	root := ParseDump(dump)
	require.NotNil(t, root)
	assert.Equal(t, 16, asttree.Count(root))

	var check func(n *asttree.Node)
	check = func(n *asttree.Node) {
		for i, c := range n.Children {
			assert.Greater(t, c.Level, n.Level, "%s is not deeper than %s", c.Type, n.Type)
			if i > 0 {
				assert.Equal(t, n.Children[0].Level, c.Level, "sibling %s", c.Type)
			}
			if c.Span != nil {
				assert.LessOrEqual(t, c.Span.Start, c.Span.End, "%s", c.Type)
			}
			check(c)
		}
	}
	check(root)
}

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		line  string
		ok    bool
		typ   string
		level int
		span  *asttree.Span
	}{
		{"Program", true, "Program", 0, nil},
		{"  Identifier(a) @3..4", true, "Identifier(a)", 1, &asttree.Span{Start: 3, End: 4}},
		{"      <Initializer>", true, "<Initializer>", 3, nil},
		{"   Odd@1..2", true, "Odd", 1, &asttree.Span{Start: 1, End: 2}},
		{"  Empty@5..5", true, "Empty", 1, &asttree.Span{Start: 5, End: 5}},
		{"  NoDots@12", false, "", 0, nil},
		{"  Alpha@a..2", false, "", 0, nil},
		{"  Inverted@9..2", false, "", 0, nil},
		{"  Negative@-1..2", false, "", 0, nil},
		{"  Signed@+3..5", false, "", 0, nil},
		{"  SignedEnd@3..+5", false, "", 0, nil},
		{"  Spaced@3.. 5", false, "", 0, nil},
		{"  NoEnd@3..", false, "", 0, nil},
		{"  @1..2", false, "", 0, nil},
		{"    ", false, "", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec, ok := DecodeLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.typ, rec.Type)
			assert.Equal(t, tt.level, rec.Level)
			assert.Equal(t, tt.span, rec.Span)
		})
	}
}
