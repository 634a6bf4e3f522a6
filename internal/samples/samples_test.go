package samples

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSamples(t *testing.T) {
	require.Equal(t, []string{"bubble-sort", "fibonacci"}, Names())

	fib, err := Get("fibonacci")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fib.Source, "int fibonacci(int a) {\n"), "unexpected source start: %q", fib.Source)
	assert.True(t, strings.HasSuffix(fib.Source, "}\n"), "source should end with a newline: %q", fib.Source)
	assert.NotEmpty(t, fib.Description)

	_, err = Get("Bubble-Sort")
	assert.NoError(t, err, "lookup is case-insensitive")
	assert.Len(t, All(), 2)
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("quicksort")
	assert.ErrorIs(t, err, ErrUnknownSample)
}

func TestParse_Catalog(t *testing.T) {
	input := "# Catalog\n\n## Hello World\n\n```c\nvoid main() {}\n```\n\n```c\nignored\n```\n\n## empty\n\nNo code here.\n\n### nested\n\n```c\nint x;\n```\n"
	got := Parse([]byte(input))
	require.Len(t, got, 2)

	hello, ok := got["hello-world"]
	require.True(t, ok, "missing hello-world in %v", got)
	assert.Equal(t, "void main() {}\n", hello.Source, "only the first code block counts")

	// A level-3 heading stays inside its level-2 section, so "empty"
	// picks up the nested block.
	assert.Equal(t, "int x;\n", got["empty"].Source)
}
