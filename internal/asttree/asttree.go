package asttree

import "fmt"

// Node is one entry of a reconstructed syntax tree.
type Node struct {
	Type     string  // Node kind, e.g. "Program", "IfStatement", "Identifier(a)"
	Level    int     // Depth inferred from dump indentation (root is 0)
	Span     *Span   // Source span, nil for nodes without one
	Children []*Node // Document order
}

// Span is a half-open offset interval [Start, End) into the source text
// most recently sent to the compiler.
type Span struct {
	Start int
	End   int
}

// String formats the span the way the compiler dump does.
func (s Span) String() string {
	return fmt.Sprintf("@%d..%d", s.Start, s.End)
}

// HasSpan reports whether the node carries a source span.
func (n *Node) HasSpan() bool {
	return n != nil && n.Span != nil
}

// Label is the node's display text: type plus span suffix when present.
func (n *Node) Label() string {
	if n.Span == nil {
		return n.Type
	}
	return n.Type + " " + n.Span.String()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(node *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node, int) bool {
		total++
		return true
	})
	return total
}
