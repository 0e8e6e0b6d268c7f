package tsparse

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Text extracts the text content of a tree-sitter node.
func Text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// Walk recursively walks a tree-sitter tree depth-first and calls the visitor for each node.
// Children are skipped when the visitor returns false.
func Walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(node.Child(i), visitor)
	}
}

// Children returns all children of node, named and anonymous.
func Children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.ChildCount())
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// NamedChildren returns the named children of node.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// ChildByKind finds the first child node with the given kind.
func ChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for _, child := range Children(node) {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// ChildrenByKind finds all child nodes with the given kind.
func ChildrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	for _, child := range Children(node) {
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// HasToken reports whether node has a direct anonymous child with the given kind,
// e.g. "async", "default" or "*".
func HasToken(node *sitter.Node, kind string) bool {
	for _, child := range Children(node) {
		if !child.IsNamed() && child.Kind() == kind {
			return true
		}
	}
	return false
}

// Unwrap strips parenthesized_expression wrappers.
func Unwrap(node *sitter.Node) *sitter.Node {
	for node != nil && node.Kind() == "parenthesized_expression" {
		inner := NamedChildren(node)
		if len(inner) == 0 {
			return node
		}
		node = inner[0]
	}
	return node
}

// UnquoteString strips the surrounding quote characters from a string literal's text.
func UnquoteString(text string) string {
	return strings.Trim(text, "'\"`")
}
