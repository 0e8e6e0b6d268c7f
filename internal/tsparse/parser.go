package tsparse

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var (
	// ErrSyntax indicates the source text could not be parsed cleanly.
	ErrSyntax = errors.New("syntax error")

	// ErrUnsupportedLanguage indicates the grammar could not be loaded into the parser.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Dialect selects which grammar a file is parsed with.
type Dialect int

const (
	// DialectPlain is TypeScript without markup.
	DialectPlain Dialect = iota
	// DialectJSX is TypeScript with JSX markup (TSX).
	DialectJSX
)

func (d Dialect) String() string {
	if d == DialectJSX {
		return "tsx"
	}
	return "typescript"
}

var (
	typescriptLanguage = sitter.NewLanguage(typescript.LanguageTypescript())
	tsxLanguage        = sitter.NewLanguage(typescript.LanguageTSX())
)

// DialectForPath picks the dialect from the file extension.
// .tsx and .jsx are parsed as TSX, everything else as plain TypeScript.
func DialectForPath(filePath string) Dialect {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx", ".jsx":
		return DialectJSX
	default:
		return DialectPlain
	}
}

// Tree is a parsed source file. It owns the underlying tree-sitter tree and must be closed.
type Tree struct {
	tree    *sitter.Tree
	Source  []byte
	Dialect Dialect
}

// Parse parses source with the grammar for the given dialect.
// A tree is returned even when the source contains syntax errors; use Tree.Err to check.
func Parse(source []byte, dialect Dialect) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	language := typescriptLanguage
	if dialect == DialectJSX {
		language = tsxLanguage
	}
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedLanguage, dialect, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", dialect)
	}

	return &Tree{tree: tree, Source: source, Dialect: dialect}, nil
}

// Close releases the tree-sitter tree.
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Root returns the program node.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// TopLevel returns the direct children of the program node in source order.
func (t *Tree) TopLevel() []*sitter.Node {
	root := t.Root()
	nodes := make([]*sitter.Node, 0, root.ChildCount())
	for i := uint(0); i < root.ChildCount(); i++ {
		if child := root.Child(i); child != nil {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// Text returns the source text spanned by node.
func (t *Tree) Text(node *sitter.Node) string {
	return Text(node, t.Source)
}

// Err reports the first syntax error in the tree, wrapped in ErrSyntax.
func (t *Tree) Err() error {
	root := t.Root()
	if !root.HasError() {
		return nil
	}

	var bad *sitter.Node
	Walk(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})
	if bad == nil {
		return fmt.Errorf("%w in %s source", ErrSyntax, t.Dialect)
	}

	pos := bad.StartPosition()
	if bad.IsMissing() {
		return fmt.Errorf("%w at %d:%d: missing %s", ErrSyntax, pos.Row+1, pos.Column+1, bad.Kind())
	}
	return fmt.Errorf("%w at %d:%d", ErrSyntax, pos.Row+1, pos.Column+1)
}
