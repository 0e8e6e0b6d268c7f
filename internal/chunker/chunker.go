// Package chunker partitions a TypeScript file into declaration-respecting chunks whose
// text plus rendered graph stays within a size budget.
package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tschunk/internal/extract"
	"github.com/mvp-joe/tschunk/internal/render"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// ErrInvalidBudget is returned for a maximum chunk size that is not positive.
var ErrInvalidBudget = errors.New("max context size must be positive")

// Chunk is one contiguous slice of a file paired with the graph of the entities it contains.
// SourceText is exactly the slice of the input; concatenating every chunk of a file in order
// yields the file.
type Chunk struct {
	SourceText string
	Graph      render.Document
}

// Code returns the chunk text trimmed of surrounding whitespace.
func (c Chunk) Code() string {
	return strings.TrimSpace(c.SourceText)
}

// Size is the cost of the chunk against the budget: text plus rendered graph, in characters.
func (c Chunk) Size() int {
	return utf8.RuneCountInString(c.SourceText) + c.Graph.Len()
}

// Chunker splits files into chunks.
type Chunker interface {
	// Chunk splits source. filePath only selects the parsing dialect.
	Chunk(source, filePath string) ([]Chunk, error)
}

// chunker implements the Chunker interface.
type chunker struct {
	maxSize int // budget in characters for text + graph
}

// New creates a Chunker with the given budget.
func New(maxSize int) (Chunker, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, maxSize)
	}
	return &chunker{maxSize: maxSize}, nil
}

// Split is shorthand for New(maxSize) followed by Chunk.
func Split(source, filePath string, maxSize int) ([]Chunk, error) {
	c, err := New(maxSize)
	if err != nil {
		return nil, err
	}
	return c.Chunk(source, filePath)
}

// Chunk walks the top-level nodes of source and packs them into chunks.
//
// Algorithm:
// 1. A node's span runs from the end of the previous node to its own end
// 2. If buffer + span + graph(buffer + span) fits the budget, the span joins the buffer
// 3. Otherwise the buffer is emitted and the span starts a new one
// 4. After a class or function declaration the buffer is always emitted
// 5. Text after the last node joins the final chunk
//
// A declaration larger than the budget still becomes one chunk of its own.
func (c *chunker) Chunk(source, filePath string) ([]Chunk, error) {
	dialect := tsparse.DialectForPath(filePath)

	tree, err := tsparse.Parse([]byte(source), dialect)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	if err := tree.Err(); err != nil {
		return nil, err
	}

	p := &packer{dialect: dialect, maxSize: c.maxSize, chunks: []Chunk{}}

	start := 0
	for _, node := range tree.TopLevel() {
		end := int(node.EndByte())
		if end <= start {
			continue
		}
		if err := p.add(source[start:end]); err != nil {
			return nil, err
		}
		start = end

		if closesDeclaration(node) {
			if err := p.flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.finish(source[start:]); err != nil {
		return nil, err
	}
	return p.chunks, nil
}

// packer holds the candidate buffer between nodes.
type packer struct {
	dialect tsparse.Dialect
	maxSize int

	buffer string
	graph  *render.Document // graph of buffer, nil when not yet computed
	chunks []Chunk
}

func (p *packer) add(span string) error {
	candidate := p.buffer + span
	graph, err := p.render(candidate)
	if err != nil {
		return err
	}

	if p.buffer == "" {
		p.buffer, p.graph = candidate, &graph
		return nil
	}

	size := utf8.RuneCountInString(p.buffer) + utf8.RuneCountInString(span) + graph.Len()
	if size <= p.maxSize {
		p.buffer, p.graph = candidate, &graph
		return nil
	}

	if err := p.flush(); err != nil {
		return err
	}
	p.buffer, p.graph = span, nil
	return nil
}

// flush emits the buffer as a chunk. An empty buffer emits nothing.
func (p *packer) flush() error {
	if p.buffer == "" {
		return nil
	}
	if p.graph == nil {
		graph, err := p.render(p.buffer)
		if err != nil {
			return err
		}
		p.graph = &graph
	}
	p.chunks = append(p.chunks, Chunk{SourceText: p.buffer, Graph: *p.graph})
	p.buffer, p.graph = "", nil
	return nil
}

// finish attaches trailing text, which holds no declarations, and emits what is left.
func (p *packer) finish(trailing string) error {
	switch {
	case p.buffer != "":
		p.buffer += trailing
	case len(p.chunks) > 0:
		p.chunks[len(p.chunks)-1].SourceText += trailing
		return nil
	default:
		p.buffer = trailing
	}
	return p.flush()
}

// render extracts and renders text. The text is a run of complete top-level nodes of a
// file that parsed cleanly, so residual parse errors are tolerated here.
func (p *packer) render(text string) (render.Document, error) {
	tree, err := tsparse.Parse([]byte(text), p.dialect)
	if err != nil {
		return render.Document{}, fmt.Errorf("failed to parse chunk candidate: %w", err)
	}
	defer tree.Close()

	m := extract.Extract(tree)
	if err := extract.ResolveUsages(m, tree); err != nil {
		return render.Document{}, err
	}
	return render.Render(m), nil
}

// closesDeclaration reports whether node is a top-level class or function declaration,
// bare, ambient or export-wrapped. An anonymous default export of a function or class counts too.
func closesDeclaration(node *sitter.Node) bool {
	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration", "function_declaration", "generator_function_declaration":
		return true
	case "ambient_declaration":
		// Overload signatures stay with their implementation; declared ones stand alone.
		for _, child := range tsparse.NamedChildren(node) {
			if child.Kind() == "function_signature" || closesDeclaration(child) {
				return true
			}
		}
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			return closesDeclaration(decl)
		}
		if value := tsparse.Unwrap(node.ChildByFieldName("value")); value != nil {
			switch value.Kind() {
			case "function_expression", "function", "generator_function", "class":
				return true
			}
		}
	}
	return false
}
