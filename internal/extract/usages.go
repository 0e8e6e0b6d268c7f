package extract

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tschunk/internal/model"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// referrer is a top-level declaration and the names it references through
// heritage clauses or parameter types.
type referrer struct {
	name string
	refs []string
}

// ResolveUsages fills Usages on every class and interface of m from the same tree.
//
// An entity E is used by another class or interface whose extends/implements clause names E,
// and by a function with a parameter whose type text is exactly E. Matching is by name only:
// imports are not resolved and same-named declarations share one vertex. Usages never
// contain the entity itself and are ordered by the referrer's position in the file.
func ResolveUsages(m *model.StructuralModel, tree *tsparse.Tree) error {
	g := graph.New(graph.StringHash, graph.Directed())

	targets := make(map[string]bool)
	for _, c := range m.Classes {
		targets[c.Name] = true
	}
	for _, i := range m.Interfaces {
		targets[i.Name] = true
	}
	for name := range targets {
		if err := addVertex(g, name); err != nil {
			return err
		}
	}

	referrers := collectReferrers(tree)
	var order []string
	seen := make(map[string]bool)
	for _, r := range referrers {
		if err := addVertex(g, r.name); err != nil {
			return err
		}
		if !seen[r.name] {
			seen[r.name] = true
			order = append(order, r.name)
		}
		for _, ref := range r.refs {
			if ref == r.name || !targets[ref] {
				continue
			}
			if err := g.AddEdge(r.name, ref); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("failed to add usage edge %s -> %s: %w", r.name, ref, err)
			}
		}
	}

	predecessors, err := g.PredecessorMap()
	if err != nil {
		return fmt.Errorf("failed to compute predecessors: %w", err)
	}

	usagesOf := func(name string) []string {
		usages := []string{}
		for _, candidate := range order {
			if candidate == name {
				continue
			}
			if _, ok := predecessors[name][candidate]; ok {
				usages = append(usages, candidate)
			}
		}
		return usages
	}

	for i := range m.Classes {
		m.Classes[i].Usages = usagesOf(m.Classes[i].Name)
	}
	for i := range m.Interfaces {
		m.Interfaces[i].Usages = usagesOf(m.Interfaces[i].Name)
	}
	return nil
}

func addVertex(g graph.Graph[string, string], name string) error {
	if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add vertex %s: %w", name, err)
	}
	return nil
}

// collectReferrers lists the named classes, interfaces and functions of tree in source order.
func collectReferrers(tree *tsparse.Tree) []referrer {
	e := &extractor{source: tree.Source}

	var out []referrer
	var collect func(node *sitter.Node)
	collect = func(node *sitter.Node) {
		switch node.Kind() {
		case "export_statement":
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				collect(decl)
			}
			return
		case "ambient_declaration":
			for _, child := range tsparse.NamedChildren(node) {
				collect(child)
			}
			return
		}

		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		name := e.text(nameNode)

		switch node.Kind() {
		case "class_declaration", "abstract_class_declaration":
			out = append(out, referrer{name: name, refs: e.classHeritage(node)})
		case "interface_declaration":
			out = append(out, referrer{name: name, refs: e.interfaceHeritage(node)})
		case "function_declaration", "generator_function_declaration":
			out = append(out, referrer{name: name, refs: e.parameterTypeTexts(node)})
		}
	}

	for _, node := range tree.TopLevel() {
		collect(node)
	}
	return out
}

// parameterTypeTexts returns the source text of each explicitly typed parameter.
func (e *extractor) parameterTypeTexts(fn *sitter.Node) []string {
	var texts []string
	for _, param := range tsparse.NamedChildren(fn.ChildByFieldName("parameters")) {
		annotation := param.ChildByFieldName("type")
		if annotation == nil {
			continue
		}
		if inner := firstNamed(annotation); inner != nil {
			texts = append(texts, e.text(inner))
		}
	}
	return texts
}
