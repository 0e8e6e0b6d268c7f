package extract

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tschunk/internal/model"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// extractExport handles every form of export statement. An exported declaration is also
// classified as the entity it declares.
func (e *extractor) extractExport(node *sitter.Node) {
	isDefault := tsparse.HasToken(node, "default")

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		e.visit(decl)
		if isDefault {
			e.addExport(model.ExportEdge{Kind: model.ExportDefault, Name: "default", DefaultKind: declarationKind(decl)})
			return
		}
		e.exportDeclaration(decl)
		return
	}

	if value := exportedValue(node); value != nil {
		value = tsparse.Unwrap(value)
		if isFunctionValue(value) && value.Kind() != "arrow_function" {
			// export default function () {}
			fn := e.function(value, "anonymous")
			if isComponent(value) {
				e.model.Components = append(e.model.Components, e.component(value, fn.Name))
			}
			e.model.Functions = append(e.model.Functions, fn)
		}
		e.addExport(model.ExportEdge{Kind: model.ExportDefault, Name: "default", DefaultKind: valueKind(value)})
		return
	}

	if clause := tsparse.ChildByKind(node, "export_clause"); clause != nil {
		for _, spec := range tsparse.ChildrenByKind(clause, "export_specifier") {
			e.addExport(model.ExportEdge{Kind: model.ExportVariable, Name: e.localName(spec)})
		}
		return
	}

	if ns := tsparse.ChildByKind(node, "namespace_export"); ns != nil {
		// export * as ns from "m"
		if name := firstNamed(ns); name != nil {
			e.addExport(model.ExportEdge{Kind: model.ExportVariable, Name: tsparse.UnquoteString(e.text(name))})
		}
		return
	}

	if tsparse.HasToken(node, "*") {
		if source := node.ChildByFieldName("source"); source != nil {
			e.addExport(model.ExportEdge{
				Kind: model.ExportVariable,
				Name: "* as " + tsparse.UnquoteString(e.text(source)),
			})
		}
	}
}

// exportedValue returns the expression of `export default expr` or `export = expr`.
func exportedValue(node *sitter.Node) *sitter.Node {
	if value := node.ChildByFieldName("value"); value != nil {
		return value
	}
	if !tsparse.HasToken(node, "=") {
		return nil
	}
	for _, child := range tsparse.NamedChildren(node) {
		switch child.Kind() {
		case "comment", "decorator":
			continue
		}
		return child
	}
	return nil
}

// exportDeclaration records the edges for `export <declaration>`.
func (e *extractor) exportDeclaration(decl *sitter.Node) {
	name := e.text(decl.ChildByFieldName("name"))

	switch decl.Kind() {
	case "class_declaration", "abstract_class_declaration":
		e.addExport(model.ExportEdge{Kind: model.ExportClass, Name: name})
	case "interface_declaration":
		e.addExport(model.ExportEdge{Kind: model.ExportInterface, Name: name})
	case "type_alias_declaration":
		e.addExport(model.ExportEdge{Kind: model.ExportTypeAlias, Name: name})
	case "enum_declaration":
		e.addExport(model.ExportEdge{Kind: model.ExportEnum, Name: name})
	case "function_declaration", "generator_function_declaration":
		e.addExport(model.ExportEdge{Kind: model.ExportFunction, Name: name, IsAsync: tsparse.HasToken(decl, "async")})
	case "ambient_declaration":
		// export declare function f(): void;
		for _, child := range tsparse.NamedChildren(decl) {
			if child.Kind() == "function_signature" {
				e.addExport(model.ExportEdge{Kind: model.ExportFunction, Name: e.text(child.ChildByFieldName("name"))})
				continue
			}
			e.exportDeclaration(child)
		}
	case "lexical_declaration", "variable_declaration":
		for _, declarator := range tsparse.ChildrenByKind(decl, "variable_declarator") {
			varName := e.text(declarator.ChildByFieldName("name"))
			edge := model.ExportEdge{Kind: model.ExportVariable, Name: varName}
			if value := declarator.ChildByFieldName("value"); value != nil {
				edge.Value = e.summarize(value, varName)
			}
			e.addExport(edge)
		}
	}
}

func (e *extractor) addExport(edge model.ExportEdge) {
	if edge.Name == "" {
		return
	}
	e.model.Exports = append(e.model.Exports, edge)
}

func declarationKind(decl *sitter.Node) model.ExportKind {
	switch decl.Kind() {
	case "class_declaration", "abstract_class_declaration":
		return model.ExportClass
	case "function_declaration", "generator_function_declaration":
		return model.ExportFunction
	case "interface_declaration":
		return model.ExportInterface
	case "type_alias_declaration":
		return model.ExportTypeAlias
	case "enum_declaration":
		return model.ExportEnum
	}
	return model.ExportVariable
}

func valueKind(value *sitter.Node) model.ExportKind {
	switch value.Kind() {
	case "function_expression", "function", "generator_function", "arrow_function", "call_expression":
		return model.ExportFunction
	case "class":
		return model.ExportClass
	}
	return model.ExportVariable
}

// summarize classifies a literal initializer. It returns nil for any expression shape it
// does not recognise. label names function values that have no name of their own.
func (e *extractor) summarize(node *sitter.Node, label string) *model.ValueSummary {
	node = tsparse.Unwrap(node)
	if node == nil {
		return nil
	}

	switch node.Kind() {
	case "string":
		return &model.ValueSummary{Kind: model.ValueString, Text: tsparse.UnquoteString(e.text(node))}
	case "template_string":
		if tsparse.ChildByKind(node, "template_substitution") != nil {
			return nil
		}
		return &model.ValueSummary{Kind: model.ValueString, Text: tsparse.UnquoteString(e.text(node))}
	case "number":
		n, ok := parseNumber(e.text(node))
		if !ok {
			return nil
		}
		return &model.ValueSummary{Kind: model.ValueNumber, Number: n}
	case "true", "false":
		return &model.ValueSummary{Kind: model.ValueBoolean, Bool: node.Kind() == "true"}
	case "identifier", "undefined":
		return &model.ValueSummary{Kind: model.ValueIdentifier, Text: e.text(node)}
	case "array":
		summary := &model.ValueSummary{Kind: model.ValueArray, Elements: []*model.ValueSummary{}}
		for _, element := range tsparse.NamedChildren(node) {
			if element.Kind() == "comment" {
				continue
			}
			summary.Elements = append(summary.Elements, e.summarize(element, label))
		}
		return summary
	case "object":
		summary := &model.ValueSummary{Kind: model.ValueObject, Fields: []model.ValueField{}}
		for _, prop := range tsparse.NamedChildren(node) {
			switch prop.Kind() {
			case "pair":
				summary.Fields = append(summary.Fields, model.ValueField{
					Name:  tsparse.UnquoteString(e.text(prop.ChildByFieldName("key"))),
					Value: e.summarize(prop.ChildByFieldName("value"), label),
				})
			case "shorthand_property_identifier":
				name := e.text(prop)
				summary.Fields = append(summary.Fields, model.ValueField{
					Name:  name,
					Value: &model.ValueSummary{Kind: model.ValueIdentifier, Text: name},
				})
			case "method_definition":
				name := e.text(prop.ChildByFieldName("name"))
				fn := e.function(prop, name)
				summary.Fields = append(summary.Fields, model.ValueField{
					Name:  name,
					Value: &model.ValueSummary{Kind: model.ValueFunction, Function: &fn},
				})
			}
		}
		return summary
	case "arrow_function", "function_expression", "function", "generator_function":
		fn := e.function(node, label)
		return &model.ValueSummary{Kind: model.ValueFunction, Function: &fn}
	}
	return nil
}

// parseNumber parses a numeric literal, including hex/octal/binary forms and separators.
func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	text = strings.TrimSuffix(text, "n")
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, true
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i), true
	}
	return 0, false
}
