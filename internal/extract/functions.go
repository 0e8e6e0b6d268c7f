package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tschunk/internal/model"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// extractFunctionDeclaration records a named function declaration, and additionally a
// component when its body returns markup.
func (e *extractor) extractFunctionDeclaration(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.text(nameNode)

	if isComponent(node) {
		e.model.Components = append(e.model.Components, e.component(node, name))
	}
	e.model.Functions = append(e.model.Functions, e.function(node, name))
}

// extractVariableComponents records components declared as `const X = () => <div/>`.
func (e *extractor) extractVariableComponents(node *sitter.Node) {
	for _, decl := range tsparse.ChildrenByKind(node, "variable_declarator") {
		value := decl.ChildByFieldName("value")
		if !isFunctionValue(value) || !isComponent(value) {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}
		e.model.Components = append(e.model.Components, e.component(value, e.text(nameNode)))
	}
}

func isFunctionValue(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

// function builds a FunctionEntity from any function-like node.
// label names anonymous functions; a node's own name takes precedence.
func (e *extractor) function(node *sitter.Node, label string) model.FunctionEntity {
	name := label
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = e.text(nameNode)
	}
	if name == "" {
		name = "anonymous"
	}

	var returnType model.TypeExpr
	if annotation := node.ChildByFieldName("return_type"); annotation != nil {
		returnType = e.annotationType(annotation)
	} else {
		returnType = InferReturnType(node, e.source)
	}

	return model.FunctionEntity{
		Name:              name,
		Parameters:        e.parameters(node),
		ReturnType:        returnType,
		GenericParameters: e.typeParameters(node),
		IsAsync:           tsparse.HasToken(node, "async"),
	}
}

// parameters reads the parameter list of a function-like node. Destructured parameters
// expand to one Parameter per bound field.
func (e *extractor) parameters(fn *sitter.Node) []model.Parameter {
	params := []model.Parameter{}

	// x => x * 2
	if single := fn.ChildByFieldName("parameter"); single != nil {
		return append(params, model.Parameter{Name: e.text(single), Type: model.Any})
	}

	for _, param := range tsparse.NamedChildren(fn.ChildByFieldName("parameters")) {
		switch param.Kind() {
		case "required_parameter", "optional_parameter":
		default:
			continue
		}

		paramType := model.Any
		if annotation := param.ChildByFieldName("type"); annotation != nil {
			paramType = e.annotationType(annotation)
		}

		pattern := param.ChildByFieldName("pattern")
		if pattern == nil {
			continue
		}
		if pattern.Kind() == "object_pattern" {
			params = append(params, e.destructured(pattern, paramType)...)
			continue
		}
		params = append(params, model.Parameter{Name: e.text(pattern), Type: paramType})
	}
	return params
}

// destructured expands an object binding pattern. Field types come from the declared
// object shape when it has a matching field, otherwise they are "any".
func (e *extractor) destructured(pattern *sitter.Node, declared model.TypeExpr) []model.Parameter {
	var params []model.Parameter
	for _, element := range tsparse.NamedChildren(pattern) {
		var name string
		switch element.Kind() {
		case "shorthand_property_identifier_pattern":
			name = e.text(element)
		case "pair_pattern":
			name = tsparse.UnquoteString(e.text(element.ChildByFieldName("key")))
		case "object_assignment_pattern":
			name = e.text(element.ChildByFieldName("left"))
		case "rest_pattern":
			params = append(params, model.Parameter{Name: e.text(element), Type: model.Any})
			continue
		default:
			continue
		}

		fieldType, ok := declared.FieldType(name)
		if !ok {
			fieldType = model.Any
		}
		params = append(params, model.Parameter{Name: name, Type: fieldType})
	}
	return params
}

// isComponent reports whether a function's body returns markup. Only the statements
// directly inside the body are inspected; an expression body counts as a return.
func isComponent(fn *sitter.Node) bool {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return false
	}
	if body.Kind() != "statement_block" {
		return isMarkup(body)
	}
	for _, stmt := range tsparse.NamedChildren(body) {
		if stmt.Kind() == "return_statement" && isMarkup(firstNamed(stmt)) {
			return true
		}
	}
	return false
}

func isMarkup(node *sitter.Node) bool {
	node = tsparse.Unwrap(node)
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	return false
}

// component builds a ComponentEntity. Props come from the first parameter when it is
// destructured, else one prop per explicitly typed parameter.
func (e *extractor) component(fn *sitter.Node, name string) model.ComponentEntity {
	comp := model.ComponentEntity{
		Name:              name,
		Props:             []model.Parameter{},
		GenericParameters: e.typeParameters(fn),
	}

	params := tsparse.NamedChildren(fn.ChildByFieldName("parameters"))
	for i, param := range params {
		if param.Kind() != "required_parameter" && param.Kind() != "optional_parameter" {
			continue
		}
		annotation := param.ChildByFieldName("type")
		pattern := param.ChildByFieldName("pattern")
		if i == 0 && pattern != nil && pattern.Kind() == "object_pattern" {
			declared := model.Any
			if annotation != nil {
				declared = e.annotationType(annotation)
			}
			comp.Props = append(comp.Props, e.destructured(pattern, declared)...)
			return comp
		}
		if annotation == nil || pattern == nil {
			continue
		}
		comp.Props = append(comp.Props, model.Parameter{Name: e.text(pattern), Type: e.annotationType(annotation)})
	}
	return comp
}

// InferReturnType guesses the return type of a function without a declared one.
//
// This is a syntactic heuristic, not type inference: the first return statement found by a
// depth-first walk of the body decides the result, regardless of which branch runs at
// runtime. Other return sites are not unified. A body without any return is void; an
// expression-bodied arrow function uses its expression.
func InferReturnType(fn *sitter.Node, source []byte) model.TypeExpr {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return model.Void
	}
	if body.Kind() != "statement_block" {
		return apparentType(body, source)
	}

	ret := findReturn(body)
	if ret == nil {
		return model.Void
	}
	expr := firstNamed(ret)
	if expr == nil {
		return model.Void
	}
	return apparentType(expr, source)
}

// findReturn walks statements depth-first without entering nested functions or classes.
func findReturn(node *sitter.Node) *sitter.Node {
	for _, child := range tsparse.NamedChildren(node) {
		switch child.Kind() {
		case "return_statement":
			return child
		case "function_declaration", "generator_function_declaration", "function_expression", "function",
			"generator_function", "arrow_function", "class_declaration", "class", "method_definition":
			continue
		}
		if found := findReturn(child); found != nil {
			return found
		}
	}
	return nil
}

// apparentType maps a returned expression to the type it most obviously has.
// Anything unrecognised is normalized like a type annotation, which keeps its source text.
func apparentType(expr *sitter.Node, source []byte) model.TypeExpr {
	expr = tsparse.Unwrap(expr)
	switch expr.Kind() {
	case "string", "template_string":
		return model.Literal("string")
	case "number":
		return model.Literal("number")
	case "true", "false":
		return model.Literal("boolean")
	case "null":
		return model.Literal("null")
	case "undefined":
		return model.Literal("undefined")
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return model.Literal("JSX.Element")
	case "new_expression":
		if ctor := expr.ChildByFieldName("constructor"); ctor != nil && ctor.Kind() == "identifier" {
			return model.Named(tsparse.Text(ctor, source))
		}
	case "as_expression", "satisfies_expression":
		children := tsparse.NamedChildren(expr)
		if len(children) == 2 {
			return NormalizeType(children[1], source)
		}
	}
	return NormalizeType(expr, source)
}
