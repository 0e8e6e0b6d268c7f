package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tschunk/internal/model"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// NormalizeType converts a type node into a model.TypeExpr.
//
//	{ a: A; b: B }  -> Shape
//	Name<A, B>      -> Named with arguments
//	T[]             -> Array
//	A | B, A & B    -> flattened Union / Intersection
//
// Everything else keeps its source text.
func NormalizeType(node *sitter.Node, source []byte) model.TypeExpr {
	if node == nil {
		return model.Any
	}

	switch node.Kind() {
	case "type_annotation", "opting_type_annotation", "type_predicate_annotation", "asserts_annotation", "parenthesized_type":
		if inner := firstNamed(node); inner != nil {
			return NormalizeType(inner, source)
		}
	case "object_type":
		fields := []model.Field{}
		for _, member := range tsparse.ChildrenByKind(node, "property_signature") {
			fieldType := model.Any
			if annotation := member.ChildByFieldName("type"); annotation != nil {
				fieldType = NormalizeType(annotation, source)
			}
			fields = append(fields, model.Field{
				Name: tsparse.Text(member.ChildByFieldName("name"), source),
				Type: fieldType,
			})
		}
		return model.Shape(fields...)
	case "generic_type":
		var args []model.TypeExpr
		for _, arg := range tsparse.NamedChildren(node.ChildByFieldName("type_arguments")) {
			if arg.Kind() == "comment" {
				continue
			}
			args = append(args, NormalizeType(arg, source))
		}
		return model.Named(tsparse.Text(node.ChildByFieldName("name"), source), args...)
	case "type_identifier", "nested_type_identifier":
		return model.Named(tsparse.Text(node, source))
	case "array_type":
		if elem := firstNamed(node); elem != nil {
			return model.ArrayOf(NormalizeType(elem, source))
		}
	case "union_type", "intersection_type":
		var members []model.TypeExpr
		for _, member := range tsparse.NamedChildren(node) {
			if member.Kind() == "comment" {
				continue
			}
			members = append(members, NormalizeType(member, source))
		}
		if node.Kind() == "union_type" {
			return model.Union(members...)
		}
		return model.Intersection(members...)
	}

	return model.Literal(tsparse.Text(node, source))
}

// annotationType normalizes the type inside a `: T` annotation.
func (e *extractor) annotationType(annotation *sitter.Node) model.TypeExpr {
	return NormalizeType(annotation, e.source)
}

// typeParameters returns the names of a declaration's generic parameters.
func (e *extractor) typeParameters(node *sitter.Node) []string {
	var names []string
	for _, param := range tsparse.ChildrenByKind(node.ChildByFieldName("type_parameters"), "type_parameter") {
		names = append(names, e.text(param.ChildByFieldName("name")))
	}
	return names
}
