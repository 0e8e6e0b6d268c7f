// Package extract turns a parsed TypeScript tree into a model.StructuralModel.
//
// Only the direct children of the program node are classified. Members of classes and
// interfaces are summarised on their enclosing entity and never surface as top-level entities.
// Entity names are taken as written. When a span declares the same name twice both entries are
// kept in the entity lists; the usage graph merges them into one vertex.
package extract

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tschunk/internal/model"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// Source parses source, extracts its entities and resolves usages.
// Syntax errors are reported as tsparse.ErrSyntax.
func Source(source []byte, dialect tsparse.Dialect) (*model.StructuralModel, error) {
	tree, err := tsparse.Parse(source, dialect)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	if err := tree.Err(); err != nil {
		return nil, err
	}

	m := Extract(tree)
	if err := ResolveUsages(m, tree); err != nil {
		return nil, fmt.Errorf("failed to resolve usages: %w", err)
	}
	return m, nil
}

// Extract classifies the top-level nodes of tree. Usages are left empty; see ResolveUsages.
func Extract(tree *tsparse.Tree) *model.StructuralModel {
	e := &extractor{
		source: tree.Source,
		model:  newModel(),
	}
	for _, node := range tree.TopLevel() {
		e.visit(node)
	}
	return e.model
}

func newModel() *model.StructuralModel {
	return &model.StructuralModel{
		Classes:     []model.ClassEntity{},
		Interfaces:  []model.InterfaceEntity{},
		TypeAliases: []model.TypeAliasEntity{},
		Enums:       []model.EnumEntity{},
		Functions:   []model.FunctionEntity{},
		Components:  []model.ComponentEntity{},
		Imports:     []model.ImportEdge{},
		Exports:     []model.ExportEdge{},
	}
}

type extractor struct {
	source []byte
	model  *model.StructuralModel
}

func (e *extractor) text(node *sitter.Node) string {
	return tsparse.Text(node, e.source)
}

// visit classifies one top-level node. Nodes matching no rule are ignored.
func (e *extractor) visit(node *sitter.Node) {
	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration":
		e.extractClass(node)
	case "interface_declaration":
		e.extractInterface(node)
	case "type_alias_declaration":
		e.extractTypeAlias(node)
	case "enum_declaration":
		e.extractEnum(node)
	case "function_declaration", "generator_function_declaration":
		e.extractFunctionDeclaration(node)
	case "function_signature":
		// A bare overload signature. The implementation that follows records the function.
	case "lexical_declaration", "variable_declaration":
		e.extractVariableComponents(node)
	case "import_statement":
		e.extractImport(node)
	case "export_statement":
		e.extractExport(node)
	case "ambient_declaration":
		// declare class Foo {} and friends
		for _, child := range tsparse.NamedChildren(node) {
			if child.Kind() == "function_signature" {
				e.extractFunctionDeclaration(child)
				continue
			}
			e.visit(child)
		}
	}
}

// extractClass extracts a named class declaration. Anonymous classes are skipped.
func (e *extractor) extractClass(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	class := model.ClassEntity{
		Name:              e.text(nameNode),
		GenericParameters: e.typeParameters(node),
		Properties:        []model.Property{},
		Methods:           []model.MethodSignature{},
		Dependencies:      e.classHeritage(node),
		Usages:            []string{},
	}

	for _, member := range tsparse.NamedChildren(node.ChildByFieldName("body")) {
		switch member.Kind() {
		case "public_field_definition":
			class.Properties = append(class.Properties, e.property(member))
		case "method_definition", "method_signature", "abstract_method_signature":
			class.Methods = append(class.Methods, e.method(member))
		}
	}

	e.model.Classes = append(e.model.Classes, class)
}

// classHeritage returns the names listed in extends and implements clauses.
func (e *extractor) classHeritage(node *sitter.Node) []string {
	deps := []string{}
	heritage := tsparse.ChildByKind(node, "class_heritage")
	for _, clause := range tsparse.NamedChildren(heritage) {
		switch clause.Kind() {
		case "extends_clause":
			for _, expr := range tsparse.NamedChildren(clause) {
				if expr.Kind() == "type_arguments" || expr.Kind() == "comment" {
					continue
				}
				deps = append(deps, e.text(expr))
			}
		case "implements_clause":
			for _, typ := range tsparse.NamedChildren(clause) {
				if name := e.heritageName(typ); name != "" {
					deps = append(deps, name)
				}
			}
		}
	}
	return deps
}

// heritageName returns the supertype name of a heritage type, dropping generic arguments.
func (e *extractor) heritageName(typ *sitter.Node) string {
	switch typ.Kind() {
	case "comment":
		return ""
	case "generic_type":
		return e.text(typ.ChildByFieldName("name"))
	default:
		return e.text(typ)
	}
}

func (e *extractor) extractInterface(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	iface := model.InterfaceEntity{
		Name:              e.text(nameNode),
		GenericParameters: e.typeParameters(node),
		Properties:        []model.Property{},
		Methods:           []model.MethodSignature{},
		Dependencies:      e.interfaceHeritage(node),
		Usages:            []string{},
	}

	for _, member := range tsparse.NamedChildren(node.ChildByFieldName("body")) {
		switch member.Kind() {
		case "property_signature":
			iface.Properties = append(iface.Properties, e.property(member))
		case "method_signature":
			iface.Methods = append(iface.Methods, e.method(member))
		}
	}

	e.model.Interfaces = append(e.model.Interfaces, iface)
}

// interfaceHeritage returns the names listed in an interface's extends clause.
func (e *extractor) interfaceHeritage(node *sitter.Node) []string {
	deps := []string{}
	for _, typ := range tsparse.NamedChildren(tsparse.ChildByKind(node, "extends_type_clause")) {
		if name := e.heritageName(typ); name != "" {
			deps = append(deps, name)
		}
	}
	return deps
}

// property reads a class field or interface property signature. Untyped members get "any".
func (e *extractor) property(member *sitter.Node) model.Property {
	typeText := "any"
	if annotation := member.ChildByFieldName("type"); annotation != nil {
		if inner := firstNamed(annotation); inner != nil {
			typeText = e.text(inner)
		}
	}
	return model.Property{Name: e.text(member.ChildByFieldName("name")), Type: typeText}
}

// method reads a method definition or signature. Undeclared return types are void.
func (e *extractor) method(member *sitter.Node) model.MethodSignature {
	returnType := model.Void
	if annotation := member.ChildByFieldName("return_type"); annotation != nil {
		returnType = e.annotationType(annotation)
	}
	return model.MethodSignature{
		Name:       e.text(member.ChildByFieldName("name")),
		Parameters: e.parameters(member),
		ReturnType: returnType,
	}
}

func (e *extractor) extractTypeAlias(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	valueNode := node.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return
	}
	e.model.TypeAliases = append(e.model.TypeAliases, model.TypeAliasEntity{
		Name:       e.text(nameNode),
		Definition: e.text(valueNode),
	})
}

func (e *extractor) extractEnum(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	enum := model.EnumEntity{Name: e.text(nameNode), Members: []string{}}
	for _, member := range tsparse.NamedChildren(node.ChildByFieldName("body")) {
		switch member.Kind() {
		case "enum_assignment":
			enum.Members = append(enum.Members, e.text(member.ChildByFieldName("name")))
		case "property_identifier", "string":
			enum.Members = append(enum.Members, e.text(member))
		}
	}

	e.model.Enums = append(e.model.Enums, enum)
}

// extractImport records one import edge. A namespace import is recorded as a named binding.
func (e *extractor) extractImport(node *sitter.Node) {
	imp := model.ImportEdge{ImportedNames: []string{}}

	source := node.ChildByFieldName("source")
	if clause := tsparse.ChildByKind(node, "import_require_clause"); clause != nil {
		// import x = require("y")
		source = clause.ChildByFieldName("source")
		imp.DefaultBinding = e.text(tsparse.ChildByKind(clause, "identifier"))
	}
	if source == nil {
		return
	}
	imp.Path = tsparse.UnquoteString(e.text(source))

	for _, binding := range tsparse.NamedChildren(tsparse.ChildByKind(node, "import_clause")) {
		switch binding.Kind() {
		case "identifier":
			imp.DefaultBinding = e.text(binding)
		case "namespace_import":
			imp.ImportedNames = append(imp.ImportedNames, e.text(tsparse.ChildByKind(binding, "identifier")))
		case "named_imports":
			for _, spec := range tsparse.ChildrenByKind(binding, "import_specifier") {
				imp.ImportedNames = append(imp.ImportedNames, e.localName(spec))
			}
		}
	}

	e.model.Imports = append(e.model.Imports, imp)
}

// localName returns the alias of an import/export specifier if present, else its name.
func (e *extractor) localName(spec *sitter.Node) string {
	if alias := spec.ChildByFieldName("alias"); alias != nil {
		return tsparse.UnquoteString(e.text(alias))
	}
	return tsparse.UnquoteString(e.text(spec.ChildByFieldName("name")))
}

func firstNamed(node *sitter.Node) *sitter.Node {
	for _, child := range tsparse.NamedChildren(node) {
		if child.Kind() != "comment" {
			return child
		}
	}
	return nil
}
