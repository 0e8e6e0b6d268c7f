// Package model defines the structural model extracted from a single TypeScript span:
// its top-level declarations, import/export edges and intra-span usage edges.
package model

// StructuralModel is the set of top-level entities and edges found in one span of source text.
// All sequences are in source order.
type StructuralModel struct {
	Classes     []ClassEntity     `json:"classes"`
	Interfaces  []InterfaceEntity `json:"interfaces"`
	TypeAliases []TypeAliasEntity `json:"typeAliases"`
	Enums       []EnumEntity      `json:"enums"`
	Functions   []FunctionEntity  `json:"functions"`
	Components  []ComponentEntity `json:"components"`
	Imports     []ImportEdge      `json:"imports"`
	Exports     []ExportEdge      `json:"exports"`
}

// IsEmpty reports whether the model holds no entities and no edges.
func (m *StructuralModel) IsEmpty() bool {
	return m == nil || len(m.Classes)+len(m.Interfaces)+len(m.TypeAliases)+len(m.Enums)+
		len(m.Functions)+len(m.Components)+len(m.Imports)+len(m.Exports) == 0
}

// Property is a named member with its type text.
type Property struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Parameter is one function parameter, or one field of a destructured parameter.
type Parameter struct {
	Name string   `json:"name"`
	Type TypeExpr `json:"type"`
}

// MethodSignature is a class or interface method.
type MethodSignature struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType TypeExpr    `json:"returnType"`
}

// ClassEntity is a named class declaration.
type ClassEntity struct {
	Name              string            `json:"name"`
	GenericParameters []string          `json:"genericParameters,omitempty"`
	Properties        []Property        `json:"properties"`
	Methods           []MethodSignature `json:"methods"`
	Dependencies      []string          `json:"dependencies"` // extends + implements
	Usages            []string          `json:"usages"`
}

// InterfaceEntity is a named interface declaration. Dependencies come from extends only.
type InterfaceEntity struct {
	Name              string            `json:"name"`
	GenericParameters []string          `json:"genericParameters,omitempty"`
	Properties        []Property        `json:"properties"`
	Methods           []MethodSignature `json:"methods"`
	Dependencies      []string          `json:"dependencies"`
	Usages            []string          `json:"usages"`
}

// TypeAliasEntity keeps the right-hand side as rendered source text.
type TypeAliasEntity struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// EnumEntity lists member names in declaration order; values are not evaluated.
type EnumEntity struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// FunctionEntity is a named function.
type FunctionEntity struct {
	Name              string      `json:"name"`
	Parameters        []Parameter `json:"parameters"`
	ReturnType        TypeExpr    `json:"returnType"`
	GenericParameters []string    `json:"genericParameters,omitempty"`
	IsAsync           bool        `json:"isAsync"`
}

// ComponentEntity is a function whose body returns markup.
type ComponentEntity struct {
	Name              string      `json:"name"`
	Props             []Parameter `json:"props"`
	GenericParameters []string    `json:"genericParameters,omitempty"`
}

// ImportEdge is one import declaration. DefaultBinding is empty when there is none.
type ImportEdge struct {
	Path           string   `json:"path"`
	ImportedNames  []string `json:"importedNames"`
	DefaultBinding string   `json:"defaultBinding,omitempty"`
}

// ExportKind tags an ExportEdge.
type ExportKind string

const (
	ExportVariable  ExportKind = "variable"
	ExportFunction  ExportKind = "function"
	ExportClass     ExportKind = "class"
	ExportInterface ExportKind = "interface"
	ExportTypeAlias ExportKind = "typeAlias"
	ExportEnum      ExportKind = "enum"
	ExportDefault   ExportKind = "default"
)

// ExportEdge is one exported binding.
//
// Value is only set for variable exports whose initializer could be summarised,
// IsAsync only for function exports and DefaultKind only for default exports.
type ExportEdge struct {
	Kind        ExportKind    `json:"kind"`
	Name        string        `json:"name"`
	Value       *ValueSummary `json:"value,omitempty"`
	IsAsync     bool          `json:"isAsync,omitempty"`
	DefaultKind ExportKind    `json:"defaultKind,omitempty"`
}
