package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tschunk/internal/model"
)

// Test Plan for Graph Renderer:
// - Empty and nil models render to ""
// - Functions render as labeled nodes with parameters and return type
// - Classes render members, dependency edges and usage edges
// - Interfaces, type aliases and enums carry their stereotypes
// - Import edges point at a sanitized path node, one per binding
// - Export edges point at the Export node with their kind
// - Components render only when present, after everything else
// - Rendering is deterministic
// - Multi-line type text is collapsed onto one line
// - Braces in member text are escaped so the class block stays closed by its own brace

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Render(nil).String())
	assert.Equal(t, "", Render(&model.StructuralModel{}).String())
	assert.True(t, Render(&model.StructuralModel{}).IsEmpty())
	assert.Equal(t, 0, Render(&model.StructuralModel{}).Len())
}

func TestRender_Function(t *testing.T) {
	t.Parallel()

	m := &model.StructuralModel{
		Functions: []model.FunctionEntity{{
			Name: "add",
			Parameters: []model.Parameter{
				{Name: "a", Type: model.Literal("number")},
				{Name: "b", Type: model.Literal("number")},
			},
			ReturnType: model.Literal("number"),
		}},
	}

	want := "classDiagram\n" +
		"class add {\n" +
		"  <<function>>\n" +
		"  +add(a: number, b: number) number\n" +
		"}\n"
	assert.Equal(t, want, Render(m).String())
}

func TestRender_ClassAndInterface(t *testing.T) {
	t.Parallel()

	m := &model.StructuralModel{
		Classes: []model.ClassEntity{{
			Name:              "Repo",
			GenericParameters: []string{"T"},
			Properties:        []model.Property{{Name: "id", Type: "number"}},
			Methods:           []model.MethodSignature{{Name: "save", ReturnType: model.Named("Promise", model.Void)}},
			Dependencies:      []string{"Store"},
			Usages:            []string{"load"},
		}},
		Interfaces: []model.InterfaceEntity{{
			Name:         "Store",
			Properties:   []model.Property{{Name: "size", Type: "number"}},
			Dependencies: []string{"Base"},
			Usages:       []string{"Repo"},
		}},
	}

	assert.Equal(t, []string{
		"class Repo~T~ {",
		"  id: number",
		"  save() Promise<void>",
		"}",
		"Repo --> Store",
		"Repo <.. load",
		"class Store {",
		"  <<interface>>",
		"  +size: number",
		"}",
		"Store --|> Base",
		"Store <.. Repo",
	}, Render(m).Lines())
}

func TestRender_TypeAliasAndEnum(t *testing.T) {
	t.Parallel()

	m := &model.StructuralModel{
		TypeAliases: []model.TypeAliasEntity{{Name: "Point", Definition: "{\n  x: number;\n  y: number;\n}"}},
		Enums:       []model.EnumEntity{{Name: "Color", Members: []string{"Red", "Blue"}}},
	}

	assert.Equal(t, []string{
		"class Point {",
		"  <<type>>",
		"  #123; x: number; y: number; #125;",
		"}",
		"class Color {",
		"  <<enumeration>>",
		"  Red",
		"  Blue",
		"}",
	}, Render(m).Lines())
}

func TestRender_ImportsAndExports(t *testing.T) {
	t.Parallel()

	m := &model.StructuralModel{
		Imports: []model.ImportEdge{
			{Path: "./lib/math", ImportedNames: []string{"sum", "max"}, DefaultBinding: "math"},
		},
		Exports: []model.ExportEdge{
			{Kind: model.ExportVariable, Name: "LIMIT"},
			{Kind: model.ExportFunction, Name: "load", IsAsync: true},
			{Kind: model.ExportDefault, Name: "default", DefaultKind: model.ExportClass},
			{Kind: model.ExportVariable, Name: "* as ./models"},
		},
	}

	assert.Equal(t, []string{
		"sum --> __lib_math",
		"max --> __lib_math",
		"math --> __lib_math",
		"LIMIT --> Export : variable",
		"load --> Export : async function",
		"default --> Export : default class",
		"__as___models --> Export : variable",
	}, Render(m).Lines())
}

func TestRender_ComponentsLast(t *testing.T) {
	t.Parallel()

	m := &model.StructuralModel{
		Components: []model.ComponentEntity{{
			Name:  "Button",
			Props: []model.Parameter{{Name: "label", Type: model.Literal("string")}},
		}},
		Exports: []model.ExportEdge{{Kind: model.ExportFunction, Name: "Button"}},
	}

	assert.Equal(t, []string{
		"Button --> Export : function",
		"%% components",
		"class Button {",
		"  <<component>>",
		"  label: string",
		"}",
	}, Render(m).Lines())
}

func TestRender_BracesInMembersAreEscaped(t *testing.T) {
	t.Parallel()

	point := model.Shape(model.Field{Name: "x", Type: model.Literal("number")})
	m := &model.StructuralModel{
		Classes: []model.ClassEntity{{
			Name:       "Canvas",
			Properties: []model.Property{{Name: "origin", Type: point.String()}},
			Methods: []model.MethodSignature{{
				Name:       "move",
				Parameters: []model.Parameter{{Name: "to", Type: point}},
				ReturnType: model.Void,
			}},
		}},
		Components: []model.ComponentEntity{{
			Name:  "Label",
			Props: []model.Parameter{{Name: "style", Type: point}},
		}},
	}

	lines := Render(m).Lines()
	assert.Equal(t, []string{
		"class Canvas {",
		"  origin: #123; x: number #125;",
		"  move(to: #123; x: number #125;) void",
		"}",
		"%% components",
		"class Label {",
		"  <<component>>",
		"  style: #123; x: number #125;",
		"}",
	}, lines)

	// only the opening and closing lines of a block carry raw braces
	for _, line := range lines {
		if strings.HasPrefix(line, "  ") {
			assert.NotContains(t, line, "{")
			assert.NotContains(t, line, "}")
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	m := &model.StructuralModel{
		Classes:   []model.ClassEntity{{Name: "A", Dependencies: []string{"B", "C"}}},
		Functions: []model.FunctionEntity{{Name: "f", ReturnType: model.Void}},
		Imports:   []model.ImportEdge{{Path: "x", ImportedNames: []string{"y"}}},
	}

	first := Render(m).String()
	require.NotEmpty(t, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Render(m).String())
	}
}

func TestDocument_Len(t *testing.T) {
	t.Parallel()

	doc := Document{lines: []string{"é --> x"}}
	assert.Equal(t, "classDiagram\né --> x\n", doc.String())
	assert.Equal(t, len([]rune(doc.String())), doc.Len())
}
