package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for model:
// - TypeExpr renders every variant back to TypeScript-like text
// - Unions and intersections flatten nested members
// - FieldType only resolves on shapes
// - TypeExpr marshals as a JSON string; ValueSummary as {type, value}
// - IsEmpty on nil and populated models

func TestTypeExpr_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  TypeExpr
		want string
	}{
		{"literal", Literal("string"), "string"},
		{"named", Named("User"), "User"},
		{"generic", Named("Map", Literal("string"), ArrayOf(Named("User"))), "Map<string, User[]>"},
		{"array of union", ArrayOf(Union(Literal("a"), Literal("b"))), "(a | b)[]"},
		{"empty shape", Shape(), "{}"},
		{"shape", Shape(Field{Name: "x", Type: Literal("number")}, Field{Name: "y", Type: Any}), "{ x: number; y: any }"},
		{"intersection", Intersection(Named("A"), Named("B")), "A & B"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String(), tt.name)
	}
}

func TestTypeExpr_Flatten(t *testing.T) {
	t.Parallel()

	u := Union(Literal("a"), Union(Literal("b"), Literal("c")))
	require.Len(t, u.Members, 3)
	assert.Equal(t, "a | b | c", u.String())

	// different kinds do not flatten
	mixed := Union(Literal("a"), Intersection(Literal("b"), Literal("c")))
	assert.Len(t, mixed.Members, 2)
}

func TestTypeExpr_FieldType(t *testing.T) {
	t.Parallel()

	shape := Shape(Field{Name: "label", Type: Literal("string")})

	typ, ok := shape.FieldType("label")
	assert.True(t, ok)
	assert.Equal(t, "string", typ.String())

	_, ok = shape.FieldType("missing")
	assert.False(t, ok)

	_, ok = Named("Props").FieldType("label")
	assert.False(t, ok)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Parameter{Name: "ids", Type: ArrayOf(Literal("number"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ids","type":"number[]"}`, string(data))

	value := &ValueSummary{Kind: ValueObject, Fields: []ValueField{
		{Name: "on", Value: &ValueSummary{Kind: ValueBoolean, Bool: true}},
		{Name: "missing", Value: nil},
	}}
	data, err = json.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","value":{"on":{"type":"boolean","value":true},"missing":null}}`, string(data))
}

func TestStructuralModel_IsEmpty(t *testing.T) {
	t.Parallel()

	var nilModel *StructuralModel
	assert.True(t, nilModel.IsEmpty())
	assert.True(t, (&StructuralModel{}).IsEmpty())
	assert.False(t, (&StructuralModel{Imports: []ImportEdge{{Path: "x"}}}).IsEmpty())
}
