package model

import "encoding/json"

// ValueKind classifies a summarised literal value.
type ValueKind string

const (
	ValueString     ValueKind = "string"
	ValueNumber     ValueKind = "number"
	ValueBoolean    ValueKind = "boolean"
	ValueIdentifier ValueKind = "identifier"
	ValueArray      ValueKind = "array"
	ValueObject     ValueKind = "object"
	ValueFunction   ValueKind = "function"
)

// ValueSummary is a recursive summary of an exported variable's initializer.
// An initializer that cannot be summarised is represented by a nil *ValueSummary.
type ValueSummary struct {
	Kind     ValueKind
	Text     string // string content or identifier name
	Number   float64
	Bool     bool
	Elements []*ValueSummary
	Fields   []ValueField
	Function *FunctionEntity
}

// ValueField is one property of an object literal, in source order.
type ValueField struct {
	Name  string
	Value *ValueSummary
}

// Value returns the summarised value in its natural Go form.
func (v *ValueSummary) Value() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ValueString, ValueIdentifier:
		return v.Text
	case ValueNumber:
		return v.Number
	case ValueBoolean:
		return v.Bool
	case ValueArray:
		return v.Elements
	case ValueObject:
		fields := make(map[string]*ValueSummary, len(v.Fields))
		for _, f := range v.Fields {
			fields[f.Name] = f.Value
		}
		return fields
	case ValueFunction:
		return v.Function
	}
	return nil
}

// MarshalJSON encodes the summary as {"type": kind, "value": value}.
func (v *ValueSummary) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Type  ValueKind `json:"type"`
		Value any       `json:"value"`
	}{Type: v.Kind, Value: v.Value()})
}
