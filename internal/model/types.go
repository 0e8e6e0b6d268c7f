package model

import "strings"

// TypeKind tags the variant held by a TypeExpr.
type TypeKind int

const (
	// TypeLiteral is any type kept as its source text.
	TypeLiteral TypeKind = iota
	// TypeNamed is a type reference, optionally with generic arguments.
	TypeNamed
	// TypeArray is ElementType[].
	TypeArray
	// TypeShape is an object type literal.
	TypeShape
	// TypeUnion is A | B.
	TypeUnion
	// TypeIntersection is A & B.
	TypeIntersection
)

// TypeExpr is a normalized type annotation.
type TypeExpr struct {
	Kind    TypeKind
	Text    string     // literal text, or the name of a named reference
	Args    []TypeExpr // generic arguments of a named reference
	Elem    *TypeExpr  // element of an array
	Fields  []Field    // fields of a shape
	Members []TypeExpr // members of a union or intersection
}

// Field is one member of a shape type.
type Field struct {
	Name string
	Type TypeExpr
}

// Any is used wherever no explicit type is present.
var Any = Literal("any")

// Void is the return type of a function without any return statement.
var Void = Literal("void")

// Literal returns a TypeExpr that renders as text.
func Literal(text string) TypeExpr {
	return TypeExpr{Kind: TypeLiteral, Text: text}
}

// Named returns a type reference with optional generic arguments.
func Named(name string, args ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeNamed, Text: name, Args: args}
}

// ArrayOf returns elem[].
func ArrayOf(elem TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeArray, Elem: &elem}
}

// Shape returns an object type with the given fields.
func Shape(fields ...Field) TypeExpr {
	return TypeExpr{Kind: TypeShape, Fields: fields}
}

// Union returns a flattened union of members.
func Union(members ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeUnion, Members: flatten(TypeUnion, members)}
}

// Intersection returns a flattened intersection of members.
func Intersection(members ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeIntersection, Members: flatten(TypeIntersection, members)}
}

func flatten(kind TypeKind, members []TypeExpr) []TypeExpr {
	var out []TypeExpr
	for _, m := range members {
		if m.Kind == kind {
			out = append(out, m.Members...)
			continue
		}
		out = append(out, m)
	}
	return out
}

// FieldType looks up a field of a shape type.
func (t TypeExpr) FieldType(name string) (TypeExpr, bool) {
	if t.Kind != TypeShape {
		return TypeExpr{}, false
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return TypeExpr{}, false
}

// String renders the type back to TypeScript-like text.
func (t TypeExpr) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeExpr) write(b *strings.Builder) {
	switch t.Kind {
	case TypeNamed:
		b.WriteString(t.Text)
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteByte('>')
		}
	case TypeArray:
		if t.Elem == nil {
			b.WriteString("any[]")
			return
		}
		if t.Elem.Kind == TypeUnion || t.Elem.Kind == TypeIntersection {
			b.WriteByte('(')
			t.Elem.write(b)
			b.WriteByte(')')
		} else {
			t.Elem.write(b)
		}
		b.WriteString("[]")
	case TypeShape:
		if len(t.Fields) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Type.write(b)
		}
		b.WriteString(" }")
	case TypeUnion, TypeIntersection:
		sep := " | "
		if t.Kind == TypeIntersection {
			sep = " & "
		}
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(sep)
			}
			m.write(b)
		}
	default:
		b.WriteString(t.Text)
	}
}

// MarshalText renders the type as text so JSON output stays readable.
func (t TypeExpr) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
