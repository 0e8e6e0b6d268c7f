// Package render turns a model.StructuralModel into a Mermaid class diagram.
package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/tschunk/internal/model"
)

// header is the graph-type declaration every non-empty document starts with.
const header = "classDiagram"

// exportNode is the sentinel node every export edge points at.
const exportNode = "Export"

// Document is a rendered diagram: an ordered list of statement lines.
// The zero value is the empty document.
type Document struct {
	lines []string
}

// Lines returns a copy of the statement lines, without the header.
func (d Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// IsEmpty reports whether the document has nothing beyond the header.
func (d Document) IsEmpty() bool {
	return len(d.lines) == 0
}

// String returns the diagram text, or "" for an empty document.
func (d Document) String() string {
	if d.IsEmpty() {
		return ""
	}
	return header + "\n" + strings.Join(d.lines, "\n") + "\n"
}

// Len is the size of String() in characters.
func (d Document) Len() int {
	return utf8.RuneCountInString(d.String())
}

// Render renders m. Identical models always render to identical documents.
//
// Emission order: classes, interfaces, type aliases, enums, functions, import edges,
// export edges, then a trailing component block when there are components.
func Render(m *model.StructuralModel) Document {
	if m == nil {
		return Document{}
	}

	w := &writer{}

	for _, c := range m.Classes {
		w.open(c.Name, c.GenericParameters)
		for _, p := range c.Properties {
			w.member("%s: %s", p.Name, p.Type)
		}
		for _, method := range c.Methods {
			w.member("%s", signature(method.Name, method.Parameters, method.ReturnType))
		}
		w.close()
		for _, dep := range c.Dependencies {
			w.line("%s --> %s", nodeID(c.Name), nodeID(dep))
		}
		for _, usage := range c.Usages {
			w.line("%s <.. %s", nodeID(c.Name), nodeID(usage))
		}
	}

	for _, i := range m.Interfaces {
		w.open(i.Name, i.GenericParameters)
		w.member("<<interface>>")
		for _, p := range i.Properties {
			w.member("+%s: %s", p.Name, p.Type)
		}
		for _, method := range i.Methods {
			w.member("+%s", signature(method.Name, method.Parameters, method.ReturnType))
		}
		w.close()
		for _, dep := range i.Dependencies {
			w.line("%s --|> %s", nodeID(i.Name), nodeID(dep))
		}
		for _, usage := range i.Usages {
			w.line("%s <.. %s", nodeID(i.Name), nodeID(usage))
		}
	}

	for _, t := range m.TypeAliases {
		w.open(t.Name, nil)
		w.member("<<type>>")
		w.member("%s", t.Definition)
		w.close()
	}

	for _, e := range m.Enums {
		w.open(e.Name, nil)
		w.member("<<enumeration>>")
		for _, member := range e.Members {
			w.member("%s", member)
		}
		w.close()
	}

	for _, f := range m.Functions {
		w.open(f.Name, f.GenericParameters)
		w.member("<<function>>")
		sig := signature(f.Name, f.Parameters, f.ReturnType)
		if f.IsAsync {
			sig = "async " + sig
		}
		w.member("+%s", sig)
		w.close()
	}

	for _, imp := range m.Imports {
		target := nodeID(imp.Path)
		for _, name := range imp.ImportedNames {
			w.line("%s --> %s", nodeID(name), target)
		}
		if imp.DefaultBinding != "" {
			w.line("%s --> %s", nodeID(imp.DefaultBinding), target)
		}
	}

	for _, exp := range m.Exports {
		w.line("%s --> %s : %s", nodeID(exp.Name), exportNode, exportLabel(exp))
	}

	if len(m.Components) > 0 {
		w.line("%%%% components")
		for _, comp := range m.Components {
			w.open(comp.Name, comp.GenericParameters)
			w.member("<<component>>")
			for _, prop := range comp.Props {
				w.member("%s: %s", prop.Name, prop.Type.String())
			}
			w.close()
		}
	}

	return Document{lines: w.lines}
}

type writer struct {
	lines []string
}

func (w *writer) line(format string, args ...any) {
	w.lines = append(w.lines, oneLine(fmt.Sprintf(format, args...)))
}

func (w *writer) open(name string, generics []string) {
	id := nodeID(name)
	if len(generics) > 0 {
		id += "~" + strings.Join(generics, ", ") + "~"
	}
	w.line("class %s {", id)
}

// member writes one line inside a class block. Braces in member text would end the block
// early, so they are written as Mermaid entity codes.
func (w *writer) member(format string, args ...any) {
	w.lines = append(w.lines, "  "+memberEscaper.Replace(oneLine(fmt.Sprintf(format, args...))))
}

var memberEscaper = strings.NewReplacer("{", "#123;", "}", "#125;")

func (w *writer) close() {
	w.line("}")
}

// signature renders name(a: A, b: B) R.
func signature(name string, params []model.Parameter, returnType model.TypeExpr) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	return fmt.Sprintf("%s(%s) %s", name, strings.Join(parts, ", "), returnType.String())
}

func exportLabel(exp model.ExportEdge) string {
	switch exp.Kind {
	case model.ExportDefault:
		return "default " + string(exp.DefaultKind)
	case model.ExportFunction:
		if exp.IsAsync {
			return "async function"
		}
	}
	return string(exp.Kind)
}

// nodeID maps an arbitrary name or module path to a Mermaid-safe identifier:
// every rune that is not a letter, digit or underscore becomes '_'.
func nodeID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// oneLine collapses all whitespace runs so multi-line type text stays on one diagram line.
func oneLine(s string) string {
	leading := len(s) - len(strings.TrimLeft(s, " "))
	return s[:leading] + strings.Join(strings.Fields(s), " ")
}
