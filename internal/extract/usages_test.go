package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// Test Plan for Usage Resolver:
// - implements and extends clauses record the referrer on the target
// - interface extends records the sub-interface on the parent
// - functions with a parameter typed exactly as the target are recorded
// - usages follow source order of the referrers
// - an entity never lists itself
// - references to names that are not classes or interfaces are ignored
// - export-wrapped declarations participate

func TestResolveUsages_Implements(t *testing.T) {
	t.Parallel()

	m := extractSource(t, "interface I {}\nclass C implements I {}", tsparse.DialectPlain)

	require.Len(t, m.Interfaces, 1)
	assert.Equal(t, []string{"C"}, m.Interfaces[0].Usages)
	require.Len(t, m.Classes, 1)
	assert.Equal(t, []string{"I"}, m.Classes[0].Dependencies)
	assert.Empty(t, m.Classes[0].Usages)
}

func TestResolveUsages_InterfaceExtends(t *testing.T) {
	t.Parallel()

	m := extractSource(t, "interface A {}\ninterface B extends A {}", tsparse.DialectPlain)

	require.Len(t, m.Interfaces, 2)
	assert.Equal(t, []string{"B"}, m.Interfaces[0].Usages)
	assert.Empty(t, m.Interfaces[1].Usages)
}

func TestResolveUsages_OrderAndParameters(t *testing.T) {
	t.Parallel()

	src := `class Tree {}
function walk(t: Tree, depth: number) {}
export class Oak extends Tree {}
function plant(t: Tree[]) {}`
	m := extractSource(t, src, tsparse.DialectPlain)

	require.Len(t, m.Classes, 2)
	// Tree[] is not the exact name and does not count
	assert.Equal(t, []string{"walk", "Oak"}, m.Classes[0].Usages)
}

func TestResolveUsages_NoSelfReference(t *testing.T) {
	t.Parallel()

	m := extractSource(t, "class Node {}\nfunction Node2(n: Node) {}\nclass Loop extends Loop {}", tsparse.DialectPlain)

	require.Len(t, m.Classes, 2)
	assert.Equal(t, []string{"Node2"}, m.Classes[0].Usages)
	assert.Empty(t, m.Classes[1].Usages)
}

func TestResolveUsages_UnknownTargetsIgnored(t *testing.T) {
	t.Parallel()

	m := extractSource(t, "class Child extends External implements Remote {}", tsparse.DialectPlain)

	require.Len(t, m.Classes, 1)
	assert.Equal(t, []string{"External", "Remote"}, m.Classes[0].Dependencies)
	assert.Empty(t, m.Classes[0].Usages)
}
