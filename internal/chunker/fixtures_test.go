package chunker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Chunker on realistic files (testdata/code/typescript):
// - With a generous budget, chunks end exactly after each class or function declaration
// - With a tight budget, the file is split further and still reproduced exactly
// - Every chunk that carries a declaration carries its graph

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "code", "typescript", name))
	require.NoError(t, err)
	return string(data)
}

func TestChunk_FixtureDeclarationBoundaries(t *testing.T) {
	t.Parallel()

	source := readFixture(t, "inventory.ts")
	chunks, err := Split(source, "inventory.ts", 100000)
	require.NoError(t, err)

	require.Len(t, chunks, 5)
	assert.Equal(t, source, joinChunks(chunks))

	assert.True(t, strings.HasPrefix(chunks[0].Code(), `import { EventEmitter } from "events";`))
	assert.True(t, strings.HasSuffix(chunks[0].Code(), "this.items.set(id, value);\n  }\n}"))
	assert.True(t, strings.HasPrefix(chunks[1].Code(), "// Inventory tracks stock"))
	assert.True(t, strings.HasPrefix(chunks[2].Code(), "export function describe"))
	assert.True(t, strings.HasPrefix(chunks[3].Code(), "export async function loadInventory"))
	assert.Equal(t, "export const DEFAULT_SKU: Sku = \"none\";\nexport default Inventory;", chunks[4].Code())

	first := chunks[0].Graph.String()
	assert.Contains(t, first, "<<enumeration>>")
	assert.Contains(t, first, "<<interface>>")
	assert.Contains(t, first, "class BaseRepository~T~ {")
	assert.Contains(t, chunks[1].Graph.String(), "class Inventory {")
	assert.Contains(t, chunks[3].Graph.String(), "+async loadInventory(")
	assert.Contains(t, chunks[4].Graph.String(), "--> Export : default variable")
}

func TestChunk_FixtureTightBudget(t *testing.T) {
	t.Parallel()

	source := readFixture(t, "inventory.ts")
	generous, err := Split(source, "inventory.ts", 100000)
	require.NoError(t, err)

	tight, err := Split(source, "inventory.ts", 200)
	require.NoError(t, err)

	assert.Greater(t, len(tight), len(generous))
	assert.Equal(t, source, joinChunks(tight))
	for _, c := range tight {
		assert.NotEmpty(t, strings.TrimSpace(c.SourceText))
	}
}

func TestChunk_FixtureComponents(t *testing.T) {
	t.Parallel()

	source := readFixture(t, "dashboard.tsx")
	chunks, err := Split(source, "dashboard.tsx", 100000)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, source, joinChunks(chunks))

	graph := chunks[0].Graph.String()
	assert.Contains(t, graph, "%% components")
	assert.Contains(t, graph, "class Row {")
	assert.Contains(t, graph, "class Dashboard {")
	assert.Contains(t, chunks[1].Graph.String(), "+totalQuantity(items: Item[]) number")
}
