package analyzer

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tschunk/internal/chunker"
	"github.com/mvp-joe/tschunk/internal/render"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// Test Plan for JSONLWriter and ResultCache:
// - Records are appended as one JSON object per line, across writer instances
// - Markup characters are written unescaped
// - Concurrent writes keep each call's records contiguous
// - Cache hits require identical content, dialect and budget
// - Non-positive cache capacity is rejected

func TestJSONLWriter_Appends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.jsonl")

	w, err := NewJSONLWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write([]Record{{File: "a.ts", Chunk: 1, Code: "<div/>"}}))
	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Close())

	w, err = NewJSONLWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write([]Record{{File: "b.ts", Chunk: 1}, {File: "b.ts", Chunk: 2}}))
	require.NoError(t, w.Close())

	records := readJSONL(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, "a.ts", records[0].File)
	assert.Equal(t, "<div/>", records[0].Code)
	assert.Equal(t, 2, records[2].Chunk)
}

func TestJSONLWriter_ConcurrentWritesStayContiguous(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.jsonl")
	w, err := NewJSONLWriter(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			file := fmt.Sprintf("f%d.ts", i)
			records := make([]Record, 5)
			for j := range records {
				records[j] = Record{File: file, Chunk: j + 1}
			}
			assert.NoError(t, w.Write(records))
		}()
	}
	wg.Wait()
	require.NoError(t, w.Close())

	records := readJSONL(t, path)
	require.Len(t, records, 40)
	for i := 0; i < len(records); i += 5 {
		for j := 0; j < 5; j++ {
			assert.Equal(t, records[i].File, records[i+j].File)
			assert.Equal(t, j+1, records[i+j].Chunk)
		}
	}
}

func TestResultCache(t *testing.T) {
	t.Parallel()

	_, err := NewResultCache(0)
	assert.Error(t, err)

	cache, err := NewResultCache(8)
	require.NoError(t, err)
	defer cache.Close()

	content := []byte("export const A = 1;")
	chunks := []chunker.Chunk{{SourceText: string(content), Graph: render.Document{}}}
	cache.Set(content, tsparse.DialectPlain, 100, chunks)

	got, ok := cache.Get(content, tsparse.DialectPlain, 100)
	require.True(t, ok)
	assert.Equal(t, chunks, got)

	_, ok = cache.Get(content, tsparse.DialectJSX, 100)
	assert.False(t, ok)
	_, ok = cache.Get(content, tsparse.DialectPlain, 200)
	assert.False(t, ok)
	_, ok = cache.Get([]byte("export const B = 2;"), tsparse.DialectPlain, 100)
	assert.False(t, ok)
}
