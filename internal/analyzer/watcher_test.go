package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Watcher:
// - Writing a matching file triggers a debounced re-analysis of that file
// - Files that do not match the include patterns are ignored
// - Stop is idempotent

func TestWatcher_ReanalyzesChangedFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"src/a.ts": "export const A = 1;\n"})

	sink := &memorySink{}
	a, err := New(testConfig(root), sink, nil)
	require.NoError(t, err)
	defer a.Close()

	var mu sync.Mutex
	var batches []*Stats
	w, err := NewWatcher(a, 50*time.Millisecond, func(stats *Stats, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			batches = append(batches, stats)
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.ts"), []byte("export const A = 2;\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 5*time.Second, 20*time.Millisecond)

	byFile := sink.byFile()
	require.NotEmpty(t, byFile["src/a.ts"])
	assert.Equal(t, "export const A = 2;", byFile["src/a.ts"][len(byFile["src/a.ts"])-1].Code)
	assert.NotContains(t, byFile, "notes.txt")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig(t.TempDir()), &memorySink{}, nil)
	require.NoError(t, err)
	defer a.Close()

	w, err := NewWatcher(a, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounceTime)

	w.Start(context.Background())
	w.Stop()
	w.Stop()
}
