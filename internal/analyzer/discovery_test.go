package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Include patterns match root-level and nested files
// - Ignore patterns exclude files and whole directories
// - Declaration files are excluded by a file pattern
// - The .tschunk state directory is never scanned
// - Graph-only patterns classify files under a directory
// - Invalid patterns are rejected

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestFileDiscovery_DiscoverFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.ts":                "export {};",
		"types.d.ts":              "declare const x: number;",
		"src/app.tsx":             "export {};",
		"src/util/math.js":        "export {};",
		"src/README.md":           "# docs",
		"dist/bundle.js":          "var a;",
		".next/cache.js":          "var b;",
		".tschunk/config.yml":     "workers: 1",
		"node_modules/lib/lib.ts": "export {};",
	})

	fd, err := NewFileDiscovery(root,
		[]string{"**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx"},
		[]string{"dist/**", ".next/**", "**/*.d.ts"},
		[]string{"node_modules/**"},
	)
	require.NoError(t, err)

	files, err := fd.DiscoverFiles()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"index.ts",
		"node_modules/lib/lib.ts",
		"src/app.tsx",
		"src/util/math.js",
	}, relPaths(t, root, files))
}

func TestFileDiscovery_Classification(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := NewFileDiscovery(root, []string{"**/*.ts"}, []string{"dist/**"}, []string{"node_modules/**", "**/node_modules/**"})
	require.NoError(t, err)

	assert.True(t, fd.Matches(filepath.Join(root, "a.ts")))
	assert.True(t, fd.Matches(filepath.Join(root, "pkg", "b.ts")))
	assert.False(t, fd.Matches(filepath.Join(root, "dist", "c.ts")))
	assert.False(t, fd.Matches(filepath.Join(root, "d.js")))
	assert.False(t, fd.Matches(filepath.Join(root, ".tschunk", "e.ts")))

	assert.True(t, fd.IsGraphOnly(filepath.Join(root, "node_modules", "x", "index.ts")))
	assert.True(t, fd.IsGraphOnly(filepath.Join(root, "packages", "a", "node_modules", "y.ts")))
	assert.False(t, fd.IsGraphOnly(filepath.Join(root, "src", "index.ts")))
}

func TestFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"[unclosed"}, nil, nil)
	assert.Error(t, err)
}
