package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// stateDir holds tschunk's own configuration and is never scanned.
const stateDir = ".tschunk"

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery finds source files under a root using include and ignore globs, and
// classifies files that should only contribute graphs.
type FileDiscovery struct {
	rootDir           string
	includePatterns   []compiledPattern
	ignorePatterns    []compiledPattern
	graphOnlyPatterns []compiledPattern
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, includePatterns, ignorePatterns, graphOnlyPatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	var err error
	if fd.includePatterns, err = compilePatterns(includePatterns); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compilePatterns(ignorePatterns); err != nil {
		return nil, err
	}
	if fd.graphOnlyPatterns, err = compilePatterns(graphOnlyPatterns); err != nil {
		return nil, err
	}
	return fd, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// DiscoverFiles walks the root and returns the matching files in lexical order.
// Ignored directories are not descended into.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := fd.relative(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}
		if fd.matchesAnyPattern(relPath, fd.includePatterns) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Matches reports whether a file would be picked up by DiscoverFiles.
func (fd *FileDiscovery) Matches(path string) bool {
	relPath, err := fd.relative(path)
	if err != nil {
		return false
	}
	return !fd.shouldIgnore(relPath) && fd.matchesAnyPattern(relPath, fd.includePatterns)
}

// IsGraphOnly reports whether records for path should omit code.
func (fd *FileDiscovery) IsGraphOnly(path string) bool {
	relPath, err := fd.relative(path)
	if err != nil {
		return false
	}
	return fd.matchesDir(relPath, fd.graphOnlyPatterns)
}

// relative returns path relative to the root with forward slashes.
func (fd *FileDiscovery) relative(path string) (string, error) {
	relPath, err := filepath.Rel(fd.rootDir, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(relPath), nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, stateDir+"/") || relPath == stateDir {
		return true
	}
	return fd.matchesDir(relPath, fd.ignorePatterns)
}

// matchesDir matches relPath itself, and also as a directory so that "dist" matches "dist/**".
func (fd *FileDiscovery) matchesDir(relPath string, patterns []compiledPattern) bool {
	if fd.matchesAnyPattern(relPath, patterns) {
		return true
	}
	return fd.matchesAnyPattern(relPath+"/**", patterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A root-level file has no slash for "**/" to consume, so "**/*.ts" is retried as "*.ts".
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			if simplified, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && simplified.Match(path) {
				return true
			}
		}
	}

	return false
}
