// Package config provides configuration loading for tschunk.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (TSCHUNK_*)
//  3. Project config (.tschunk/config.yml under the scan root)
//  4. Built-in defaults
//
// Nested fields map to underscores: TSCHUNK_CHUNKING_MAX_CONTEXT_SIZE.
package config

import "runtime"

// Config represents the complete tschunk configuration.
// It can be loaded from .tschunk/config.yml with environment variable overrides.
type Config struct {
	Scan     ScanConfig     `yaml:"scan" mapstructure:"scan"`
	Chunking ChunkingConfig `yaml:"chunking" mapstructure:"chunking"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Workers  int            `yaml:"workers" mapstructure:"workers"` // concurrent file analyses
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
}

// ScanConfig defines which files to analyze and which to ignore.
type ScanConfig struct {
	Root    string   `yaml:"root" mapstructure:"root"`       // directory to scan
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// ChunkingConfig defines the chunk budget.
type ChunkingConfig struct {
	MaxContextSize int `yaml:"max_context_size" mapstructure:"max_context_size"` // characters of code + graph per chunk
}

// OutputConfig defines where records go and what they contain.
type OutputConfig struct {
	Path          string   `yaml:"path" mapstructure:"path"`                       // JSONL results log
	OnlyGraph     bool     `yaml:"only_graph" mapstructure:"only_graph"`           // omit code for every file
	OnlyGraphDirs []string `yaml:"only_graph_dirs" mapstructure:"only_graph_dirs"` // omit code under these globs
}

// CacheConfig sizes the in-memory result cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"` // files kept in memory
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Root: ".",
			Include: []string{
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
			},
			Ignore: []string{
				"dist/**",
				"**/dist/**",
				".next/**",
				"**/.next/**",
				".git/**",
				"**/*.d.ts",
			},
		},
		Chunking: ChunkingConfig{
			MaxContextSize: 8000,
		},
		Output: OutputConfig{
			Path:      "crawled.jsonl",
			OnlyGraph: false,
			OnlyGraphDirs: []string{
				"node_modules/**",
				"**/node_modules/**",
			},
		},
		Workers: runtime.NumCPU(),
		Cache: CacheConfig{
			Capacity: 1024,
		},
	}
}
