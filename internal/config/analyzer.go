package config

import (
	"github.com/mvp-joe/tschunk/internal/analyzer"
)

// ToAnalyzerConfig converts a Config to an analyzer.Config.
func (c *Config) ToAnalyzerConfig() *analyzer.Config {
	return &analyzer.Config{
		RootDir:           c.Scan.Root,
		IncludePatterns:   c.Scan.Include,
		IgnorePatterns:    c.Scan.Ignore,
		GraphOnlyPatterns: c.Output.OnlyGraphDirs,
		MaxContextSize:    c.Chunking.MaxContextSize,
		OnlyGraph:         c.Output.OnlyGraph,
		OutputPath:        c.Output.Path,
		Workers:           c.Workers,
		CacheCapacity:     c.Cache.Capacity,
	}
}
