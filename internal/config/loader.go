package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the directory under the scan root that holds the config file.
const DirName = ".tschunk"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (TSCHUNK_*)
// 2. Config file (.tschunk/config.yml or .tschunk/config.yaml)
// 3. Default values
//
// scan.root defaults to the loader's root directory.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))

	// TSCHUNK_CHUNKING_MAX_CONTEXT_SIZE and friends
	v.SetEnvPrefix("TSCHUNK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"scan.root",
		"chunking.max_context_size",
		"output.path",
		"output.only_graph",
		"workers",
		"cache.capacity",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v, l.rootDir)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper, rootDir string) {
	defaults := Default()

	v.SetDefault("scan.root", rootDir)
	v.SetDefault("scan.include", defaults.Scan.Include)
	v.SetDefault("scan.ignore", defaults.Scan.Ignore)

	v.SetDefault("chunking.max_context_size", defaults.Chunking.MaxContextSize)

	v.SetDefault("output.path", defaults.Output.Path)
	v.SetDefault("output.only_graph", defaults.Output.OnlyGraph)
	v.SetDefault("output.only_graph_dirs", defaults.Output.OnlyGraphDirs)

	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("cache.capacity", defaults.Cache.Capacity)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
