package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mvp-joe/tschunk/internal/analyzer"
	"github.com/mvp-joe/tschunk/internal/config"
	"github.com/spf13/cobra"
)

var (
	quietFlag          bool
	watchFlag          bool
	onlyGraphFlag      bool
	outputFlag         string
	maxContextSizeFlag int
	workersFlag        int
)

// chunkCmd represents the chunk command
var chunkCmd = &cobra.Command{
	Use:   "chunk [dir]",
	Short: "Chunk every source file under a directory into JSONL records",
	Long: `Chunk discovers TypeScript and JavaScript files under a directory (the current
directory by default), splits each one into declaration-aligned chunks that fit
the context budget, and appends one JSON record per chunk to the output file.
An output path ending in .db, .sqlite or .sqlite3 stores the records in a
SQLite table instead.

Configuration is read from <dir>/.tschunk/config.yml, TSCHUNK_* environment
variables and the flags below, in increasing order of priority.

Examples:
  # Chunk the current directory into crawled.jsonl
  tschunk chunk

  # Smaller chunks, graph only, custom output
  tschunk chunk ./web --max-context-size 4000 --only-graph -o graph.jsonl

  # Store records in SQLite
  tschunk chunk -o records.db

  # Keep running and re-chunk files as they change
  tschunk chunk --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
	chunkCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	chunkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and re-chunk them")
	chunkCmd.Flags().BoolVar(&onlyGraphFlag, "only-graph", false, "Emit records without code, graph only")
	chunkCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file, JSONL or SQLite by extension (default from config: crawled.jsonl)")
	chunkCmd.Flags().IntVar(&maxContextSizeFlag, "max-context-size", 0, "Maximum characters of code plus graph per chunk")
	chunkCmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of files analyzed concurrently")
}

func runChunk(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted! Stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	rootDir, err := resolveRoot(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyChunkFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	analyzerConfig := cfg.ToAnalyzerConfig()
	analyzerConfig.RootDir = resolveAgainst(rootDir, analyzerConfig.RootDir)
	if !cmd.Flags().Changed("output") {
		analyzerConfig.OutputPath = resolveAgainst(rootDir, analyzerConfig.OutputPath)
	}

	if verbose {
		log.Printf("Scanning %s (max context size %d, %d workers)", analyzerConfig.RootDir, analyzerConfig.MaxContextSize, analyzerConfig.Workers)
	}

	sink, err := analyzer.NewSink(analyzerConfig.OutputPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	progress := NewCLIProgressReporter(quietFlag, cmd.OutOrStdout())
	a, err := analyzer.New(analyzerConfig, sink, progress)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer a.Close()

	stats, err := a.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("chunking cancelled")
		}
		return fmt.Errorf("chunking failed: %w", err)
	}
	reportFailures(cmd, stats)

	if !watchFlag {
		return nil
	}

	if !quietFlag {
		log.Println("Starting watch mode...")
	}
	watcher, err := analyzer.NewWatcher(a, analyzer.DefaultDebounce, func(stats *analyzer.Stats, err error) {
		if err != nil {
			log.Printf("Warning: re-chunking failed: %v", err)
			return
		}
		reportFailures(cmd, stats)
	})
	if err != nil {
		return fmt.Errorf("failed to start watch mode: %w", err)
	}
	watcher.Start(ctx)

	<-ctx.Done()
	watcher.Stop()

	if !quietFlag {
		log.Println("Watch mode stopped")
	}
	return nil
}

// applyChunkFlags overrides configuration values with explicitly set flags.
func applyChunkFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Path = outputFlag
	}
	if flags.Changed("only-graph") {
		cfg.Output.OnlyGraph = onlyGraphFlag
	}
	if flags.Changed("max-context-size") {
		cfg.Chunking.MaxContextSize = maxContextSizeFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
}

func reportFailures(cmd *cobra.Command, stats *analyzer.Stats) {
	if stats == nil || len(stats.Failures) == 0 {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Skipped %d file(s):\n", len(stats.Failures))
	for _, failure := range stats.Failures {
		fmt.Fprintf(out, "  %s: %v\n", failure.Path, failure.Err)
	}
}

func resolveRoot(args []string) (string, error) {
	if len(args) == 1 {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", root)
		}
		return root, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// resolveAgainst makes a config-relative path absolute under rootDir.
func resolveAgainst(rootDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}
