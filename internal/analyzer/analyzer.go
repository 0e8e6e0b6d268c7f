package analyzer

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/tschunk/internal/chunker"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// Analyzer chunks every discovered file and hands the records to a Sink.
type Analyzer struct {
	config    *Config
	discovery *FileDiscovery
	cache     *ResultCache
	sink      Sink
	progress  ProgressReporter
}

// New creates an analyzer. The caller owns sink; Close only releases the analyzer's cache.
// A nil progress reporter is replaced by NoOpProgressReporter.
func New(config *Config, sink Sink, progress ProgressReporter) (*Analyzer, error) {
	if sink == nil {
		return nil, fmt.Errorf("output sink is required")
	}
	if config.MaxContextSize <= 0 {
		return nil, fmt.Errorf("%w: %d", chunker.ErrInvalidBudget, config.MaxContextSize)
	}

	discovery, err := NewFileDiscovery(
		config.RootDir,
		config.IncludePatterns,
		config.IgnorePatterns,
		config.GraphOnlyPatterns,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}

	var cache *ResultCache
	if config.CacheCapacity > 0 {
		if cache, err = NewResultCache(config.CacheCapacity); err != nil {
			return nil, err
		}
	}

	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	return &Analyzer{
		config:    config,
		discovery: discovery,
		cache:     cache,
		sink:      sink,
		progress:  progress,
	}, nil
}

// Close releases the result cache.
func (a *Analyzer) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// Run discovers all files under the root and analyzes them.
func (a *Analyzer) Run(ctx context.Context) (*Stats, error) {
	a.progress.OnDiscoveryStart()
	files, err := a.discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	a.progress.OnDiscoveryComplete(len(files))

	return a.AnalyzeFiles(ctx, files)
}

// AnalyzeFiles analyzes the given files concurrently.
//
// A file that cannot be read or parsed is recorded in Stats.Failures and does not stop its
// siblings. A sink failure or context cancellation aborts the run; files not yet started are
// skipped.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, files []string) (*Stats, error) {
	start := time.Now()
	stats := &Stats{FilesDiscovered: len(files), Failures: []*FileError{}}
	var mu sync.Mutex

	a.progress.OnFileProcessingStart(len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())

	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			records, cached, err := a.analyzeFile(path)
			if err != nil {
				fileErr := &FileError{Path: path, Err: err}
				mu.Lock()
				stats.Failures = append(stats.Failures, fileErr)
				mu.Unlock()
				log.Printf("Warning: skipping %s: %v", path, err)
				a.progress.OnFileFailed(path, err)
				return nil
			}

			if err := a.sink.Write(records); err != nil {
				return fmt.Errorf("failed to write records for %s: %w", path, err)
			}

			mu.Lock()
			stats.FilesProcessed++
			stats.RecordsWritten += len(records)
			if cached {
				stats.FilesCached++
			}
			mu.Unlock()

			a.progress.OnFileProcessed(path)
			return nil
		})
	}

	err := g.Wait()
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}

	a.progress.OnComplete(stats)
	return stats, nil
}

// analyzeFile reads and chunks one file. cached reports whether the chunks came from the cache.
func (a *Analyzer) analyzeFile(path string) (records []Record, cached bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read file: %w", err)
	}

	dialect := tsparse.DialectForPath(path)
	chunks, cached := a.cachedChunks(content, dialect)
	if !cached {
		chunks, err = chunker.Split(string(content), path, a.config.MaxContextSize)
		if err != nil {
			return nil, false, err
		}
		if a.cache != nil {
			a.cache.Set(content, dialect, a.config.MaxContextSize, chunks)
		}
	}

	relPath, err := a.discovery.relative(path)
	if err != nil {
		relPath = path
	}
	graphOnly := a.config.OnlyGraph || a.discovery.IsGraphOnly(path)
	return BuildRecords(relPath, chunks, graphOnly), cached, nil
}

func (a *Analyzer) cachedChunks(content []byte, dialect tsparse.Dialect) ([]chunker.Chunk, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Get(content, dialect, a.config.MaxContextSize)
}

func (a *Analyzer) workers() int {
	if a.config.Workers > 0 {
		return a.config.Workers
	}
	return runtime.NumCPU()
}

// BuildRecords numbers chunks from 1 and converts them to output records.
// With graphOnly set, records carry the graph but no code.
func BuildRecords(file string, chunks []chunker.Chunk, graphOnly bool) []Record {
	records := make([]Record, 0, len(chunks))
	for i, c := range chunks {
		record := Record{
			File:            file,
			Chunk:           i + 1,
			MermaidMarkdown: c.Graph.String(),
		}
		if !graphOnly {
			record.Code = c.Code()
		}
		records = append(records, record)
	}
	return records
}

// AnalyzeSource chunks in-memory source into records without touching the cache or sink.
func AnalyzeSource(file, source string, maxSize int, graphOnly bool) ([]Record, error) {
	chunks, err := chunker.Split(source, file, maxSize)
	if err != nil {
		return nil, err
	}
	return BuildRecords(file, chunks, graphOnly), nil
}
