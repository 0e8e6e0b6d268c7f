// Package analyzer runs the chunker over a directory tree: it discovers files, analyzes
// them concurrently, caches results by content and appends output records to a JSONL log.
package analyzer

import (
	"fmt"
	"time"
)

// Config contains the settings for an analysis run.
type Config struct {
	RootDir           string
	IncludePatterns   []string
	IgnorePatterns    []string
	GraphOnlyPatterns []string // files under these omit code from their records
	MaxContextSize    int      // chunk budget in characters
	OnlyGraph         bool     // omit code for every file
	OutputPath        string
	Workers           int
	CacheCapacity     int // number of files whose chunks are kept in memory
}

// Record is one output line: a chunk of a file with its rendered graph.
type Record struct {
	File            string `json:"file"`
	Chunk           int    `json:"chunk"` // 1-based, contiguous per file
	Code            string `json:"code"`
	MermaidMarkdown string `json:"mermaidMarkdown"`
}

// FileError attributes a failure to the file it occurred in.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Stats summarizes an analysis run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesCached     int
	RecordsWritten  int
	Failures        []*FileError
	Duration        time.Duration
}
