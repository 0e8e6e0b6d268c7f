package cli

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/mvp-joe/tschunk/internal/analyzer"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements analyzer.ProgressReporter with a progress bar.
// Callbacks arrive from worker goroutines.
type CLIProgressReporter struct {
	mu         sync.Mutex
	quiet      bool
	out        io.Writer
	fileBar    *progressbar.ProgressBar
	totalFiles int
}

// NewCLIProgressReporter creates a progress reporter that draws on out.
func NewCLIProgressReporter(quiet bool, out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   out,
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d source files\n", files)
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalFiles = totalFiles
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Chunking files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(fileName string) {
	c.advance()
}

// OnFileFailed still advances the bar; the failure itself is summarised by OnComplete.
func (c *CLIProgressReporter) OnFileFailed(fileName string, err error) {
	c.advance()
}

func (c *CLIProgressReporter) advance() {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fileBar != nil {
		_ = c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *analyzer.Stats) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		_ = c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "✓ Chunking complete: %s records from %s files in %.1fs\n",
		formatNumber(stats.RecordsWritten),
		formatNumber(stats.FilesProcessed),
		stats.Duration.Seconds())
	if stats.FilesCached > 0 {
		fmt.Fprintf(c.out, "  Unchanged (cached): %s\n", formatNumber(stats.FilesCached))
	}
	if len(stats.Failures) > 0 {
		fmt.Fprintf(c.out, "  Skipped: %s\n", formatNumber(len(stats.Failures)))
	}
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}

var _ analyzer.ProgressReporter = (*CLIProgressReporter)(nil)
