package analyzer

// ProgressReporter provides callbacks for reporting analysis progress.
// Implementations can display progress bars, log messages, or remain silent.
// OnFileProcessed and OnFileFailed may be called from several goroutines at once.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(files int)

	// OnFileProcessingStart is called before processing files.
	OnFileProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file is analyzed and written.
	OnFileProcessed(fileName string)

	// OnFileFailed is called for each file that could not be analyzed.
	OnFileFailed(fileName string, err error)

	// OnComplete is called when the run completes.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                       {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(files int)           {}
func (n *NoOpProgressReporter) OnFileProcessingStart(totalFiles int)    {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string)         {}
func (n *NoOpProgressReporter) OnFileFailed(fileName string, err error) {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                 {}
