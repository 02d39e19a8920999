package runner

// ProgressReporter receives batch extraction progress callbacks. All
// callbacks may be invoked from worker goroutines.
type ProgressReporter interface {
	OnDiscoveryComplete(totalFiles int)
	OnFileExtracted(relPath string)
	OnComplete(stats Stats)
}

// NoopProgress is a ProgressReporter that does nothing.
type NoopProgress struct{}

func (NoopProgress) OnDiscoveryComplete(int) {}
func (NoopProgress) OnFileExtracted(string)  {}
func (NoopProgress) OnComplete(Stats)        {}
