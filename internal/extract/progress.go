package extract

import (
	"io"
	"time"
)

// Kind names the data set being loaded.
type Kind string

const (
	KindNEOs       Kind = "neos"
	KindApproaches Kind = "approaches"
)

// ProgressReporter provides callbacks for reporting load progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnLoadStart is called once the source file is open. totalBytes is -1 when unknown.
	OnLoadStart(kind Kind, totalBytes int64)

	// OnBytesRead is called as the source is consumed.
	OnBytesRead(n int)

	// OnLoadComplete is called after the last record is parsed.
	OnLoadComplete(kind Kind, records, skipped int, duration time.Duration)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnLoadStart(kind Kind, totalBytes int64) {}
func (NoOpProgressReporter) OnBytesRead(n int)                       {}
func (NoOpProgressReporter) OnLoadComplete(kind Kind, records, skipped int, duration time.Duration) {
}

// progressReader reports every successful read to a ProgressReporter.
type progressReader struct {
	r        io.Reader
	progress ProgressReporter
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.progress.OnBytesRead(n)
	}
	return n, err
}
