package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mvp-joe/project-neo/internal/extract"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows a byte progress bar per data file on stderr,
// keeping stdout free for results.
type CLIProgressReporter struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
}

var _ extract.ProgressReporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   os.Stderr,
	}
}

func (c *CLIProgressReporter) OnLoadStart(kind extract.Kind, totalBytes int64) {
	if c.quiet {
		return
	}
	// Finish any existing progress bar
	if c.bar != nil {
		c.bar.Finish()
	}

	out := c.out
	c.bar = progressbar.NewOptions64(totalBytes,
		progressbar.OptionSetDescription(fmt.Sprintf("Loading %-10s", kind)),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
}

func (c *CLIProgressReporter) OnBytesRead(n int) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Add(n)
	}
}

func (c *CLIProgressReporter) OnLoadComplete(kind extract.Kind, records, skipped int, duration time.Duration) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}

	fmt.Fprintf(c.out, "✓ Loaded %s %s (took %.1fs)\n", formatNumber(records), kind, duration.Seconds())
	if skipped > 0 {
		fmt.Fprintf(c.out, "  Skipped %s malformed rows\n", formatNumber(skipped))
	}
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
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
