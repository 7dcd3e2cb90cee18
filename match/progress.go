package match

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how many candidate questions have vectors.
// Questions served from the cache are counted separately from those that
// went through the encoder.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	done           int
	cached         int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: number of candidate questions
// reportInterval: report progress every N questions
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.done = 0
	p.cached = 0
	p.lastReported = 0
}

// Embedded records n questions that were sent to the encoder.
func (p *ProgressTracker) Embedded(n int) {
	p.advance(n, false)
}

// Cached records n questions whose vectors came from the cache.
func (p *ProgressTracker) Cached(n int) {
	p.advance(n, true)
}

func (p *ProgressTracker) advance(n int, cached bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.done = min(p.done+n, p.total)
	if cached {
		p.cached = min(p.cached+n, p.total)
	}

	if p.done-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.done
	}
}

// Finish prints the final line and a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
}

// Counts returns the number of finished questions and how many of them were cached.
func (p *ProgressTracker) Counts() (done, cached int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.cached
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	rate := 0.0
	if secs := time.Since(p.startTime).Seconds(); secs > 0 {
		rate = float64(p.done-p.cached) / secs
	}

	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rCandidates: %d/%d (%.1f%%, %d cached) - %.1f questions/s",
		p.done, p.total, percentage, p.cached, rate)
}
