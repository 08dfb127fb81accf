package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reindexing progress to a writer as units are
// re-embedded. Reports are throttled to every reportInterval units; the
// final report is always written. Safe for concurrent use.
type ProgressTracker struct {
	mu         sync.Mutex
	writer     io.Writer
	total      int
	current    int
	nextReport int
	interval   int
	startTime  time.Time
	started    bool
}

// NewProgressTracker creates a tracker over total units, reporting every
// reportInterval units to writer (typically os.Stderr).
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		writer:   writer,
		total:    total,
		interval: reportInterval,
	}
}

// Start resets the tracker and begins timing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.nextReport = p.interval
}

// Update records that current units have been processed so far.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	if current > p.total {
		current = p.total
	}
	p.current = current

	if p.current >= p.nextReport {
		p.report()
		p.nextReport = p.current + p.interval
	}
}

// Finish writes the final report and terminates the progress line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report writes one progress line. Caller holds the lock.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()

	remaining := "?"
	if rate > 0 && p.current < p.total {
		eta := time.Duration(float64(p.total-p.current)/rate*float64(time.Second))
		remaining = eta.Round(time.Second).String()
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rre-embedded %d/%d units (%.1f%%, %.1f units/s, eta %s)",
		p.current, p.total, percentage, rate, remaining)
}
