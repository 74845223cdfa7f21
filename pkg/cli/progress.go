package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ProgressReporter reports progress for batch operations.
type ProgressReporter interface {
	Start(total int)
	Increment(failed bool)
	Finish()
}

// SimpleProgress renders a single-line bar with success and failure counts.
type SimpleProgress struct {
	mu     sync.Mutex
	label  string
	total  int
	done   int
	failed int
	writer io.Writer
}

// NewProgressReporter creates a reporter writing to w, or os.Stderr when w
// is nil.
func NewProgressReporter(w io.Writer, label string) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w, label: label}
}

// Start resets the reporter for total items.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = 0
	p.failed = 0
	p.render()
}

// Increment records one finished item.
func (p *SimpleProgress) Increment(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if failed {
		p.failed++
	}
	p.render()
}

// Finish ends the progress line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total > 0 {
		fmt.Fprintln(p.writer)
	}
}

// Counts returns finished and failed item counts.
func (p *SimpleProgress) Counts() (done, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.failed
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	const barWidth = 30
	filled := min(barWidth*p.done/p.total, barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(p.writer, "\r%s: [%s] %d/%d (%d failed)", p.label, bar, p.done, p.total, p.failed)
}
