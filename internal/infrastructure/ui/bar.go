package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

// BarReporter draws one bar counting finished plugins and prints a line per outcome.
type BarReporter struct {
	out io.Writer

	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	total int
}

// NewBarReporter creates a reporter writing to out.
func NewBarReporter(out io.Writer) *BarReporter {
	return &BarReporter{out: out}
}

// Begin starts the bar for total plugins.
func (r *BarReporter) Begin(operation string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(operation),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// Task returns the handle of plugin index (zero-based).
func (r *BarReporter) Task(index int, name string) ports.ProgressTask {
	return &barTask{reporter: r, label: fmt.Sprintf("%s %s", counter(index, r.total), name)}
}

// End finishes the bar.
func (r *BarReporter) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

func (r *BarReporter) describe(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Describe(label)
	}
}

func (r *BarReporter) finish(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintln(r.out, line)
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

type barTask struct {
	reporter *BarReporter
	label    string
}

func (t *barTask) Status(message string) { t.reporter.describe(t.label + ": " + message) }
func (t *barTask) SetTotal(int64)        {}
func (t *barTask) Advance(int64)         {}

func (t *barTask) Complete(detail string) {
	t.reporter.finish(fmt.Sprintf("%s %s %s", successMark, t.label, detail))
}

func (t *barTask) Fail(err error) {
	t.reporter.finish(fmt.Sprintf("%s %s %v", failureMark, t.label, err))
}

func counter(index, total int) string {
	return fmt.Sprintf("[%d/%d]", index+1, total)
}
