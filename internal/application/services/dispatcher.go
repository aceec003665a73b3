package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
)

// Failure is one plugin that could not be installed.
type Failure struct {
	Name string
	Err  error
}

// BatchError collects the failures of one dispatch. Successful installs of
// the same batch are unaffected.
type BatchError struct {
	Failures []Failure
	Total    int
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Name, f.Err))
	}
	return fmt.Sprintf("%d of %d plugins failed: %s", len(e.Failures), e.Total, strings.Join(parts, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Dispatcher runs one installer per plugin concurrently.
type Dispatcher struct {
	installers map[plugin.SourceKind]ports.Installer
	limit      int
	logger     *slog.Logger
}

// NewDispatcher registers installers by the source kind they handle.
// limit caps concurrent installs; a negative limit means no cap.
func NewDispatcher(limit int, logger *slog.Logger, installers ...ports.Installer) *Dispatcher {
	table := make(map[plugin.SourceKind]ports.Installer, len(installers))
	for _, inst := range installers {
		table[inst.Kind()] = inst
	}
	return &Dispatcher{
		installers: table,
		limit:      limit,
		logger:     logger.With("subsystem", "dispatch"),
	}
}

// Dispatch installs every record and returns the successes keyed by folder
// name. Failures never cancel siblings; they are returned as a *BatchError
// alongside the successes.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, jobs []ports.InstallJob, reporter ports.Reporter) (map[string]plugin.Record, error) {
	installed := make(map[string]plugin.Record, len(jobs))
	if len(jobs) == 0 {
		return installed, nil
	}

	var (
		mu       sync.Mutex
		failures []Failure
	)

	reporter.Begin(operation, len(jobs))
	defer reporter.End()

	var g errgroup.Group
	if d.limit > 0 {
		g.SetLimit(d.limit)
	}

	for i, job := range jobs {
		job.Index = i
		job.Total = len(jobs)
		name := displayName(job.Record)
		task := reporter.Task(i, name)

		g.Go(func() error {
			folder, rec, err := d.install(ctx, job, task)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.logger.Error("failed to install plugin", "plugin", name, "error", err)
				task.Fail(err)
				failures = append(failures, Failure{Name: name, Err: err})
				return nil
			}
			// Two installs claiming the same folder: the later one wins.
			installed[folder] = rec
			task.Complete(rec.Version.String())
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		slices.SortStableFunc(failures, func(a, b Failure) int { return strings.Compare(a.Name, b.Name) })
		return installed, &BatchError{Failures: failures, Total: len(jobs)}
	}
	return installed, nil
}

func (d *Dispatcher) install(ctx context.Context, job ports.InstallJob, task ports.ProgressTask) (string, plugin.Record, error) {
	if !job.Record.HasSource() {
		return "", plugin.Record{}, fmt.Errorf("plugin %q has no source", job.Record.Title)
	}
	inst, ok := d.installers[job.Record.Source.Kind()]
	if !ok {
		return "", plugin.Record{}, fmt.Errorf("no installer registered for %s sources", job.Record.Source.Kind())
	}
	if err := ctx.Err(); err != nil {
		return "", plugin.Record{}, err
	}
	return inst.Install(ctx, job, task)
}

func displayName(rec plugin.Record) string {
	if rec.Title != "" {
		return rec.Title
	}
	if rec.Source != nil {
		return rec.Source.String()
	}
	return "unknown plugin"
}
