package ports

import (
	"context"

	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
)

// InstallJob is one plugin request handed to an installer.
type InstallJob struct {
	Record plugin.Record
	// Asset is catalog metadata already resolved by the caller, nil when the installer must resolve it.
	Asset *Asset
	Index int
	Total int
}

// Installer stages and commits plugins of one source kind
type Installer interface {
	// Kind returns the source variant this installer handles
	Kind() plugin.SourceKind

	// Install resolves, stages and commits the plugin, returning its folder name and record
	Install(ctx context.Context, job InstallJob, task ProgressTask) (string, plugin.Record, error)
}

// Reporter presents the progress of a batch operation
type Reporter interface {
	Begin(operation string, total int)
	Task(index int, name string) ProgressTask
	End()
}

// ProgressTask tracks one plugin inside a batch. Implementations are safe for concurrent use.
type ProgressTask interface {
	Status(message string)
	SetTotal(total int64)
	Advance(n int64)
	Complete(detail string)
	Fail(err error)
}
