package installers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/plugin"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/staging"
)

// GitInstaller installs plugins straight from git repositories.
type GitInstaller struct {
	scm    ports.SourceControlClient
	stager *staging.Stager
	logger *slog.Logger
}

// NewGitInstaller creates an installer for git sources.
func NewGitInstaller(scm ports.SourceControlClient, stager *staging.Stager, logger *slog.Logger) *GitInstaller {
	return &GitInstaller{
		scm:    scm,
		stager: stager,
		logger: logger.With("subsystem", "installer", "kind", plugin.SourceGit.String()),
	}
}

// Kind returns plugin.SourceGit.
func (i *GitInstaller) Kind() plugin.SourceKind {
	return plugin.SourceGit
}

// Install fetches the repository's addon folders at the requested reference,
// stages them and commits every discovered folder.
func (i *GitInstaller) Install(ctx context.Context, job ports.InstallJob, task ports.ProgressTask) (string, plugin.Record, error) {
	src := job.Record.Source
	if src == nil || src.Kind() != plugin.SourceGit {
		return "", plugin.Record{}, errors.New("plugin is not from a git repository")
	}

	expected := job.Record.Title
	if expected == "" {
		expected = plugin.RepositoryName(src.URL())
	}

	outcome, err := i.stager.Run(ctx, staging.Request{
		Key:          src.StagingKey(),
		Source:       *src,
		ExpectedName: expected,
		Populate: func(ctx context.Context, area staging.Area) error {
			task.Status("Cloning...")
			files, err := i.scm.ShallowFetch(ctx, src.URL(), src.Reference(), area.Root)
			if err != nil {
				return err
			}
			task.SetTotal(int64(files))
			task.Advance(int64(files))
			return nil
		},
	})
	if err != nil {
		return "", plugin.Record{}, fmt.Errorf("failed to install %s: %w", src.URL(), err)
	}

	rec := outcome.Record
	if rec.License == nil && job.Record.License != nil {
		rec.License = plugin.StringPtr(*job.Record.License)
	}
	i.logger.Debug("installed plugin", "url", src.URL(), "reference", src.Reference(), "folder", outcome.Folder)
	return outcome.Folder, rec, nil
}

var _ ports.Installer = (*GitInstaller)(nil)
