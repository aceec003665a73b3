// Package git fetches plugin trees from git repositories with the git executable.
package git

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nlepage/go-tarfs"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/layout"
	"github.com/k0psutin/gdm-sub000/internal/infrastructure/archive"
)

// scratchDir is the bare repository created inside the destination for one fetch.
const scratchDir = ".git-fetch"

// Client implements ports.SourceControlClient with shallow fetches.
type Client struct {
	fs        ports.FileSystem
	extractor *archive.Extractor
	container string
	logger    *slog.Logger
}

// NewClient creates a git client. The addons tree of fetched commits is
// written to the container directory below each destination.
func NewClient(fsys ports.FileSystem, container string, logger *slog.Logger) *Client {
	if container == "" {
		container = layout.DefaultContainer
	}
	return &Client{
		fs:        fsys,
		extractor: archive.NewExtractor(fsys, layout.DefaultContainer),
		container: container,
		logger:    logger.With("subsystem", "git"),
	}
}

// Available reports whether a git executable can be found.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// ShallowFetch fetches ref of url at depth one and writes only its addons
// tree to dest/<container>. It returns the number of files written.
func (c *Client) ShallowFetch(ctx context.Context, url, ref, dest string) (int, error) {
	if !Available() {
		return 0, ErrGitNotFound
	}

	scratch := filepath.Join(dest, scratchDir)
	if err := c.fs.MkdirAll(scratch); err != nil {
		return 0, err
	}
	defer func() {
		if err := c.fs.RemoveAll(scratch); err != nil {
			c.logger.Warn("failed to remove scratch repository", "path", scratch, "error", err)
		}
	}()

	c.logger.Debug("fetching repository", "url", url, "ref", ref)
	if _, err := newCommand(scratch, "init", "--bare", "--quiet").run(ctx); err != nil {
		return 0, fmt.Errorf("failed to initialize scratch repository: %w", err)
	}
	if _, err := newCommand(scratch, "fetch", "--depth", "1", "--quiet", url, ref).run(ctx); err != nil {
		return 0, fmt.Errorf("failed to fetch %s at %s: %w", url, ref, err)
	}

	tree, err := newCommand(scratch, "ls-tree", "-d", "--name-only", "FETCH_HEAD", layout.DefaultContainer).run(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tree of %s: %w", url, err)
	}
	if strings.TrimSpace(tree) == "" {
		return 0, fmt.Errorf("%w: %s at %s", ErrAddonsNotFound, url, ref)
	}

	var tarball bytes.Buffer
	if err := newCommand(scratch, "archive", "--format=tar", "FETCH_HEAD", layout.DefaultContainer).stream(ctx, &tarball); err != nil {
		return 0, fmt.Errorf("failed to archive %s: %w", url, err)
	}

	tfs, err := tarfs.New(&tarball)
	if err != nil {
		return 0, fmt.Errorf("failed to create tarfs: %w", err)
	}

	files, err := c.extractor.CopyFS(tfs, filepath.Join(dest, c.container))
	if err != nil {
		return files, fmt.Errorf("failed to extract %s: %w", url, err)
	}
	c.logger.Debug("fetched repository", "url", url, "ref", ref, "files", files)
	return files, nil
}

var _ ports.SourceControlClient = (*Client)(nil)
