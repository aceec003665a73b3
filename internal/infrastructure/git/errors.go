package git

import "errors"

// Error types for git operations.
var (
	// ErrGitNotFound indicates no git executable is available.
	ErrGitNotFound = errors.New("git executable not found")

	// ErrAddonsNotFound indicates the fetched commit has no addon container directory.
	ErrAddonsNotFound = errors.New("no addons folder found in this commit")
)
