package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// command is one git invocation in a working directory.
type command struct {
	dir  string
	args []string
}

func newCommand(dir string, args ...string) *command {
	return &command{dir: dir, args: args}
}

// run executes the command and returns its standard output.
func (c *command) run(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	if err := c.stream(ctx, &stdout); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

// stream executes the command writing standard output to w.
func (c *command) stream(ctx context.Context, w io.Writer) error {
	cmd := exec.CommandContext(ctx, "git", c.args...)
	if c.dir != "" {
		cmd.Dir = c.dir
	}

	var stderr bytes.Buffer
	cmd.Stdout = w
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("git %s: %w", strings.Join(c.args, " "), ctxErr)
		}
		return fmt.Errorf("git %s: %s", strings.Join(c.args, " "), strings.TrimSpace(stderr.String()))
	}
	return nil
}
