// Package git shells out to the git binary for clone operations.
// Pattern inspired by github.com/cli/cli
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// partialSuffix marks an in-progress clone directory. The clone lands here
// and is renamed to the final path only after git exits successfully, so an
// interrupted run never leaves a half-written repository under its real name.
const partialSuffix = ".partial"

// Client wraps git operations for batch cloning.
type Client struct {
	GitPath  string   // Path to git executable
	Shallow  bool     // Clone with --depth 1
	ExtraEnv []string // Extra environment entries appended to os.Environ
}

// NewClient creates a new git client, locating git on PATH.
func NewClient() *Client {
	gitPath, _ := exec.LookPath("git")

	return &Client{GitPath: gitPath}
}

// BatchSSHEnv returns environment entries for unattended SSH cloning:
// host key checking is disabled and ssh must not prompt.
func BatchSSHEnv() []string {
	return []string{"GIT_SSH_COMMAND=ssh -o StrictHostKeyChecking=no -o BatchMode=yes"}
}

// Clone clones cloneURL into path. The repository is cloned into a sibling
// partial directory first and renamed into place on success; on failure the
// partial directory is removed and a *GitError carrying git's output is
// returned.
func (c *Client) Clone(ctx context.Context, cloneURL, path string) error {
	if c.GitPath == "" {
		return errors.New("git executable not found in PATH")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmp := path + partialSuffix

	// Stale leftover from an interrupted run.
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("failed to remove stale partial clone: %w", err)
	}

	args := []string{"clone"}
	if c.Shallow {
		args = append(args, "--depth", "1")
	}

	args = append(args, cloneURL, tmp)

	cmd := exec.CommandContext(ctx, c.GitPath, args...)
	if len(c.ExtraEnv) > 0 {
		cmd.Env = append(os.Environ(), c.ExtraEnv...)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(tmp)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("git clone interrupted: %w", ctxErr)
		}

		return NewGitError(args, string(output), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.RemoveAll(tmp)

		return fmt.Errorf("failed to move clone into place: %w", err)
	}

	return nil
}
