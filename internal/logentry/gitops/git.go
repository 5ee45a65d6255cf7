package gitops

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a command in a directory and returns its combined output.
// The indirection exists so the git sequence can be tested without a real
// working copy.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Client wraps the git subprocess calls used to record log entries.
type Client struct {
	dir    string
	runner Runner
}

// NewClient creates a git client rooted at dir.
func NewClient(dir string) *Client {
	return &Client{dir: dir, runner: execRunner{}}
}

// NewClientWithRunner creates a git client with a custom runner.
func NewClientWithRunner(dir string, r Runner) *Client {
	return &Client{dir: dir, runner: r}
}

func (c *Client) git(ctx context.Context, args ...string) ([]byte, error) {
	out, err := c.runner.Run(ctx, c.dir, "git", args...)
	if err != nil {
		return out, fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// EnsureIdentity sets the committer identity for the working copy.
func (c *Client) EnsureIdentity(ctx context.Context, name, email string) error {
	if _, err := c.git(ctx, "config", "user.name", name); err != nil {
		return err
	}
	_, err := c.git(ctx, "config", "user.email", email)
	return err
}

// Add stages a single path.
func (c *Client) Add(ctx context.Context, path string) error {
	_, err := c.git(ctx, "add", "--", path)
	return err
}

// HasChanges reports whether the path differs from the committed tree.
// Empty porcelain output means the staged file is identical to HEAD.
func (c *Client) HasChanges(ctx context.Context, path string) (bool, error) {
	out, err := c.git(ctx, "status", "--porcelain", "--", path)
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// Commit records the staged changes with the given message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.git(ctx, "commit", "-m", message)
	return err
}

// SetRemoteURL points the named remote at url.
func (c *Client) SetRemoteURL(ctx context.Context, remote, url string) error {
	_, err := c.git(ctx, "remote", "set-url", remote, url)
	return err
}

// Push pushes the branch to the named remote.
func (c *Client) Push(ctx context.Context, remote, branch string) error {
	_, err := c.git(ctx, "push", remote, branch)
	return err
}

// Head returns the current commit hash.
func (c *Client) Head(ctx context.Context) (string, error) {
	out, err := c.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
