package gitops

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and replies from a script keyed by the git
// subcommand.
type fakeRunner struct {
	calls   [][]string
	outputs map[string][]byte
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	sub := args[0]
	return f.outputs[sub], f.errs[sub]
}

func TestClientHasChanges(t *testing.T) {
	t.Run("dirty path", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string][]byte{"status": []byte("A  logs/2025/x.json\n")}}
		c := NewClientWithRunner("/repo", runner)

		changed, err := c.HasChanges(context.Background(), "logs/2025/x.json")
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("clean path", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string][]byte{"status": []byte("  \n")}}
		c := NewClientWithRunner("/repo", runner)

		changed, err := c.HasChanges(context.Background(), "logs/2025/x.json")
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestClientErrorsCarryOutput(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string][]byte{"push": []byte("fatal: could not read Username")},
		errs:    map[string]error{"push": errors.New("exit status 128")},
	}
	c := NewClientWithRunner("/repo", runner)

	err := c.Push(context.Background(), "origin", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read Username")
	assert.Contains(t, err.Error(), "exit status 128")
}

func TestClientCommandShapes(t *testing.T) {
	runner := &fakeRunner{outputs: map[string][]byte{"rev-parse": []byte("abc123\n")}}
	c := NewClientWithRunner("/repo", runner)
	ctx := context.Background()

	require.NoError(t, c.EnsureIdentity(ctx, "bot", "bot@example.com"))
	require.NoError(t, c.Add(ctx, "logs/2025/x.json"))
	require.NoError(t, c.Commit(ctx, "Add log entry: X"))
	require.NoError(t, c.SetRemoteURL(ctx, "origin", "https://token@github.com/u/r.git"))
	require.NoError(t, c.Push(ctx, "origin", "main"))

	hash, err := c.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)

	joined := make([]string, 0, len(runner.calls))
	for _, call := range runner.calls {
		joined = append(joined, strings.Join(call, " "))
	}
	assert.Equal(t, []string{
		"git config user.name bot",
		"git config user.email bot@example.com",
		"git add -- logs/2025/x.json",
		"git commit -m Add log entry: X",
		"git remote set-url origin https://token@github.com/u/r.git",
		"git push origin main",
		"git rev-parse HEAD",
	}, joined)
}
