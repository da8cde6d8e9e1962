package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestExecRunner_Run verifies output capture and exit status propagation.
func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX shell utilities")
	}

	var buf bytes.Buffer

	r := &ExecRunner{Output: &buf}
	ctx := context.Background()

	err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo staged"}})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "staged")

	err = r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	require.Error(t, err)

	var exitErr *exec.ExitError

	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.ExitCode())
}

// TestExecRunner_Timeout verifies the per-command timeout terminates the process.
func TestExecRunner_Timeout(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX shell utilities")
	}

	r := &ExecRunner{Output: &bytes.Buffer{}}

	err := r.Run(context.Background(), Command{
		Name:    "sleep",
		Args:    []string{"5"},
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
}

// TestFake verifies invocation recording and error injection.
func TestFake(t *testing.T) {
	t.Parallel()

	wanted := errors.New("boom")
	f := &Fake{
		RunFunc: func(_ context.Context, cmd Command) error {
			if cmd.Name == "makensis" {
				return wanted
			}

			return nil
		},
	}

	ctx := context.Background()
	require.NoError(t, f.Run(ctx, Command{Name: "msgfmt"}))
	require.ErrorIs(t, f.Run(ctx, Command{Name: "makensis"}), wanted)
	require.Equal(t, []string{"msgfmt", "makensis"}, f.Names())
}
