package execx

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Command describes a single external tool invocation.
type Command struct {
	// Name is the executable to run.
	Name string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is the full environment for the process; nil inherits the parent's.
	Env []string
	// Timeout bounds the invocation; zero means no limit.
	Timeout time.Duration
}

// String renders the invocation for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return fmt.Sprintf("%s %v", c.Name, c.Args)
}

// Runner executes external commands. Pipeline stages depend on this
// interface so tests can substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands via os/exec, streaming combined output into the
// configured writer (typically the build log).
type ExecRunner struct {
	// Output receives stdout and stderr of every command.
	// Defaults to os.Stdout.
	Output io.Writer
}

// Run executes the command synchronously, honoring the context and the
// per-command timeout.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	out := r.Output
	if out == nil {
		out = os.Stdout
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}

	return nil
}
