// Package run abstracts external command execution behind a narrow
// interface so orchestration logic can be tested without a real host.
package run

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes a command, streaming output to the process stdio.
	// extraEnv entries ("KEY=value") are appended to the inherited environment.
	Run(ctx context.Context, extraEnv []string, name string, args ...string) error

	// LookPath reports the path of a binary in PATH, or an error.
	LookPath(name string) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner that executes real commands.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, extraEnv []string, name string, args ...string) error {
	// #nosec G204 - command names come from trusted stage definitions, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extraEnv...)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", printable(name, args), err)
	}
	return nil
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func printable(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
