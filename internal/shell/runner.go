// Package shell runs host commands and captures their outcome.
//
// Plan nodes never shell out directly; they go through a Runner so tests can
// substitute a recording fake and so captured output lands in node results.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Result holds the captured outcome of one command invocation.
type Result struct {
	ExitCode int32
	Stdout   []byte
	Stderr   []byte
}

// Output returns stdout with surrounding whitespace trimmed.
func (r *Result) Output() string {
	return strings.TrimSpace(string(r.Stdout))
}

// Runner abstracts command execution on the host.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// ExecRunner executes commands on the local host via os/exec. Entries in Env
// are appended to the inherited process environment.
type ExecRunner struct {
	Env []string
}

// Run executes the command and captures both output streams. The returned
// Result is never nil. A non-zero exit returns the wrapped *exec.ExitError;
// a command that could not be started reports exit code 127.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = int32(exitErr.ExitCode())
		return res, err
	}

	res.ExitCode = 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		res.ExitCode = 127
	}
	return res, err
}

// Script wraps a shell snippet into an argv executed by /bin/sh.
func Script(script string) (string, []string) {
	return "/bin/sh", []string{"-c", script}
}
