// Package step provides the imperative plan operations: host commands with
// optional teardown commands, and fixed-interval readiness polls.
package step

import (
	"context"
	"fmt"
	"strings"

	"github.com/sunnydmess/k3strap/internal/plan"
	"github.com/sunnydmess/k3strap/internal/shell"
)

// Command runs an argv through a shell runner and captures exit status and
// both output streams into the node result. A non-zero exit is a failure.
type Command struct {
	Runner shell.Runner
	Prog   string
	Args   []string
}

// Apply implements plan.Operation.
func (c *Command) Apply(ctx context.Context) (*plan.Result, error) {
	res, err := c.Runner.Run(ctx, c.Prog, c.Args...)
	out := toResult(res)
	if err != nil {
		return out, commandError(err, res)
	}
	return out, nil
}

// ReversibleCommand is a Command with an explicit teardown argv, run during
// destroy in reverse plan order.
type ReversibleCommand struct {
	Command
	DeleteProg string
	DeleteArgs []string
}

// Destroy implements plan.Destroyer.
func (c *ReversibleCommand) Destroy(ctx context.Context) error {
	res, err := c.Runner.Run(ctx, c.DeleteProg, c.DeleteArgs...)
	if err != nil {
		return commandError(err, res)
	}
	return nil
}

func toResult(res *shell.Result) *plan.Result {
	if res == nil {
		return &plan.Result{}
	}
	return &plan.Result{
		ExitCode: res.ExitCode,
		Stdout:   string(res.Stdout),
		Stderr:   string(res.Stderr),
	}
}

func commandError(err error, res *shell.Result) error {
	if res != nil {
		if msg := strings.TrimSpace(string(res.Stderr)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
	}
	return err
}
