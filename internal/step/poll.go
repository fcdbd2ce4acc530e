package step

import (
	"context"
	"fmt"
	"time"

	"github.com/sunnydmess/k3strap/internal/plan"
	"github.com/sunnydmess/k3strap/internal/util/retry"
)

// Poll is a wait-flavoured operation: it runs a readiness check with a
// bounded attempt budget and a fixed delay between attempts. Exhausting the
// budget surfaces a *retry.TimeoutError, which callers can tell apart from a
// command failure.
type Poll struct {
	Check    retry.ConditionFunc
	Attempts int
	Interval time.Duration
}

// Apply implements plan.Operation.
func (p *Poll) Apply(ctx context.Context) (*plan.Result, error) {
	if err := retry.Poll(ctx, p.Check, p.Attempts, p.Interval); err != nil {
		return nil, err
	}
	return &plan.Result{Stdout: fmt.Sprintf("ready (polled every %s)", p.Interval)}, nil
}
