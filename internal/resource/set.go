package resource

import (
	"context"
	"errors"
	"strings"

	"github.com/sunnydmess/k3strap/internal/plan"
)

// Set groups several operations into a single plan node. Members apply in
// order and tear down in reverse. The set's identity joins the member
// identities, so recreating any member changes the whole set's identity.
type Set struct {
	Ops []plan.Operation
}

// Apply runs every member in order, stopping at the first failure.
func (s *Set) Apply(ctx context.Context) (*plan.Result, error) {
	var identities []string
	var lines []string
	for _, op := range s.Ops {
		res, err := op.Apply(ctx)
		if err != nil {
			return nil, err
		}
		if res == nil {
			continue
		}
		if res.Identity != "" {
			identities = append(identities, res.Identity)
		}
		if out := res.Output(); out != "" {
			lines = append(lines, out)
		}
	}
	return &plan.Result{
		Stdout:   strings.Join(lines, "\n"),
		Identity: strings.Join(identities, ","),
	}, nil
}

// Destroy tears members down in reverse order, collecting every failure
// instead of stopping at the first one.
func (s *Set) Destroy(ctx context.Context) error {
	var errs []error
	for i := len(s.Ops) - 1; i >= 0; i-- {
		teardown, ok := s.Ops[i].(plan.Destroyer)
		if !ok {
			continue
		}
		if err := teardown.Destroy(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
