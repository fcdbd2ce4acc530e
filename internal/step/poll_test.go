package step

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnydmess/k3strap/internal/util/retry"
)

func TestPollSucceedsOnFirstPositiveCheck(t *testing.T) {
	t.Parallel()
	calls := 0
	p := &Poll{
		Check: func(context.Context) (bool, error) {
			calls++
			return calls >= 3, nil
		},
		Attempts: 5,
		Interval: time.Millisecond,
	}

	res, err := p.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, res.Stdout, "ready")
}

func TestPollExhaustedBudgetIsTimeout(t *testing.T) {
	t.Parallel()
	lastErr := errors.New("node not registered")
	p := &Poll{
		Check:    func(context.Context) (bool, error) { return false, lastErr },
		Attempts: 2,
		Interval: time.Millisecond,
	}

	_, err := p.Apply(context.Background())
	require.Error(t, err)

	var timeout *retry.TimeoutError
	require.ErrorAs(t, err, &timeout, "exhaustion must be a timeout, not a step failure")
	assert.Equal(t, 2, timeout.Attempts)
	assert.ErrorIs(t, timeout.LastErr, lastErr)
}

func TestPollStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Poll{
		Check:    func(context.Context) (bool, error) { return false, nil },
		Attempts: 100,
		Interval: time.Second,
	}

	_, err := p.Apply(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
