package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sunnydmess/k3strap/internal/plan"
)

// DestroyOptions carries the destroy command's flags.
type DestroyOptions struct {
	ConfigPath string
	Yes        bool
}

// confirmDestroy prompts before teardown. Variable so tests can answer
// without a terminal.
var confirmDestroy = func(clusterName string) (bool, error) {
	fmt.Printf("This tears down cluster %q and everything running on it.\n", clusterName)
	fmt.Print("Continue? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}

// Destroy tears the cluster down in reverse dependency order. Teardown is
// best-effort: individual node failures are logged and the walk continues,
// so destroy reports success whenever the full walk ran. Only failures
// outside the walk itself - unreadable config, unreachable state store -
// surface as errors.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !opts.Yes {
		ok, err := confirmDestroy(cfg.ClusterName)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	seq, err := newSequencer(cfg, store)
	if err != nil {
		return err
	}
	seq.Observer = plan.ConsoleObserver{}

	var fatal error
	for _, err := range seq.Destroy(ctx) {
		var nodeErr *plan.NodeError
		if errors.As(err, &nodeErr) {
			log.Printf("teardown: %v (continuing)", err)
			continue
		}
		fatal = errors.Join(fatal, err)
	}
	if fatal != nil {
		return fatal
	}

	fmt.Println("Teardown complete.")
	return nil
}
