package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"

	"github.com/sunnydmess/k3strap/internal/bootstrap"
	"github.com/sunnydmess/k3strap/internal/config"
	"github.com/sunnydmess/k3strap/internal/plan"
	"github.com/sunnydmess/k3strap/internal/ui/tui"
)

// ApplyOptions carries the apply command's flags.
type ApplyOptions struct {
	ConfigPath string
	DryRun     bool
	NoTUI      bool
	Workers    int
}

// runTUI drives the pipeline behind the interactive display. Variable so
// tests can run apply without a terminal.
var runTUI = tui.Run

// stdoutIsTerminal reports whether the interactive display can render.
var stdoutIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// Apply provisions the cluster: it loads the configuration, builds the
// pipeline, and executes every node whose trigger inputs changed since the
// last successful run. With --dry-run it prints the pipeline and the
// per-node predictions instead of executing.
func Apply(ctx context.Context, opts ApplyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}

	if results := checkDefaultPrereqs(); results.HasErrors() {
		return config.Wrap(results.Error(), "prerequisites not met")
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	seq, err := newSequencer(cfg, store)
	if err != nil {
		return err
	}

	if opts.DryRun {
		return printPlan(ctx, seq, store, os.Stdout)
	}

	if err := runApply(ctx, seq, opts.NoTUI); err != nil {
		return err
	}

	printOutputs(os.Stdout, seq.Outputs())
	return nil
}

// runApply executes the pipeline with the right progress renderer: the
// interactive display on a terminal, plain log lines otherwise.
func runApply(ctx context.Context, seq *bootstrap.Sequencer, noTUI bool) error {
	if noTUI || !stdoutIsTerminal() {
		seq.Observer = plan.ConsoleObserver{}
		_, err := seq.Apply(ctx)
		return err
	}

	p, err := seq.BuildPlan()
	if err != nil {
		return err
	}
	return runTUI(seq.Config.ClusterName, p.Nodes(), func(obs plan.Observer) error {
		seq.Observer = obs
		_, err := seq.Apply(ctx)
		return err
	})
}

// printOutputs renders the published values sorted by name.
func printOutputs(w io.Writer, outputs map[string]string) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "\nOutputs:\n")
	for _, name := range names {
		fmt.Fprintf(w, "  %-22s %s\n", name, outputs[name])
	}
}
