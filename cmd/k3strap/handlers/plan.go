package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sunnydmess/k3strap/internal/bootstrap"
	"github.com/sunnydmess/k3strap/internal/plan"
	"github.com/sunnydmess/k3strap/internal/state"
	"github.com/sunnydmess/k3strap/internal/trigger"
)

// Plan prints the dependency-ordered pipeline with a per-node prediction of
// what the next apply would do, judged against the stored fingerprints.
func Plan(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	seq, err := newSequencer(cfg, store)
	if err != nil {
		return err
	}
	return printPlan(ctx, seq, store, os.Stdout)
}

// stateView lets triggers resolve against the results remembered from
// previous runs, without executing anything.
type stateView struct {
	doc *state.Document
}

func (v stateView) Result(name string) (*plan.Result, bool) {
	mem, ok := v.doc.Lookup(name)
	if !ok {
		return nil, false
	}
	return &plan.Result{Stdout: mem.Output, Identity: mem.Identity}, true
}

// printPlan renders the topological node listing with predictions.
func printPlan(ctx context.Context, seq *bootstrap.Sequencer, store state.Store, w io.Writer) error {
	doc, err := store.Load(ctx)
	if err != nil {
		return err
	}

	p, err := seq.BuildPlan()
	if err != nil {
		return err
	}
	order, err := p.Order()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Plan: %s (%d nodes)\n\n", p.Name, len(order))
	view := stateView{doc: doc}
	for i, n := range order {
		action, reason := predict(n, view, doc)
		fmt.Fprintf(w, "%3d. %-24s %-9s %s (%s)\n", i+1, n.Name, string(n.Kind), action, reason)
		if len(n.DependsOn) > 0 {
			fmt.Fprintf(w, "     %s\n", "depends on: "+strings.Join(n.DependsOn, ", "))
		}
	}
	return nil
}

// predict decides what the next apply would do with one node. Output and
// identity triggers resolve from remembered results; a trigger whose
// upstream never ran makes the node run by definition.
func predict(n *plan.Node, view plan.View, doc *state.Document) (action, reason string) {
	if n.Always {
		return "run", "always"
	}

	mem, _ := doc.Lookup(n.Name)
	if !mem.Succeeded {
		return "run", "never applied"
	}
	if len(n.Triggers) == 0 {
		return "skip", "already applied"
	}

	inputs := make([]trigger.Input, 0, len(n.Triggers))
	for _, t := range n.Triggers {
		val, err := t.Resolve(view)
		if err != nil {
			return "run", "inputs unknown"
		}
		inputs = append(inputs, trigger.Input{Name: t.Name(), Value: val})
	}

	if trigger.ShouldRun(inputs, mem.Fingerprint, mem.Succeeded) {
		return "run", "inputs changed"
	}
	return "skip", "unchanged"
}
