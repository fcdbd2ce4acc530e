package plan

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sunnydmess/k3strap/internal/trigger"
)

// Outcome records the terminal state of one node within a run.
type Outcome struct {
	Node        string
	Kind        Kind
	Status      Status
	Cause       SkipCause
	Result      *Result
	Err         error
	Fingerprint string
	Duration    time.Duration
}

// Summary is the account of one run, in declaration order.
type Summary struct {
	Plan     string
	Outcomes []Outcome
	Err      error
	Duration time.Duration
}

// Outcome returns the outcome of the named node.
func (s *Summary) Outcome(name string) (Outcome, bool) {
	for _, o := range s.Outcomes {
		if o.Node == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Failed reports whether the run ended in failure.
func (s *Summary) Failed() bool { return s.Err != nil }

// Executor runs a plan against remembered state.
type Executor struct {
	// Workers bounds how many eligible nodes run in parallel. Zero or one
	// means strictly sequential execution in deterministic order.
	Workers int

	// Observer receives progress events. Nil means no reporting.
	Observer Observer
}

// runState is shared between the dispatcher and node goroutines. Results and
// memory are guarded; everything else stays on the dispatcher goroutine.
type runState struct {
	mu      sync.RWMutex
	results map[string]*Result
	mem     Memory
}

// Result implements View for trigger resolution.
func (r *runState) Result(name string) (*Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.results[name]
	return res, ok
}

func (r *runState) setResult(name string, res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[name] = res
}

func (r *runState) lookup(name string) (NodeMemory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mem.Lookup(name)
}

func (r *runState) record(name string, m NodeMemory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mem.Record(name, m)
}

type outcomeMsg struct {
	node    *Node
	outcome Outcome
}

// Apply executes the plan. Nodes become eligible once every dependency is
// succeeded or skipped with an unchanged fingerprint; among eligible nodes
// declaration order decides who goes first. On the first failure no new
// nodes start, in-flight nodes finish, and every transitive dependent of the
// failed node is marked skipped. The summary always covers all nodes.
func (e *Executor) Apply(ctx context.Context, p *Plan, mem Memory) (*Summary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	obs := e.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	if mem == nil {
		mem = MapMemory{}
	}

	total := p.Len()
	start := time.Now()
	obs.Observe(Event{Type: EventPlanStarted, Plan: p.Name, Total: total})

	rs := &runState{results: make(map[string]*Result, total), mem: mem}

	order, err := p.Order()
	if err != nil {
		return nil, err
	}
	position := make(map[string]int, total)
	for i, n := range order {
		position[n.Name] = i + 1
	}

	indeg := make(map[string]int, total)
	statuses := make(map[string]Status, total)
	outcomes := make(map[string]Outcome, total)
	for _, n := range p.nodes {
		indeg[n.Name] = len(n.DependsOn)
		statuses[n.Name] = StatusPending
	}
	dependents := p.dependents()

	var ready []int
	for i, n := range p.nodes {
		if indeg[n.Name] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	done := make(chan outcomeMsg)
	inflight := 0
	aborted := false
	var firstErr error

	dispatch := func(n *Node) {
		statuses[n.Name] = StatusRunning
		inflight++
		go func() {
			out := e.executeNode(ctx, rs, n, obs, p.Name, position[n.Name], total)
			done <- outcomeMsg{node: n, outcome: out}
		}()
	}

	var skipDependents func(name string)
	skipDependents = func(name string) {
		for _, depName := range dependents[name] {
			if statuses[depName] != StatusPending {
				continue
			}
			dep := p.nodes[p.index[depName]]
			statuses[depName] = StatusSkipped
			outcomes[depName] = Outcome{
				Node:   depName,
				Kind:   dep.Kind,
				Status: StatusSkipped,
				Cause:  SkipUpstreamFailure,
			}
			obs.Observe(Event{
				Type:     EventNodeSkipped,
				Plan:     p.Name,
				Node:     depName,
				Kind:     dep.Kind,
				Cause:    SkipUpstreamFailure,
				Total:    total,
				Position: position[depName],
			})
			skipDependents(depName)
		}
	}

	for {
		if ctx.Err() != nil && !aborted {
			aborted = true
			ready = nil
		}
		for !aborted && inflight < workers && len(ready) > 0 {
			i := ready[0]
			ready = ready[1:]
			dispatch(p.nodes[i])
		}
		if inflight == 0 {
			break
		}

		msg := <-done
		inflight--
		out := msg.outcome
		name := msg.node.Name
		statuses[name] = out.Status
		outcomes[name] = out
		rs.setResult(name, out.Result)

		switch out.Status {
		case StatusSucceeded, StatusSkipped:
			if out.Status == StatusSucceeded {
				rs.record(name, NodeMemory{
					Fingerprint: out.Fingerprint,
					Output:      out.Result.Output(),
					Identity:    out.Result.Identity,
					Succeeded:   true,
					CompletedAt: time.Now().UTC(),
				})
			}
			for _, depName := range dependents[name] {
				indeg[depName]--
				if indeg[depName] == 0 && statuses[depName] == StatusPending && !aborted {
					ready = append(ready, p.index[depName])
				}
			}
			sort.Ints(ready)
		case StatusFailed:
			if firstErr == nil {
				firstErr = out.Err
			}
			aborted = true
			ready = nil
			skipDependents(name)
		}
	}

	if firstErr == nil && ctx.Err() != nil {
		for _, st := range statuses {
			if st == StatusPending {
				firstErr = fmt.Errorf("run interrupted: %w", ctx.Err())
				break
			}
		}
	}

	summary := &Summary{Plan: p.Name, Err: firstErr, Duration: time.Since(start)}
	for _, n := range p.nodes {
		out, ok := outcomes[n.Name]
		if !ok {
			out = Outcome{Node: n.Name, Kind: n.Kind, Status: statuses[n.Name]}
		}
		summary.Outcomes = append(summary.Outcomes, out)
	}

	if firstErr != nil {
		obs.Observe(Event{Type: EventPlanFailed, Plan: p.Name, Err: firstErr, Duration: summary.Duration})
		return summary, firstErr
	}
	obs.Observe(Event{Type: EventPlanCompleted, Plan: p.Name, Duration: summary.Duration})
	return summary, nil
}

// executeNode runs the full per-node protocol: resolve triggers, consult the
// evaluator, then either restore the remembered result or execute the
// operation under the node's timeout.
func (e *Executor) executeNode(ctx context.Context, rs *runState, n *Node, obs Observer, planName string, pos, total int) Outcome {
	start := time.Now()
	base := Outcome{Node: n.Name, Kind: n.Kind}

	inputs, err := resolveTriggers(n, rs)
	if err != nil {
		nerr := &NodeError{Node: n.Name, Err: err}
		obs.Observe(Event{Type: EventNodeFailed, Plan: planName, Node: n.Name, Kind: n.Kind, Err: nerr, Total: total, Position: pos})
		base.Status = StatusFailed
		base.Err = nerr
		base.Duration = time.Since(start)
		return base
	}
	base.Fingerprint = trigger.Fingerprint(inputs)

	remembered, _ := rs.lookup(n.Name)
	if !n.Always && !trigger.ShouldRun(inputs, remembered.Fingerprint, remembered.Succeeded) {
		obs.Observe(Event{Type: EventNodeSkipped, Plan: planName, Node: n.Name, Kind: n.Kind, Cause: SkipUnchanged, Total: total, Position: pos})
		base.Status = StatusSkipped
		base.Cause = SkipUnchanged
		base.Result = &Result{Stdout: remembered.Output, Identity: remembered.Identity}
		base.Duration = time.Since(start)
		return base
	}

	obs.Observe(Event{Type: EventNodeStarted, Plan: planName, Node: n.Name, Kind: n.Kind, Total: total, Position: pos})

	nodeCtx := ctx
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		nodeCtx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	res, err := n.Op.Apply(nodeCtx)
	if res == nil {
		res = &Result{}
	}
	base.Result = res
	base.Duration = time.Since(start)

	if err != nil {
		nerr := &NodeError{Node: n.Name, Result: res, Err: err}
		obs.Observe(Event{Type: EventNodeFailed, Plan: planName, Node: n.Name, Kind: n.Kind, Err: nerr, Duration: base.Duration, Total: total, Position: pos})
		base.Status = StatusFailed
		base.Err = nerr
		return base
	}

	obs.Observe(Event{Type: EventNodeSucceeded, Plan: planName, Node: n.Name, Kind: n.Kind, Duration: base.Duration, Total: total, Position: pos})
	base.Status = StatusSucceeded
	return base
}

// Destroy walks the plan backwards and runs every teardown action. Failures
// are collected and reported, never fatal: teardown keeps going so a partial
// environment still gets as clean as possible. State is forgotten for every
// node that tore down cleanly, so the next apply starts from scratch.
func (e *Executor) Destroy(ctx context.Context, p *Plan, mem Memory) []error {
	if err := p.Validate(); err != nil {
		return []error{err}
	}

	obs := e.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	if mem == nil {
		mem = MapMemory{}
	}

	order, err := p.Order()
	if err != nil {
		return []error{err}
	}

	start := time.Now()
	obs.Observe(Event{Type: EventDestroyStarted, Plan: p.Name, Total: len(order)})

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]

		d, ok := n.Op.(Destroyer)
		if !ok {
			mem.Forget(n.Name)
			continue
		}

		destroyErr := func() error {
			nodeCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				nodeCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}
			return d.Destroy(nodeCtx)
		}()

		if err := destroyErr; err != nil {
			nerr := &NodeError{Node: n.Name, Err: err}
			errs = append(errs, nerr)
			obs.Observe(Event{Type: EventNodeDestroyError, Plan: p.Name, Node: n.Name, Kind: n.Kind, Err: nerr})
			continue
		}
		mem.Forget(n.Name)
		obs.Observe(Event{Type: EventNodeDestroyed, Plan: p.Name, Node: n.Name, Kind: n.Kind})
	}

	obs.Observe(Event{Type: EventDestroyCompleted, Plan: p.Name, Duration: time.Since(start)})
	return errs
}

func resolveTriggers(n *Node, v View) ([]trigger.Input, error) {
	if len(n.Triggers) == 0 {
		return nil, nil
	}
	inputs := make([]trigger.Input, 0, len(n.Triggers))
	for _, t := range n.Triggers {
		val, err := t.Resolve(v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve trigger %q: %w", t.Name(), err)
		}
		inputs = append(inputs, trigger.Input{Name: t.Name(), Value: val})
	}
	return inputs, nil
}
