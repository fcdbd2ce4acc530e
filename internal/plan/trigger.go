package plan

import "fmt"

// View exposes completed node results to trigger resolution. A skipped node
// presents the result restored from the previous run, so downstream triggers
// resolve the same values the node produced when it last executed.
type View interface {
	Result(name string) (*Result, bool)
}

// Trigger supplies one named input value for the re-run decision. Resolve is
// called after every dependency of the owning node has finished.
type Trigger interface {
	Name() string
	Resolve(v View) (string, error)
}

// nodeRef is implemented by triggers that read another node's result, so the
// graph can check the reference points at a dependency.
type nodeRef interface {
	ref() string
}

type valueTrigger struct {
	name  string
	value string
}

// Value returns a trigger whose value is fixed when the plan is built, such
// as a pinned version or a content hash.
func Value(name, value string) Trigger {
	return valueTrigger{name: name, value: value}
}

func (t valueTrigger) Name() string { return t.name }

func (t valueTrigger) Resolve(View) (string, error) { return t.value, nil }

type outputTrigger struct {
	node string
}

// Output returns a trigger carrying the captured output of an upstream
// command node. The referenced node must be a dependency of the owner.
func Output(node string) Trigger {
	return outputTrigger{node: node}
}

func (t outputTrigger) Name() string { return t.node + ".output" }

func (t outputTrigger) ref() string { return t.node }

func (t outputTrigger) Resolve(v View) (string, error) {
	res, ok := v.Result(t.node)
	if !ok {
		return "", fmt.Errorf("no result recorded for node %q", t.node)
	}
	return res.Output(), nil
}

type identityTrigger struct {
	node string
}

// IdentityOf returns a trigger carrying the identity value of an upstream
// resource node, so recreating the resource re-runs the owner.
func IdentityOf(node string) Trigger {
	return identityTrigger{node: node}
}

func (t identityTrigger) Name() string { return t.node + ".identity" }

func (t identityTrigger) ref() string { return t.node }

func (t identityTrigger) Resolve(v View) (string, error) {
	res, ok := v.Result(t.node)
	if !ok {
		return "", fmt.Errorf("no result recorded for node %q", t.node)
	}
	return res.Identity, nil
}
