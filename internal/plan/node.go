package plan

import (
	"context"
	"strings"
	"time"
)

// Kind distinguishes the two node flavours.
type Kind string

const (
	// KindCommand marks an imperative step executed on the host.
	KindCommand Kind = "command"
	// KindResource marks a declarative resource reconciled by a backend.
	KindResource Kind = "resource"
)

// Status is the lifecycle state of a node within one run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// SkipCause explains a StatusSkipped outcome.
type SkipCause string

const (
	// SkipUnchanged means the trigger fingerprint matched the stored one.
	SkipUnchanged SkipCause = "unchanged"
	// SkipUpstreamFailure means a transitive dependency failed.
	SkipUpstreamFailure SkipCause = "upstream failed"
)

// Result is the captured outcome of one node execution. It is written once
// when the node reaches a terminal status and never mutated afterwards.
type Result struct {
	ExitCode int32
	Stdout   string
	Stderr   string

	// Identity is the stable token of a declarative resource. It changes
	// exactly when the underlying object is recreated.
	Identity string
}

// Output returns stdout with surrounding whitespace trimmed. This is the
// value carried by Output triggers.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Stdout)
}

// Operation is the executable behaviour of a node.
type Operation interface {
	Apply(ctx context.Context) (*Result, error)
}

// Destroyer is implemented by operations with an explicit teardown action.
// Operations without one have nothing to tear down; their state is simply
// forgotten on destroy.
type Destroyer interface {
	Destroy(ctx context.Context) error
}

// Node is one vertex of the plan graph.
type Node struct {
	Name      string
	Kind      Kind
	DependsOn []string

	// Triggers are the node's re-run inputs. A node without triggers runs
	// once and is then skipped on every later run.
	Triggers []Trigger

	// Always forces execution on every run regardless of triggers.
	Always bool

	// Timeout bounds a single execution of this node. Zero means the run
	// context alone bounds it.
	Timeout time.Duration

	Op Operation
}
