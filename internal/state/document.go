package state

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sunnydmess/k3strap/internal/plan"
)

// CurrentVersion is the document schema version this build reads and writes.
const CurrentVersion = 1

// NodeState is the persisted memory of one plan node.
type NodeState struct {
	Fingerprint string    `yaml:"fingerprint,omitempty"`
	Output      string    `yaml:"output,omitempty"`
	Identity    string    `yaml:"identity,omitempty"`
	Succeeded   bool      `yaml:"succeeded"`
	CompletedAt time.Time `yaml:"completed_at"`
}

// Document is the whole persisted state. It implements plan.Memory so the
// executor reads and writes it directly.
type Document struct {
	Version   int                  `yaml:"version"`
	RunID     string               `yaml:"run_id"`
	UpdatedAt time.Time            `yaml:"updated_at"`
	Nodes     map[string]NodeState `yaml:"nodes"`
	Outputs   map[string]string    `yaml:"outputs,omitempty"`
}

// NewDocument returns an empty document for a fresh installation.
func NewDocument() *Document {
	return &Document{
		Version: CurrentVersion,
		RunID:   uuid.NewString(),
		Nodes:   make(map[string]NodeState),
		Outputs: make(map[string]string),
	}
}

// BeginRun stamps a fresh run ID onto the document.
func (d *Document) BeginRun() {
	d.RunID = uuid.NewString()
}

// Lookup implements plan.Memory.
func (d *Document) Lookup(name string) (plan.NodeMemory, bool) {
	ns, ok := d.Nodes[name]
	if !ok {
		return plan.NodeMemory{}, false
	}
	return plan.NodeMemory{
		Fingerprint: ns.Fingerprint,
		Output:      ns.Output,
		Identity:    ns.Identity,
		Succeeded:   ns.Succeeded,
		CompletedAt: ns.CompletedAt,
	}, true
}

// Record implements plan.Memory.
func (d *Document) Record(name string, mem plan.NodeMemory) {
	if d.Nodes == nil {
		d.Nodes = make(map[string]NodeState)
	}
	d.Nodes[name] = NodeState{
		Fingerprint: mem.Fingerprint,
		Output:      mem.Output,
		Identity:    mem.Identity,
		Succeeded:   mem.Succeeded,
		CompletedAt: mem.CompletedAt,
	}
}

// Forget implements plan.Memory.
func (d *Document) Forget(name string) {
	delete(d.Nodes, name)
}

// Store loads and saves state documents.
type Store interface {
	// Load returns the persisted document, or a fresh empty one when
	// nothing has been persisted yet.
	Load(ctx context.Context) (*Document, error)

	// Save persists the document.
	Save(ctx context.Context, doc *Document) error
}
