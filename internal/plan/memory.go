package plan

import "time"

// NodeMemory is what the engine remembers about a node between runs: the
// fingerprint of the inputs it last succeeded with, plus the output and
// identity values downstream triggers may need when the node is skipped.
type NodeMemory struct {
	Fingerprint string
	Output      string
	Identity    string
	Succeeded   bool
	CompletedAt time.Time
}

// Memory is the engine's view of previous runs. The state package provides
// the persistent implementation; tests use in-memory maps.
type Memory interface {
	Lookup(node string) (NodeMemory, bool)
	Record(node string, m NodeMemory)
	Forget(node string)
}

// MapMemory is a Memory held in a plain map, for tests and dry runs.
type MapMemory map[string]NodeMemory

// Lookup implements Memory.
func (m MapMemory) Lookup(node string) (NodeMemory, bool) {
	v, ok := m[node]
	return v, ok
}

// Record implements Memory.
func (m MapMemory) Record(node string, v NodeMemory) { m[node] = v }

// Forget implements Memory.
func (m MapMemory) Forget(node string) { delete(m, node) }
