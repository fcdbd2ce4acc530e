package plan

import (
	"fmt"
	"sort"
)

// Plan is an ordered collection of nodes forming a DAG. Declaration order is
// significant: it breaks ties whenever several nodes are eligible at once.
type Plan struct {
	Name string

	nodes []*Node
	index map[string]int
}

// New returns an empty plan.
func New(name string) *Plan {
	return &Plan{Name: name, index: make(map[string]int)}
}

// Add appends a node. Names must be unique and operations non-nil.
func (p *Plan) Add(n *Node) error {
	if n.Name == "" {
		return fmt.Errorf("node name must not be empty")
	}
	if n.Op == nil {
		return fmt.Errorf("node %q has no operation", n.Name)
	}
	if _, exists := p.index[n.Name]; exists {
		return fmt.Errorf("duplicate node name %q", n.Name)
	}
	p.index[n.Name] = len(p.nodes)
	p.nodes = append(p.nodes, n)
	return nil
}

// MustAdd is Add for statically constructed plans, panicking on builder bugs.
func (p *Plan) MustAdd(n *Node) {
	if err := p.Add(n); err != nil {
		panic(err)
	}
}

// Nodes returns the nodes in declaration order.
func (p *Plan) Nodes() []*Node {
	out := make([]*Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// Node looks a node up by name.
func (p *Plan) Node(name string) (*Node, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.nodes[i], true
}

// Len returns the number of nodes.
func (p *Plan) Len() int { return len(p.nodes) }

// Validate checks the graph before anything executes: dependencies must
// exist, result-reading triggers must point at ancestors, and the graph must
// be acyclic.
func (p *Plan) Validate() error {
	for _, n := range p.nodes {
		for _, dep := range n.DependsOn {
			if _, ok := p.index[dep]; !ok {
				return fmt.Errorf("node %q depends on unknown node %q", n.Name, dep)
			}
			if dep == n.Name {
				return fmt.Errorf("node %q depends on itself", n.Name)
			}
		}
	}

	if err := p.checkAcyclic(); err != nil {
		return err
	}

	for _, n := range p.nodes {
		for _, t := range n.Triggers {
			r, ok := t.(nodeRef)
			if !ok {
				continue
			}
			if _, exists := p.index[r.ref()]; !exists {
				return fmt.Errorf("trigger %q of node %q references unknown node %q", t.Name(), n.Name, r.ref())
			}
			if !p.isAncestor(r.ref(), n.Name) {
				return fmt.Errorf("trigger %q of node %q references %q which is not a dependency", t.Name(), n.Name, r.ref())
			}
		}
	}

	return nil
}

// checkAcyclic runs a depth-first search with temporary and permanent marks
// and reports the first cycle it finds by name.
func (p *Plan) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		visited
	)
	marks := make(map[string]int, len(p.nodes))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch marks[name] {
		case visited:
			return nil
		case visiting:
			cycle := append(path, name)
			return fmt.Errorf("dependency cycle: %s", joinArrow(cycle, name))
		}

		marks[name] = visiting
		n := p.nodes[p.index[name]]
		for _, dep := range n.DependsOn {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		marks[name] = visited
		return nil
	}

	for _, n := range p.nodes {
		if err := visit(n.Name, nil); err != nil {
			return err
		}
	}
	return nil
}

// joinArrow renders the path suffix starting at the repeated node.
func joinArrow(path []string, from string) string {
	start := 0
	for i, name := range path {
		if name == from {
			start = i
			break
		}
	}
	out := ""
	for i := start; i < len(path); i++ {
		if i > start {
			out += " -> "
		}
		out += path[i]
	}
	return out
}

// isAncestor reports whether candidate is reachable from name by walking
// dependencies upward.
func (p *Plan) isAncestor(candidate, name string) bool {
	seen := make(map[string]bool)
	var walk func(cur string) bool
	walk = func(cur string) bool {
		if seen[cur] {
			return false
		}
		seen[cur] = true
		n := p.nodes[p.index[cur]]
		for _, dep := range n.DependsOn {
			if dep == candidate || walk(dep) {
				return true
			}
		}
		return false
	}
	return walk(name)
}

// dependents builds the reverse adjacency of the graph.
func (p *Plan) dependents() map[string][]string {
	out := make(map[string][]string, len(p.nodes))
	for _, n := range p.nodes {
		for _, dep := range n.DependsOn {
			out[dep] = append(out[dep], n.Name)
		}
	}
	return out
}

// Order returns the deterministic topological order: Kahn's algorithm with
// declaration order breaking ties. With one worker the executor runs nodes
// in exactly this sequence; destroy walks it backwards.
func (p *Plan) Order() ([]*Node, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	indeg := make(map[string]int, len(p.nodes))
	for _, n := range p.nodes {
		indeg[n.Name] = len(n.DependsOn)
	}
	dependents := p.dependents()

	var ready []int
	for i, n := range p.nodes {
		if indeg[n.Name] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*Node, 0, len(p.nodes))
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]

		n := p.nodes[i]
		order = append(order, n)
		for _, dep := range dependents[n.Name] {
			indeg[dep]--
			if indeg[dep] == 0 {
				ready = append(ready, p.index[dep])
			}
		}
	}

	return order, nil
}
