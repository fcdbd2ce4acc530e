package plan

import "fmt"

// NodeError wraps a node execution failure with the node's name and whatever
// output was captured before it failed.
type NodeError struct {
	Node   string
	Result *Result
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
