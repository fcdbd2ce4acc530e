// Package plan is the dependency-ordered execution engine.
//
// A Plan is a directed acyclic graph of named nodes. Command nodes run
// imperative host actions; resource nodes reconcile declarative state
// through a backend. Whether a node executes again on a later run is decided
// by its triggers: named input values fingerprinted and compared against the
// fingerprint stored from the last successful run. Nodes marked Always, such
// as probes and readiness waits, execute on every run.
//
// The Executor walks the graph in topological order, breaking ties by
// declaration order, and runs up to Workers eligible nodes in parallel. A
// node failure lets in-flight nodes finish, marks every transitive dependent
// Skipped, and ends the run. Destroy walks the reverse order and is
// best-effort: teardown failures are reported but never abort the walk.
package plan
