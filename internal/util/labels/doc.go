// Package labels provides consistent labeling for orchestrator-managed
// Kubernetes objects.
//
// All labels use the k3strap.io domain prefix and follow a builder pattern
// for constructing label sets with cluster name, component, and manager
// identification.
package labels
