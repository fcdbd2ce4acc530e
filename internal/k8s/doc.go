// Package k8s is the declarative backend for resource nodes.
//
// The Client interface covers exactly what the bootstrap pipeline needs:
// ensure-style reconciliation for namespaces, secrets and persistent
// volumes, server-side apply for multi-document manifest streams, and the
// readiness checks the wait nodes poll. The real implementation wraps
// k8s.io/client-go (typed clientset, dynamic client, discovery-backed REST
// mapper); tests substitute fake clientsets via NewFromClients.
//
// Ensure calls are diff-and-apply: they create missing objects, update
// drifted ones, and leave converged ones untouched, so a steady-state run
// performs no mutating requests. Every ensure returns the live object, whose
// UID serves as the resource identity exposed to re-run triggers.
package k8s
