// Package resource provides declarative cluster resources as plan
// operations. Each operation reconciles one desired object (or a small set
// of them) against the live cluster and reports the live object's UID as
// its identity, so downstream nodes can react when a resource was recreated
// rather than merely re-applied.
package resource
