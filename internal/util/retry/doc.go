// Package retry provides bounded retry loops for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay, and maximum delay. [Poll] runs a readiness
// condition with a fixed interval and a bounded attempt budget, returning a
// typed *TimeoutError on exhaustion so callers can distinguish "not ready in
// time" from "failed". Errors wrapped with [Fatal] stop either loop at once.
package retry
