// Package bootstrap declares the fixed provisioning pipeline: install the
// k3s runtime, establish local access, wait for node readiness, and bring up
// the GitOps control plane that owns everything after that.
//
// The Sequencer builds one plan per run from the loaded configuration. The
// pipeline shape never changes; configuration only parameterizes node inputs
// (version pins, paths, namespaces) and decides whether the optional
// hardening node is present. Local files a node needs (the deploy key, the
// GitOps repository) are read while the plan is built, so a missing file is
// a configuration error surfaced before anything executes.
package bootstrap
