// Package state persists what the engine remembers between runs: per-node
// fingerprints, outputs and identities, plus the outputs of the last
// successful apply. Documents live in a YAML file next to the config by
// default, or in an S3-compatible bucket when several machines share one
// provisioning state.
package state
