// Package config loads, defaults, validates and resolves the k3strap
// configuration. Configuration problems are fatal before any pipeline node
// runs; they surface as *Error so the CLI can tell them apart from
// execution failures.
package config
