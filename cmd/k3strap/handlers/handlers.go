// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"os"

	"github.com/sunnydmess/k3strap/internal/bootstrap"
	"github.com/sunnydmess/k3strap/internal/config"
	"github.com/sunnydmess/k3strap/internal/state"
	"github.com/sunnydmess/k3strap/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency
// injection.
var (
	// discoverConfig locates the config file when no path is given.
	discoverConfig = config.Discover

	// loadConfigFile loads and validates the config file.
	loadConfigFile = config.LoadFile

	// newSequencer wires a sequencer from a loaded configuration.
	newSequencer = bootstrap.New

	// newS3Store builds the remote state backend.
	newS3Store = func(ctx context.Context, opts state.S3Options) (state.Store, error) {
		return state.NewS3Store(ctx, opts)
	}

	// checkDefaultPrereqs runs the client tool checks.
	checkDefaultPrereqs = prerequisites.CheckDefault
)

// loadConfig resolves the config path and loads the file.
func loadConfig(configPath string) (*config.Config, error) {
	path, err := discoverConfig(configPath)
	if err != nil {
		return nil, err
	}
	return loadConfigFile(path)
}

// newStore builds the state store the config selects.
func newStore(ctx context.Context, cfg *config.Config) (state.Store, error) {
	if cfg.State.Backend == "s3" {
		s3 := cfg.State.S3
		return newS3Store(ctx, state.S3Options{
			Endpoint:     s3.Endpoint,
			Region:       s3.Region,
			Bucket:       s3.Bucket,
			Key:          s3.Key,
			AccessKey:    os.Getenv(s3.AccessKeyEnv),
			SecretKey:    os.Getenv(s3.SecretKeyEnv),
			UsePathStyle: s3.UsePathStyle,
		})
	}
	return state.NewFileStore(cfg.State.Path), nil
}
