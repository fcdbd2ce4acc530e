package config

import (
	"os"
	"strconv"
	"time"
)

// Default wait budgets. Node readiness and CRD establishment are quick on a
// single-node cluster; controller images can take a while to pull.
var (
	DefaultNodeReadyBudget   = Budget{Attempts: 30, Interval: 2 * time.Second}
	DefaultCRDsBudget        = Budget{Attempts: 30, Interval: 2 * time.Second}
	DefaultControllersBudget = Budget{Attempts: 60, Interval: 5 * time.Second}
)

// applyEnvOverrides lets operators stretch or shrink poll budgets without
// touching the config file.
//
// Environment Variables:
//   - K3STRAP_WAIT_NODE_READY_ATTEMPTS / K3STRAP_WAIT_NODE_READY_INTERVAL
//   - K3STRAP_WAIT_CRDS_ATTEMPTS / K3STRAP_WAIT_CRDS_INTERVAL
//   - K3STRAP_WAIT_CONTROLLERS_ATTEMPTS / K3STRAP_WAIT_CONTROLLERS_INTERVAL
func (w *Waits) applyEnvOverrides() {
	w.NodeReady.Attempts = parseInt("K3STRAP_WAIT_NODE_READY_ATTEMPTS", w.NodeReady.Attempts)
	w.NodeReady.Interval = parseDuration("K3STRAP_WAIT_NODE_READY_INTERVAL", w.NodeReady.Interval)
	w.CRDs.Attempts = parseInt("K3STRAP_WAIT_CRDS_ATTEMPTS", w.CRDs.Attempts)
	w.CRDs.Interval = parseDuration("K3STRAP_WAIT_CRDS_INTERVAL", w.CRDs.Interval)
	w.Controllers.Attempts = parseInt("K3STRAP_WAIT_CONTROLLERS_ATTEMPTS", w.Controllers.Attempts)
	w.Controllers.Interval = parseDuration("K3STRAP_WAIT_CONTROLLERS_INTERVAL", w.Controllers.Interval)
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
