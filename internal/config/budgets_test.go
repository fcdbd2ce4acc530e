package config

import (
	"os"
	"testing"
	"time"
)

func TestApplyEnvOverrides_Defaults(t *testing.T) {
	clearWaitEnvVars()

	waits := Waits{
		NodeReady:   DefaultNodeReadyBudget,
		CRDs:        DefaultCRDsBudget,
		Controllers: DefaultControllersBudget,
	}
	waits.applyEnvOverrides()

	if waits.NodeReady.Attempts != 30 {
		t.Errorf("Expected NodeReady attempts 30, got %d", waits.NodeReady.Attempts)
	}
	if waits.NodeReady.Interval != 2*time.Second {
		t.Errorf("Expected NodeReady interval 2s, got %v", waits.NodeReady.Interval)
	}
	if waits.CRDs.Attempts != 30 {
		t.Errorf("Expected CRDs attempts 30, got %d", waits.CRDs.Attempts)
	}
	if waits.CRDs.Interval != 2*time.Second {
		t.Errorf("Expected CRDs interval 2s, got %v", waits.CRDs.Interval)
	}
	if waits.Controllers.Attempts != 60 {
		t.Errorf("Expected Controllers attempts 60, got %d", waits.Controllers.Attempts)
	}
	if waits.Controllers.Interval != 5*time.Second {
		t.Errorf("Expected Controllers interval 5s, got %v", waits.Controllers.Interval)
	}
}

func TestApplyEnvOverrides_EnvVars(t *testing.T) {
	clearWaitEnvVars()

	t.Setenv("K3STRAP_WAIT_NODE_READY_ATTEMPTS", "10")
	t.Setenv("K3STRAP_WAIT_NODE_READY_INTERVAL", "500ms")
	t.Setenv("K3STRAP_WAIT_CRDS_ATTEMPTS", "5")
	t.Setenv("K3STRAP_WAIT_CRDS_INTERVAL", "1s")
	t.Setenv("K3STRAP_WAIT_CONTROLLERS_ATTEMPTS", "120")
	t.Setenv("K3STRAP_WAIT_CONTROLLERS_INTERVAL", "10s")

	waits := Waits{
		NodeReady:   DefaultNodeReadyBudget,
		CRDs:        DefaultCRDsBudget,
		Controllers: DefaultControllersBudget,
	}
	waits.applyEnvOverrides()

	if waits.NodeReady.Attempts != 10 {
		t.Errorf("Expected NodeReady attempts 10, got %d", waits.NodeReady.Attempts)
	}
	if waits.NodeReady.Interval != 500*time.Millisecond {
		t.Errorf("Expected NodeReady interval 500ms, got %v", waits.NodeReady.Interval)
	}
	if waits.CRDs.Attempts != 5 {
		t.Errorf("Expected CRDs attempts 5, got %d", waits.CRDs.Attempts)
	}
	if waits.CRDs.Interval != 1*time.Second {
		t.Errorf("Expected CRDs interval 1s, got %v", waits.CRDs.Interval)
	}
	if waits.Controllers.Attempts != 120 {
		t.Errorf("Expected Controllers attempts 120, got %d", waits.Controllers.Attempts)
	}
	if waits.Controllers.Interval != 10*time.Second {
		t.Errorf("Expected Controllers interval 10s, got %v", waits.Controllers.Interval)
	}
}

func TestApplyEnvOverrides_InvalidEnvVars(t *testing.T) {
	clearWaitEnvVars()

	t.Setenv("K3STRAP_WAIT_NODE_READY_ATTEMPTS", "not-a-number")
	t.Setenv("K3STRAP_WAIT_NODE_READY_INTERVAL", "soon")

	waits := Waits{
		NodeReady:   DefaultNodeReadyBudget,
		CRDs:        DefaultCRDsBudget,
		Controllers: DefaultControllersBudget,
	}
	waits.applyEnvOverrides()

	// Should fall back to the configured values when parsing fails
	if waits.NodeReady.Attempts != 30 {
		t.Errorf("Expected NodeReady attempts 30 (invalid env var), got %d", waits.NodeReady.Attempts)
	}
	if waits.NodeReady.Interval != 2*time.Second {
		t.Errorf("Expected NodeReady interval 2s (invalid env var), got %v", waits.NodeReady.Interval)
	}
}

func TestApplyEnvOverrides_PartialEnvVars(t *testing.T) {
	clearWaitEnvVars()

	t.Setenv("K3STRAP_WAIT_CONTROLLERS_ATTEMPTS", "90")

	waits := Waits{
		NodeReady:   DefaultNodeReadyBudget,
		CRDs:        DefaultCRDsBudget,
		Controllers: DefaultControllersBudget,
	}
	waits.applyEnvOverrides()

	if waits.Controllers.Attempts != 90 {
		t.Errorf("Expected Controllers attempts 90, got %d", waits.Controllers.Attempts)
	}
	if waits.Controllers.Interval != 5*time.Second {
		t.Errorf("Expected Controllers interval default 5s, got %v", waits.Controllers.Interval)
	}
	if waits.NodeReady.Attempts != 30 {
		t.Errorf("Expected NodeReady attempts default 30, got %d", waits.NodeReady.Attempts)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{
			name:       "Valid duration",
			envValue:   "5m",
			defaultVal: 1 * time.Minute,
			expected:   5 * time.Minute,
		},
		{
			name:       "Empty value",
			envValue:   "",
			defaultVal: 1 * time.Minute,
			expected:   1 * time.Minute,
		},
		{
			name:       "Invalid value",
			envValue:   "invalid",
			defaultVal: 1 * time.Minute,
			expected:   1 * time.Minute,
		},
		{
			name:       "Complex duration",
			envValue:   "1h30m45s",
			defaultVal: 1 * time.Minute,
			expected:   1*time.Hour + 30*time.Minute + 45*time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_DURATION", tt.envValue)
			} else {
				if err := os.Unsetenv("TEST_DURATION"); err != nil {
					t.Fatalf("Failed to unset env var: %v", err)
				}
			}

			result := parseDuration("TEST_DURATION", tt.defaultVal)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal int
		expected   int
	}{
		{
			name:       "Valid integer",
			envValue:   "42",
			defaultVal: 10,
			expected:   42,
		},
		{
			name:       "Empty value",
			envValue:   "",
			defaultVal: 10,
			expected:   10,
		},
		{
			name:       "Invalid value",
			envValue:   "not-a-number",
			defaultVal: 10,
			expected:   10,
		},
		{
			name:       "Zero value",
			envValue:   "0",
			defaultVal: 10,
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_INT", tt.envValue)
			} else {
				if err := os.Unsetenv("TEST_INT"); err != nil {
					t.Fatalf("Failed to unset env var: %v", err)
				}
			}

			result := parseInt("TEST_INT", tt.defaultVal)
			if result != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func clearWaitEnvVars() {
	_ = os.Unsetenv("K3STRAP_WAIT_NODE_READY_ATTEMPTS")
	_ = os.Unsetenv("K3STRAP_WAIT_NODE_READY_INTERVAL")
	_ = os.Unsetenv("K3STRAP_WAIT_CRDS_ATTEMPTS")
	_ = os.Unsetenv("K3STRAP_WAIT_CRDS_INTERVAL")
	_ = os.Unsetenv("K3STRAP_WAIT_CONTROLLERS_ATTEMPTS")
	_ = os.Unsetenv("K3STRAP_WAIT_CONTROLLERS_INTERVAL")
}
