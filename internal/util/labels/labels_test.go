package labels

import "testing"

func TestNewBuilder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		clusterName string
	}{
		{"simple cluster name", "my-cluster"},
		{"single word", "homelab"},
		{"with numbers", "cluster-01"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBuilder(tt.clusterName)
			if b == nil {
				t.Fatal("NewBuilder returned nil")
			}

			labels := b.Build()

			if labels[KeyCluster] != tt.clusterName {
				t.Errorf("expected %s=%q, got %q", KeyCluster, tt.clusterName, labels[KeyCluster])
			}
			if labels[KeyManagedBy] != ManagedBy {
				t.Errorf("expected %s=%q, got %q", KeyManagedBy, ManagedBy, labels[KeyManagedBy])
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		component string
	}{
		{"control plane", ComponentControlPlane},
		{"workload", ComponentWorkload},
		{"storage", ComponentStorage},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := NewBuilder("test-cluster").WithComponent(tt.component).Build()

			if labels[KeyComponent] != tt.component {
				t.Errorf("expected %s=%q, got %q", KeyComponent, tt.component, labels[KeyComponent])
			}
			if labels[KeyCluster] != "test-cluster" {
				t.Errorf("cluster label lost: got %q", labels[KeyCluster])
			}
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	labels := NewBuilder("test-cluster").
		Merge(map[string]string{"custom": "value", KeyManagedBy: "someone-else"}).
		Build()

	if labels["custom"] != "value" {
		t.Errorf("expected custom=value, got %q", labels["custom"])
	}
	if labels[KeyManagedBy] != "someone-else" {
		t.Errorf("merge must overwrite existing keys, got %q", labels[KeyManagedBy])
	}
}

func TestBuildReturnsCopy(t *testing.T) {
	t.Parallel()
	b := NewBuilder("test-cluster")

	first := b.Build()
	first["mutated"] = "yes"

	second := b.Build()
	if _, ok := second["mutated"]; ok {
		t.Error("mutating the built map must not leak back into the builder")
	}
}

func TestSelectorForCluster(t *testing.T) {
	t.Parallel()
	got := SelectorForCluster("media-box")
	want := KeyCluster + "=media-box"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
