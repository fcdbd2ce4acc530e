package wizard

import "github.com/charmbracelet/huh"

// VersionOption represents a selectable k3s release.
type VersionOption struct {
	Value       string
	Label       string
	Description string
}

// K3sVersions contains the k3s releases offered by the wizard. The first
// entry is the default.
var K3sVersions = []VersionOption{
	{Value: "v1.28.5+k3s1", Label: "v1.28.5+k3s1", Description: "Default, well tested"},
	{Value: "v1.29.0+k3s1", Label: "v1.29.0+k3s1", Description: "Latest stable"},
	{Value: "v1.27.9+k3s1", Label: "v1.27.9+k3s1", Description: "Previous stable"},
}

// StateBackendOptions contains the state storage choices.
var StateBackendOptions = []huh.Option[string]{
	huh.NewOption("Local file (.k3strap/state.yaml)", "local"),
	huh.NewOption("S3-compatible object storage", "s3"),
}

// VersionsToOptions converts VersionOption slice to huh.Option slice.
func VersionsToOptions(versions []VersionOption) []huh.Option[string] {
	opts := make([]huh.Option[string], len(versions))
	for i, v := range versions {
		opts[i] = huh.NewOption(v.Label+" - "+v.Description, v.Value)
	}
	return opts
}
