// Package chart renders the embedded GitOps controller chart into plain
// Kubernetes manifests. The chart carries the CRDs and deployments for the
// source and kustomize controllers; rendering happens fully in-process, so
// no helm binary or chart repository is needed at provision time.
package chart

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	helmchart "helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

//go:embed all:embedded/gitops-controllers
var embeddedFS embed.FS

const embeddedRoot = "embedded/gitops-controllers"

// Values represents helm chart values as a map. The alias keeps nested
// literals as plain maps, which helm's value coalescing requires.
type Values = map[string]any

// RenderControllers renders the embedded controller chart for the given
// namespace. An empty version keeps the chart's default image tag.
func RenderControllers(namespace, version string) ([]byte, error) {
	ch, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}

	values := Values{}
	if version != "" {
		values["controllers"] = Values{"version": version}
	}

	return Render(ch, ch.Name(), namespace, values)
}

// LoadEmbedded loads the compiled-in controller chart.
func LoadEmbedded() (*helmchart.Chart, error) {
	var files []*loader.BufferedFile
	err := fs.WalkDir(embeddedFS, embeddedRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, readErr := embeddedFS.ReadFile(p)
		if readErr != nil {
			return readErr
		}
		// Loader wants paths relative to the chart root
		files = append(files, &loader.BufferedFile{
			Name: strings.TrimPrefix(p, embeddedRoot+"/"),
			Data: data,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded chart: %w", err)
	}

	ch, err := loader.LoadFiles(files)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded chart: %w", err)
	}
	return ch, nil
}

// Render renders a chart with the provided values into a multi-document
// manifest stream. Chart defaults are coalesced underneath the provided
// values; templates concatenate in name order so output is deterministic.
func Render(ch *helmchart.Chart, releaseName, namespace string, values Values) ([]byte, error) {
	releaseOptions := chartutil.ReleaseOptions{
		Name:      releaseName,
		Namespace: namespace,
		IsInstall: true,
	}

	// Capabilities match the k3s generation this targets so templates pick
	// current API versions.
	capabilities := chartutil.DefaultCapabilities.Copy()
	capabilities.KubeVersion.Version = "v1.28.5"
	capabilities.KubeVersion.Major = "1"
	capabilities.KubeVersion.Minor = "28"

	valuesToRender, err := chartutil.ToRenderValues(ch, chartutil.Values(values), releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	eng := engine.Engine{}
	rendered, err := eng.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	names := make([]string, 0, len(rendered))
	for name := range rendered {
		names = append(names, name)
	}
	sort.Strings(names)

	var combined bytes.Buffer
	for _, name := range names {
		// Skip NOTES.txt
		if path.Base(name) == "NOTES.txt" {
			continue
		}

		// Skip empty or whitespace-only content
		trimmed := strings.TrimSpace(rendered[name])
		if trimmed == "" {
			continue
		}

		if combined.Len() > 0 {
			combined.WriteString("\n---\n")
		}
		combined.WriteString(trimmed)
		combined.WriteString("\n")
	}

	return combined.Bytes(), nil
}
