package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where state lands when the config does not say otherwise,
// relative to the working directory.
const DefaultPath = ".k3strap/state.yaml"

// FileStore keeps the document in a YAML file. Saves go through a temp file
// and rename, so a crash mid-write never leaves a truncated document.
type FileStore struct {
	Path string
}

// NewFileStore returns a store at path, falling back to DefaultPath when
// path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{Path: path}
}

// Load reads the document, returning a fresh one when the file does not
// exist yet.
func (s *FileStore) Load(_ context.Context) (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", s.Path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.Path, err)
	}
	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("state file %s has version %d, this build understands up to %d",
			s.Path, doc.Version, CurrentVersion)
	}
	if doc.Nodes == nil {
		doc.Nodes = make(map[string]NodeState)
	}
	if doc.Outputs == nil {
		doc.Outputs = make(map[string]string)
	}
	return &doc, nil
}

// Save writes the document atomically with 0600 permissions.
func (s *FileStore) Save(_ context.Context, doc *Document) error {
	doc.Version = CurrentVersion
	doc.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set state file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("failed to move state file into place: %w", err)
	}
	return nil
}
