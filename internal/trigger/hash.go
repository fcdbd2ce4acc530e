package trigger

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// HashBytes returns the hex-encoded BLAKE3 digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex-encoded BLAKE3 digest of the file contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashDir returns a stable hex-encoded BLAKE3 digest over every regular file
// under root. Paths are hashed relative to root in lexical walk order, so
// renames, additions, deletions and edits all change the digest. Directories
// named ".git" are skipped.
func HashDir(root string) (string, error) {
	h := blake3.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return err
		}

		fmt.Fprintf(h, "%d:%s=%d:", len(rel), filepath.ToSlash(rel), len(data))
		_, _ = h.Write(data)
		_, _ = h.Write([]byte{'\n'})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to hash directory %s: %w", root, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
