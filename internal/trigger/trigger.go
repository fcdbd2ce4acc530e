// Package trigger decides whether a plan node has to execute again.
//
// A node declares an ordered list of named inputs. The fingerprint of the
// current inputs is compared by value against the fingerprint recorded on the
// last successful run; a difference forces re-execution. Nodes without inputs
// execute exactly once.
package trigger

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// Input is one named, serialisable trigger value.
type Input struct {
	Name  string
	Value string
}

// Fingerprint returns the hex-encoded BLAKE3 digest of the canonical
// encoding of inputs. The encoding length-prefixes every field, so no two
// distinct input lists share an encoding. An empty input list has no
// fingerprint and returns "".
func Fingerprint(inputs []Input) string {
	if len(inputs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, in := range inputs {
		fmt.Fprintf(&b, "%d:%s=%d:%s\n", len(in.Name), in.Name, len(in.Value), in.Value)
	}

	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ShouldRun reports whether a node must execute.
//
// A node that has never succeeded always runs. A node without inputs runs
// once and is then skipped forever. A node with inputs runs whenever the
// fingerprint of its current inputs differs from the stored one.
func ShouldRun(inputs []Input, stored string, succeeded bool) bool {
	if !succeeded {
		return true
	}
	if len(inputs) == 0 {
		return false
	}
	return Fingerprint(inputs) != stored
}
