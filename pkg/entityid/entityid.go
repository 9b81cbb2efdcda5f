// Package entityid produces the prefixed, human-scannable identifiers
// records carry, e.g. "category-x3k2pq". Uniqueness is probabilistic via
// suffix entropy; the store's primary key is the backstop.
package entityid

import (
	"encoding/base32"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// SuffixLength is the number of random characters after the prefix.
const SuffixLength = 6

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// New returns "<prefix>-<suffix>" where the suffix is derived from a
// random UUID. Never blocks and never consults the store.
func New(prefix string) string {
	id := uuid.New()
	suffix := strings.ToLower(encoding.EncodeToString(id[:]))[:SuffixLength]
	return prefix + "-" + suffix
}

// Valid reports whether id has the expected shape for the given prefix.
func Valid(prefix, id string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return false
	}
	return suffixPattern.MatchString(rest)
}

var suffixPattern = regexp.MustCompile(`^[a-z2-7]{6}$`)
