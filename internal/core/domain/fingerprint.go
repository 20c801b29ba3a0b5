package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// EnvFingerprint creates a deterministic identifier for a set of requested requirement lines.
// Line order does not matter.
func EnvFingerprint(lines []string) string {
	sorted := slices.Clone(lines)
	slices.Sort(sorted)

	var builder strings.Builder
	for _, line := range sorted {
		builder.WriteString(strings.TrimSpace(line))
		builder.WriteString(";")
	}

	return strconv.FormatUint(xxhash.Sum64String(builder.String()), 16)
}
