package domain

import (
	"regexp"
	"strings"
)

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// CanonicalName returns the normalized identity of a distribution name.
// Names compare equal after lower-casing and folding runs of "-", "_" and "." into "-".
func CanonicalName(name string) string {
	return nameSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// SameName reports whether two distribution names refer to the same package.
func SameName(a, b string) bool {
	return CanonicalName(a) == CanonicalName(b)
}
