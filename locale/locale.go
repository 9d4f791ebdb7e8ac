// Package locale maps Android resource qualifier directory names to
// canonical locale tags.
//
// Android stores the base string table in res/values/ and localized tables
// in res/values-<qualifier>/ directories. The qualifier uses an "r" region
// marker (values-en-rUS) where the rest of the world writes en-US; this
// package normalizes between the two and reserves the literal "default"
// for the unqualified base set.
package locale

import (
	"regexp"
	"strings"
)

// Default is the tag for the unqualified values/ resource set. Exactly one
// tag denotes the base set for a package.
const Default = "default"

// regionMarker matches the Android region marker: a two-letter upper-case
// region preceded by "-r" (en-rUS, zh-rCN, pt-rBR).
var regionMarker = regexp.MustCompile(`-r([A-Z]{2})`)

// Normalize rewrites the Android region marker away: "en-rUS" → "en-US",
// "zh-rCN" → "zh-CN". Tags without a marker pass through unchanged
// ("zh" → "zh", "fr-CA" → "fr-CA").
func Normalize(tag string) string {
	return regionMarker.ReplaceAllString(tag, "-$1")
}

// FromValuesDir converts a values directory name to a locale tag.
// "values" is the base set and maps to Default; "values-<qualifier>" maps
// to the normalized qualifier.
func FromValuesDir(dir string) string {
	if dir == "values" {
		return Default
	}
	return Normalize(strings.TrimPrefix(dir, "values-"))
}
