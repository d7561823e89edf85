// Package names finds the closest match to a misspelled name among a set
// of known names.
package names

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidate nearest to name by edit distance or the
// empty string if no candidate is near enough to be a plausible typo.
func Closest(name string, candidates []string) string {
	name = strings.ToLower(name)
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return ""
	}
	return best
}

// Hint returns a " (did you mean ...?)" suffix for an error message about
// name or the empty string if there is no close candidate.
func Hint(name string, candidates []string) string {
	if c := Closest(name, candidates); c != "" && c != name {
		return ` (did you mean "` + c + `"?)`
	}
	return ""
}
