package discovery

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Similarity scores how close a and b are on a 0..1 scale using the Jaro metric.
// The comparison is case-insensitive.
func Similarity(a, b string) float64 {
	return strutil.Similarity(strings.ToLower(a), strings.ToLower(b), metrics.NewJaro())
}

// Score returns the best of the folder-name and title similarities against expected.
func Score(c Candidate, expected string) float64 {
	return max(Similarity(c.Folder, expected), Similarity(c.Record.Title, expected))
}

// SelectMain returns the index of the descriptor-bearing candidate that best matches
// expected. Ties keep the earlier candidate. ok is false when no candidate has a descriptor.
func SelectMain(candidates []Candidate, expected string) (index int, ok bool) {
	best := -1.0
	index = -1
	for i, c := range candidates {
		if !c.HasDescriptor {
			continue
		}
		if score := Score(c, expected); score > best {
			best = score
			index = i
		}
	}
	return index, index >= 0
}
