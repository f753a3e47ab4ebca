package catalog

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a known voice before
// we stop guessing.
const maxSuggestDistance = 2

// SuggestVoices maps each filter entry that names no catalog voice to its
// closest known voice, or "" when nothing is close enough. Used to warn
// about --voices typos before the filter silently empties the worklist.
func SuggestVoices(filter []string) map[string]string {
	known := KnownVoices()
	unknown := map[string]string{}

	for _, want := range filter {
		found := false
		best := ""
		bestDist := maxSuggestDistance + 1
		for _, have := range known {
			if want == have {
				found = true
				break
			}
			d := levenshtein.DistanceForStrings([]rune(want), []rune(have), levenshtein.DefaultOptions)
			if d < bestDist {
				bestDist = d
				best = have
			}
		}
		if !found {
			unknown[want] = best
		}
	}
	return unknown
}
