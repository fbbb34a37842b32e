// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "strings"

// Relevance scores the topical overlap between a study's condition list and
// the candidate's condition list, in [0, 1].
//
// Each candidate condition is scored against every study condition as
// |shared tokens| / |candidate tokens|, so the denominator is always the
// candidate side, and the best study condition wins. The final score is the
// mean over candidate conditions. Zero means the study matched the catalog's
// full-text search only incidentally, and callers treat it as a hard
// exclusion.
func Relevance(studyConditions, candidateConditions []string) float64 {
	if len(studyConditions) == 0 || len(candidateConditions) == 0 {
		return 0
	}

	studySets := make([]map[string]struct{}, 0, len(studyConditions))
	for _, c := range studyConditions {
		studySets = append(studySets, tokenSet(c))
	}

	var sum float64
	for _, cand := range candidateConditions {
		candSet := tokenSet(cand)
		if len(candSet) == 0 {
			continue
		}
		best := 0.0
		for _, ss := range studySets {
			shared := 0
			for tok := range candSet {
				if _, ok := ss[tok]; ok {
					shared++
				}
			}
			if score := float64(shared) / float64(len(candSet)); score > best {
				best = score
			}
		}
		sum += best
	}
	return sum / float64(len(candidateConditions))
}

// tokenSet normalizes a condition string into its comparable tokens:
// lowercase, non-alphanumerics become spaces, tokens of length <= 1 dropped.
func tokenSet(s string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, s)

	set := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 1 {
			set[tok] = struct{}{}
		}
	}
	return set
}
