// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/trialmatch/pkg/types"
)

// Relevance and demographic weights of the combined match score.
const (
	relevanceWeight   = 60
	demographicWeight = 40
)

// Score combines condition relevance and gate outcomes into a single bounded
// score in [0, 100]. The demographic term is the passed fraction of the gate
// list; in the current pipeline scoring only runs after all gates pass, but
// the proportional form is kept so partial gate lists score sensibly.
func Score(relevance float64, gateResults []types.GateResult) int {
	demographic := 0.0
	if len(gateResults) > 0 {
		passed := 0
		for _, g := range gateResults {
			if g.Passed {
				passed++
			}
		}
		demographic = float64(passed) / float64(len(gateResults))
	}

	s := int(math.Round(relevance*relevanceWeight + demographic*demographicWeight))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// phaseWeight maps a study's phase labels to an ordinal for ranking: the
// highest declared phase wins, "N/A" and unrecognized labels weigh 0.
func phaseWeight(phases []string) int {
	best := 0
	for _, p := range phases {
		key := strings.ToUpper(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(p))
		var w int
		switch key {
		case "PHASE4":
			w = 4
		case "PHASE3":
			w = 3
		case "PHASE2":
			w = 2
		case "PHASE1":
			w = 1
		default:
			// Includes NA, N/A, NOTAPPLICABLE, EARLYPHASE1.
			w = 0
		}
		if w > best {
			best = w
		}
	}
	return best
}

// Rank orders matches into a deterministic total order: descending by score,
// then candidate-country site count, then phase weight, then enrollment
// target. The sort is stable, so remaining ties preserve input order.
func Rank(matches []types.TrialMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.MatchingSites != b.MatchingSites {
			return a.MatchingSites > b.MatchingSites
		}
		if pa, pb := phaseWeight(a.Phases), phaseWeight(b.Phases); pa != pb {
			return pa > pb
		}
		return a.Enrollment > b.Enrollment
	})
}
