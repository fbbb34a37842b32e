package match

import (
	"testing"

	"github.com/pdiddy/trialmatch/pkg/types"
)

func gateList(passed, failed int) []types.GateResult {
	var out []types.GateResult
	for i := 0; i < passed; i++ {
		out = append(out, types.GateResult{Gate: "g", Passed: true, Reason: "ok"})
	}
	for i := 0; i < failed; i++ {
		out = append(out, types.GateResult{Gate: "g", Passed: false, Reason: "no"})
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		relevance float64
		gates     []types.GateResult
		want      int
	}{
		{"full relevance, all gates", 1.0, gateList(4, 0), 100},
		{"zero relevance, all gates", 0.0, gateList(4, 0), 40},
		{"half relevance, all gates", 0.5, gateList(4, 0), 70},
		{"full relevance, half gates", 1.0, gateList(2, 2), 80},
		{"rounding", 0.33, gateList(4, 0), 60}, // 19.8 + 40 = 59.8 → 60
		{"empty gate list", 1.0, nil, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.relevance, tt.gates)
			if got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Score = %d, out of [0, 100]", got)
			}
		})
	}
}

func TestPhaseWeight(t *testing.T) {
	tests := []struct {
		phases []string
		want   int
	}{
		{[]string{"PHASE4"}, 4},
		{[]string{"PHASE1", "PHASE3"}, 3},
		{[]string{"PHASE2"}, 2},
		{[]string{"Phase 1"}, 1},
		{[]string{"NA"}, 0},
		{[]string{"N/A"}, 0},
		{[]string{"Not Applicable"}, 0},
		{[]string{"EARLY_PHASE1"}, 0},
		{[]string{"SOMETHING_ELSE"}, 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := phaseWeight(tt.phases); got != tt.want {
			t.Errorf("phaseWeight(%v) = %d, want %d", tt.phases, got, tt.want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	a := types.TrialMatch{NCTID: "A", Score: 80, MatchingSites: 1, Phases: []string{"PHASE2"}, Enrollment: 100}
	b := types.TrialMatch{NCTID: "B", Score: 80, MatchingSites: 3, Phases: []string{"PHASE1"}, Enrollment: 50}

	matches := []types.TrialMatch{a, b}
	Rank(matches)

	// Site count dominates phase and enrollment at equal scores.
	if matches[0].NCTID != "B" || matches[1].NCTID != "A" {
		t.Errorf("order = [%s, %s], want [B, A]", matches[0].NCTID, matches[1].NCTID)
	}
}

func TestRankTieBreakChain(t *testing.T) {
	matches := []types.TrialMatch{
		{NCTID: "low-score", Score: 50, MatchingSites: 9, Phases: []string{"PHASE4"}, Enrollment: 999},
		{NCTID: "enrollment", Score: 80, MatchingSites: 2, Phases: []string{"PHASE2"}, Enrollment: 10},
		{NCTID: "phase", Score: 80, MatchingSites: 2, Phases: []string{"PHASE3"}, Enrollment: 5},
		{NCTID: "top", Score: 90, MatchingSites: 1},
	}
	Rank(matches)

	want := []string{"top", "phase", "enrollment", "low-score"}
	for i, id := range want {
		if matches[i].NCTID != id {
			t.Fatalf("rank %d = %s, want %s (full order %v)", i, matches[i].NCTID, id, matches)
		}
	}
}

func TestRankStable(t *testing.T) {
	matches := []types.TrialMatch{
		{NCTID: "first", Score: 70, MatchingSites: 1, Enrollment: 10},
		{NCTID: "second", Score: 70, MatchingSites: 1, Enrollment: 10},
	}
	Rank(matches)

	if matches[0].NCTID != "first" {
		t.Error("full ties must preserve input order")
	}
}
