// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GateResult is the outcome of one demographic eligibility gate. Reason is
// always populated so callers can show why a study was accepted or excluded.
type GateResult struct {
	Gate   string `json:"gate"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason"`
}

// TrialMatch is one study that passed every eligibility gate with non-zero
// condition relevance, ready for ranking and display.
type TrialMatch struct {
	// NCTID is the study's registry identifier.
	NCTID string `json:"nct_id"`

	// Title is the study's brief title.
	Title string `json:"title"`

	// Score is the combined match score in [0, 100].
	Score int `json:"score"`

	// Reasons lists human-readable explanations for the match, relevance
	// first and one per passed gate after.
	Reasons []string `json:"reasons"`

	// Status is the study's lifecycle state.
	Status string `json:"status"`

	// Phases are the declared phase labels, e.g. ["PHASE3"].
	Phases []string `json:"phases,omitempty"`

	// Sponsor is the lead sponsor's name.
	Sponsor string `json:"sponsor,omitempty"`

	// Enrollment is the declared enrollment target, 0 when undeclared.
	Enrollment int `json:"enrollment,omitempty"`

	// MatchingSites counts the study sites in the candidate's country.
	MatchingSites int `json:"matching_sites"`

	// Locations is a capped subset of sites in the candidate's country.
	Locations []Site `json:"locations,omitempty"`

	// Contact is the study's first central contact, if published.
	Contact *Contact `json:"contact,omitempty"`
}
