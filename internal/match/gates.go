// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match decides which studies a candidate is eligible for, how
// strongly each one matches, and in what order to present them.
package match

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/trialmatch/pkg/types"
)

// GateChain is the outcome of running the demographic gates against one
// study. When Passed is false the last entry in Results is the failing gate;
// gates after it were not evaluated.
type GateChain struct {
	Passed  bool
	Results []types.GateResult
}

// gates are evaluated in this fixed order, short-circuiting on the first
// failure. Each gate is independent of the others.
var gates = []struct {
	name string
	eval func(types.Study, types.Profile) (bool, string)
}{
	{"age", ageGate},
	{"sex", sexGate},
	{"healthy_volunteer", healthyVolunteerGate},
	{"location", locationGate},
}

// EvaluateGates runs the demographic gates. A study with no eligibility
// module at all is rejected before the first gate: absence means the registry
// entry carries insufficient data, not that every constraint is satisfied.
func EvaluateGates(study types.Study, p types.Profile) GateChain {
	if study.Eligibility() == nil {
		return GateChain{Results: []types.GateResult{{
			Gate:   "eligibility",
			Reason: "study publishes no eligibility data",
		}}}
	}

	chain := GateChain{Results: make([]types.GateResult, 0, len(gates))}
	for _, g := range gates {
		passed, reason := g.eval(study, p)
		chain.Results = append(chain.Results, types.GateResult{
			Gate:   g.name,
			Passed: passed,
			Reason: reason,
		})
		if !passed {
			return chain
		}
	}
	chain.Passed = true
	return chain
}

// parseAgeYears parses a bound like "18 Years" or "6 Months" into years.
// Returns ok=false for empty or unparseable bounds, which callers treat as
// unconstrained.
func parseAgeYears(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}

	unit := "year"
	if len(fields) > 1 {
		unit = strings.TrimSuffix(strings.ToLower(fields[1]), "s")
	}
	switch unit {
	case "year":
		return v, true
	case "month":
		return v / 12, true
	case "week":
		return v * 7 / 365, true
	case "day":
		return v / 365, true
	case "hour":
		return v / 8760, true
	case "minute":
		return v / 525600, true
	default:
		return 0, false
	}
}

func ageGate(study types.Study, p types.Profile) (bool, string) {
	el := study.Eligibility()
	age := float64(p.Age)

	minAge, hasMin := parseAgeYears(el.MinimumAge)
	maxAge, hasMax := parseAgeYears(el.MaximumAge)

	// Both bounds inclusive; a missing bound is unconstrained.
	if hasMin && age < minAge {
		return false, fmt.Sprintf("age %d is below the study minimum of %s", p.Age, el.MinimumAge)
	}
	if hasMax && age > maxAge {
		return false, fmt.Sprintf("age %d is above the study maximum of %s", p.Age, el.MaximumAge)
	}

	switch {
	case hasMin && hasMax:
		return true, fmt.Sprintf("age %d is within the study range %s to %s", p.Age, el.MinimumAge, el.MaximumAge)
	case hasMin:
		return true, fmt.Sprintf("age %d meets the study minimum of %s", p.Age, el.MinimumAge)
	case hasMax:
		return true, fmt.Sprintf("age %d meets the study maximum of %s", p.Age, el.MaximumAge)
	default:
		return true, "study has no age restrictions"
	}
}

func sexGate(study types.Study, p types.Profile) (bool, string) {
	required := strings.ToUpper(strings.TrimSpace(study.Eligibility().Sex))
	if required == "" || required == types.SexAll {
		return true, "study accepts all sexes"
	}
	if strings.EqualFold(required, p.Sex) {
		return true, fmt.Sprintf("study is limited to %s participants", strings.ToLower(required))
	}
	return false, fmt.Sprintf("study is limited to %s participants", strings.ToLower(required))
}

func healthyVolunteerGate(study types.Study, p types.Profile) (bool, string) {
	hv := study.Eligibility().HealthyVolunteers
	if p.HealthyVolunteer && hv != nil && !*hv {
		return false, "study does not accept healthy volunteers"
	}
	switch {
	case !p.HealthyVolunteer:
		return true, "candidate is not enrolling as a healthy volunteer"
	case hv == nil:
		return true, "study does not state a healthy-volunteer policy"
	default:
		return true, "study accepts healthy volunteers"
	}
}

func locationGate(study types.Study, p types.Profile) (bool, string) {
	n := 0
	for _, site := range study.Sites() {
		if strings.EqualFold(site.Country, p.Location.Country) {
			n++
		}
	}
	if n == 0 {
		return false, fmt.Sprintf("no study sites in %s", p.Location.Country)
	}
	if n == 1 {
		return true, fmt.Sprintf("1 study site in %s", p.Location.Country)
	}
	return true, fmt.Sprintf("%d study sites in %s", n, p.Location.Country)
}
