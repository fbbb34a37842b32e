// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/trialmatch/internal/fetch"
	"github.com/pdiddy/trialmatch/pkg/types"
)

// Options bounds one matching run.
type Options struct {
	// MaxResults caps the ranked matches returned. A positive
	// Profile.MaxResults takes precedence. Default 10.
	MaxResults int

	// MaxLocations caps the candidate-country sites listed per match
	// (default 5).
	MaxLocations int

	// PageSize, Quota, and PageDelay bound the catalog fetch.
	PageSize  int
	Quota     int
	PageDelay time.Duration
}

// Output is the result of one matching run.
type Output struct {
	// Matches is the ranked list, truncated to the result cap.
	Matches []types.TrialMatch `json:"matches"`

	// TotalMatches counts every eligible study before truncation.
	TotalMatches int `json:"total_matches"`

	// StudiesEvaluated counts the studies fetched and gated.
	StudiesEvaluated int `json:"studies_evaluated"`

	// TotalAvailable is the catalog's reported total, set only when it
	// exceeds StudiesEvaluated (i.e. the fetch was truncated before
	// eligibility filtering saw everything).
	TotalAvailable int `json:"total_available,omitempty"`
}

// Match fetches the candidate's condition query from the catalog, gates every
// study, scores the survivors, and returns them ranked. Studies with missing
// eligibility data or zero condition relevance are skipped silently;
// fetch-level failures (quota, cancellation, upstream errors) abort the run.
func Match(ctx context.Context, src fetch.Source, p types.Profile, opts Options) (Output, error) {
	if err := p.Validate(); err != nil {
		return Output{}, fmt.Errorf("invalid profile: %w", err)
	}

	q := fetch.Query{
		Condition:      strings.Join(p.Conditions, " "),
		RecruitingOnly: p.RecruitingOnly,
	}
	acc, err := fetch.Accumulate(ctx, src, q, fetch.Options{
		PageSize:  opts.PageSize,
		Quota:     opts.Quota,
		PageDelay: opts.PageDelay,
	})
	if err != nil {
		return Output{}, err
	}

	var matches []types.TrialMatch
	for _, study := range acc.Studies {
		chain := EvaluateGates(study, p)
		if !chain.Passed {
			continue
		}
		rel := Relevance(study.Conditions(), p.Conditions)
		if rel == 0 {
			// Incidental full-text hit; demographics alone do not
			// make a match.
			continue
		}
		matches = append(matches, buildMatch(study, p, rel, chain.Results, opts))
	}

	Rank(matches)

	out := Output{
		TotalMatches:     len(matches),
		StudiesEvaluated: len(acc.Studies),
	}
	if acc.HasTotal && acc.TotalCount > len(acc.Studies) {
		out.TotalAvailable = acc.TotalCount
	}

	limit := opts.MaxResults
	if p.MaxResults > 0 {
		limit = p.MaxResults
	}
	if limit <= 0 {
		limit = 10
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out.Matches = matches
	return out, nil
}

// buildMatch assembles the display record for one eligible study.
func buildMatch(study types.Study, p types.Profile, relevance float64, gateResults []types.GateResult, opts Options) types.TrialMatch {
	m := types.TrialMatch{
		NCTID:      study.NCTID(),
		Title:      study.Title(),
		Score:      Score(relevance, gateResults),
		Status:     study.OverallStatus(),
		Phases:     study.Phases(),
		Sponsor:    study.SponsorName(),
		Enrollment: study.EnrollmentCount(),
		Contact:    study.CentralContact(),
	}

	maxLocations := opts.MaxLocations
	if maxLocations <= 0 {
		maxLocations = 5
	}
	for _, site := range study.Sites() {
		if !strings.EqualFold(site.Country, p.Location.Country) {
			continue
		}
		m.MatchingSites++
		if len(m.Locations) < maxLocations {
			m.Locations = append(m.Locations, site)
		}
	}

	m.Reasons = append(m.Reasons, fmt.Sprintf("conditions match %q at %d%%",
		strings.Join(p.Conditions, ", "), int(math.Round(relevance*100))))
	for _, g := range gateResults {
		m.Reasons = append(m.Reasons, g.Reason)
	}
	return m
}

// FormatTable writes matches as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Matches) == 0 {
		fmt.Fprintln(w, "No eligible studies found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-52s  %-5s  %-18s  %-6s  %s\n",
		"Rank", "NCT ID", "Title", "Score", "Status", "Sites", "Phases")
	fmt.Fprintln(w, strings.Repeat("-", 112))

	for i, m := range out.Matches {
		title := truncate(m.Title, 52)
		fmt.Fprintf(w, "%-4d  %-12s  %-52s  %-5d  %-18s  %-6d  %s\n",
			i+1, m.NCTID, title, m.Score, m.Status, m.MatchingSites,
			strings.Join(m.Phases, ","))
	}

	fmt.Fprintf(w, "\n%d of %d eligible studies shown (%d studies evaluated)",
		len(out.Matches), out.TotalMatches, out.StudiesEvaluated)
	if out.TotalAvailable > 0 {
		fmt.Fprintf(w, "; catalog reports %d total", out.TotalAvailable)
	}
	fmt.Fprintln(w)
}

// truncate shortens s to at most max runes, ending in "..." when cut.
// Counting runes keeps multi-byte titles from being split mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// FormatJSON writes the full output as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
