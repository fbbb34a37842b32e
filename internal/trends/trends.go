// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trends computes categorical and temporal frequency counts over
// arbitrarily large study sets, one pass per requested dimension.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/trialmatch/internal/fetch"
	"github.com/pdiddy/trialmatch/pkg/types"
)

// Dimension is an axis along which studies are counted.
type Dimension string

// The closed set of supported dimensions.
const (
	DimStatus           Dimension = "status"
	DimCountry          Dimension = "country"
	DimSponsorType      Dimension = "sponsorType"
	DimPhase            Dimension = "phase"
	DimYear             Dimension = "year"
	DimMonth            Dimension = "month"
	DimStudyType        Dimension = "studyType"
	DimInterventionType Dimension = "interventionType"
)

// AllDimensions lists every supported dimension in display order.
var AllDimensions = []Dimension{
	DimStatus, DimCountry, DimSponsorType, DimPhase,
	DimYear, DimMonth, DimStudyType, DimInterventionType,
}

// ParseDimensions maps raw dimension names onto the closed Dimension set,
// case-insensitively. Unknown names are an error.
func ParseDimensions(names []string) ([]Dimension, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one dimension is required")
	}
	var dims []Dimension
	for _, name := range names {
		found := false
		for _, d := range AllDimensions {
			if strings.EqualFold(strings.TrimSpace(name), string(d)) {
				dims = append(dims, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown dimension %q (supported: %s)", name, joinDimensions())
		}
	}
	return dims, nil
}

func joinDimensions() string {
	names := make([]string, len(AllDimensions))
	for i, d := range AllDimensions {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// Result holds the frequency counts for one dimension. TotalStudies is the
// number of studies examined, not the bucket sum: multi-valued dimensions
// (country, phase, interventionType) can exceed it.
type Result struct {
	Dimension    Dimension      `json:"dimension"`
	TotalStudies int            `json:"total_studies"`
	Buckets      map[string]int `json:"buckets"`
}

// Aggregate counts every study once per requested dimension. Single-valued
// dimensions increment exactly one bucket per study, defaulting to "Unknown"
// when the facet is absent; set-valued dimensions increment each distinct
// label the study carries.
func Aggregate(studies []types.Study, dims []Dimension) []Result {
	results := make([]Result, 0, len(dims))
	for _, dim := range dims {
		buckets := make(map[string]int)
		for _, study := range studies {
			for _, label := range bucketLabels(study, dim) {
				buckets[label]++
			}
		}
		results = append(results, Result{
			Dimension:    dim,
			TotalStudies: len(studies),
			Buckets:      buckets,
		})
	}
	return results
}

// bucketLabels returns the labels a single study contributes to dim.
// Set-valued dimensions deduplicate within the study.
func bucketLabels(study types.Study, dim Dimension) []string {
	switch dim {
	case DimStatus:
		return []string{study.OverallStatus()}

	case DimSponsorType:
		return []string{study.SponsorClass()}

	case DimStudyType:
		return []string{study.StudyType()}

	case DimCountry:
		return uniqueLabels(study.Sites(), func(s types.Site) (string, bool) {
			return s.Country, s.Country != ""
		})

	case DimInterventionType:
		interventions := study.Interventions()
		if len(interventions) == 0 {
			return []string{types.UnknownLabel}
		}
		return uniqueLabels(interventions, func(iv types.Intervention) (string, bool) {
			if iv.Type == "" {
				// Typed and untyped interventions can coexist; the
				// untyped ones surface as Unknown.
				return types.UnknownLabel, true
			}
			return iv.Type, true
		})

	case DimPhase:
		phases := study.Phases()
		if len(phases) == 0 {
			return []string{types.UnknownLabel}
		}
		return uniqueLabels(phases, func(p string) (string, bool) {
			return p, p != ""
		})

	case DimYear:
		if d := study.StartDate(); len(d) >= 4 {
			return []string{d[:4]}
		}
		return []string{types.UnknownLabel}

	case DimMonth:
		if d := study.StartDate(); len(d) >= 7 {
			return []string{d[:7]}
		}
		return []string{types.UnknownLabel}
	}
	return nil
}

// uniqueLabels extracts deduplicated labels from a slice, preserving first
// occurrence order.
func uniqueLabels[T any](items []T, label func(T) (string, bool)) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		l, ok := label(item)
		if !ok {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Analyze accumulates the query's study set under quota and aggregates it
// along the requested dimensions. Fetch-level failures abort the run.
func Analyze(ctx context.Context, src fetch.Source, q fetch.Query, dims []Dimension, opts fetch.Options) ([]Result, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("at least one dimension is required")
	}
	acc, err := fetch.Accumulate(ctx, src, q, opts)
	if err != nil {
		return nil, err
	}
	return Aggregate(acc.Studies, dims), nil
}

// FormatTable writes results as human-readable per-dimension tables to w,
// buckets sorted by descending count and alphabetically within ties.
func FormatTable(results []Result, w io.Writer) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d studies)\n", res.Dimension, res.TotalStudies)
		fmt.Fprintln(w, strings.Repeat("-", 40))

		type bucket struct {
			label string
			count int
		}
		sorted := make([]bucket, 0, len(res.Buckets))
		for label, count := range res.Buckets {
			sorted = append(sorted, bucket{label, count})
		}
		sort.Slice(sorted, func(a, b int) bool {
			if sorted[a].count != sorted[b].count {
				return sorted[a].count > sorted[b].count
			}
			return sorted[a].label < sorted[b].label
		})

		for _, b := range sorted {
			fmt.Fprintf(w, "  %-28s  %d\n", b.label, b.count)
		}
	}
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
