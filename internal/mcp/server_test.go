package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trialmatch/internal/fetch"
	"github.com/pdiddy/trialmatch/internal/trends"
	"github.com/pdiddy/trialmatch/pkg/types"
)

type stubSource struct {
	page  fetch.Page
	calls int
}

func (s *stubSource) FetchPage(_ context.Context, _ fetch.Query, _ string) (fetch.Page, error) {
	s.calls++
	return s.page, nil
}

func sampleStudy() types.Study {
	return types.Study{Protocol: types.ProtocolSection{
		Identification: &types.IdentificationModule{NCTID: "NCT00000001", BriefTitle: "Metformin in Type 2 Diabetes"},
		Status:         &types.StatusModule{OverallStatus: "RECRUITING"},
		Conditions:     &types.ConditionsModule{Conditions: []string{"Type 2 Diabetes"}},
		Eligibility:    &types.EligibilityModule{MinimumAge: "18 Years", MaximumAge: "65 Years", Sex: "ALL"},
		ContactsLocations: &types.ContactsLocationsModule{Locations: []types.Site{
			{Facility: "General Hospital", City: "Toronto", Country: "Canada"},
		}},
	}}
}

func testServer(src fetch.Source) *Server {
	return NewServer(src, types.DefaultConfig(), "test")
}

func TestHandleMatchTrials(t *testing.T) {
	src := &stubSource{page: fetch.Page{
		Studies:    []types.Study{sampleStudy()},
		TotalCount: 1,
		HasTotal:   true,
	}}
	s := testServer(src)

	_, out, err := s.handleMatchTrials(context.Background(), nil, matchTrialsInput{
		Age:        45,
		Conditions: []string{"type 2 diabetes"},
		Country:    "Canada",
	})
	require.NoError(t, err)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "NCT00000001", out.Matches[0].NCTID)
	assert.Equal(t, 1, out.TotalMatches)
	assert.Equal(t, 1, out.StudiesEvaluated)
	assert.Equal(t, 1, src.calls)
}

func TestHandleMatchTrialsDefaultsSexToAll(t *testing.T) {
	src := &stubSource{page: fetch.Page{HasTotal: true}}
	s := testServer(src)

	// An empty sex would fail profile validation; the handler fills it in.
	_, _, err := s.handleMatchTrials(context.Background(), nil, matchTrialsInput{
		Age:        30,
		Conditions: []string{"asthma"},
		Country:    "Canada",
	})
	require.NoError(t, err)
}

func TestHandleMatchTrialsInvalidProfile(t *testing.T) {
	src := &stubSource{}
	s := testServer(src)

	_, _, err := s.handleMatchTrials(context.Background(), nil, matchTrialsInput{
		Age:     -1,
		Country: "Canada",
	})
	require.Error(t, err)
	assert.Zero(t, src.calls, "invalid input must not reach the catalog")
}

func TestHandleAnalyzeTrends(t *testing.T) {
	src := &stubSource{page: fetch.Page{
		Studies:    []types.Study{sampleStudy()},
		TotalCount: 1,
		HasTotal:   true,
	}}
	s := testServer(src)

	_, out, err := s.handleAnalyzeTrends(context.Background(), nil, analyzeTrendsInput{
		Condition:  "diabetes",
		Dimensions: []string{"status", "country"},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, trends.DimStatus, out.Results[0].Dimension)
	assert.Equal(t, 1, out.Results[0].Buckets["RECRUITING"])
	assert.Equal(t, 1, out.Results[1].Buckets["Canada"])
}

func TestHandleAnalyzeTrendsUnknownDimension(t *testing.T) {
	src := &stubSource{}
	s := testServer(src)

	_, _, err := s.handleAnalyzeTrends(context.Background(), nil, analyzeTrendsInput{
		Dimensions: []string{"color"},
	})
	require.Error(t, err)
	assert.Zero(t, src.calls, "bad dimensions must not reach the catalog")
}
