// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcp exposes the matching and trend engines as MCP tools over
// stdio, so agent frontends can drive them without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/trialmatch/internal/fetch"
	"github.com/pdiddy/trialmatch/internal/match"
	"github.com/pdiddy/trialmatch/internal/trends"
	"github.com/pdiddy/trialmatch/pkg/types"
)

// Server wraps the MCP SDK server around a study catalog source.
type Server struct {
	MCPServer *sdkmcp.Server

	source fetch.Source
	cfg    types.AppConfig
}

// NewServer creates an MCP server exposing the match and trends tools.
// version appears in the MCP handshake.
func NewServer(source fetch.Source, cfg types.AppConfig, version string) *Server {
	s := &Server{source: source, cfg: cfg}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "trialmatch", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "match_trials",
		Description: "Match a candidate profile against ClinicalTrials.gov and return ranked eligible studies with scores and reasons.",
	}, s.handleMatchTrials)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "analyze_trends",
		Description: "Aggregate a ClinicalTrials.gov query along categorical/temporal dimensions (status, country, sponsorType, phase, year, month, studyType, interventionType).",
	}, s.handleAnalyzeTrends)
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// --- Tool input/output types ---

type matchTrialsInput struct {
	Age              int      `json:"age" jsonschema:"candidate age in whole years"`
	Sex              string   `json:"sex,omitempty" jsonschema:"ALL, FEMALE, or MALE"`
	Conditions       []string `json:"conditions" jsonschema:"conditions to match, at least one"`
	Country          string   `json:"country" jsonschema:"country the candidate can attend sites in"`
	State            string   `json:"state,omitempty" jsonschema:"optional state or province"`
	City             string   `json:"city,omitempty" jsonschema:"optional city"`
	HealthyVolunteer bool     `json:"healthy_volunteer,omitempty" jsonschema:"candidate enrolls as a healthy volunteer"`
	MaxResults       int      `json:"max_results,omitempty" jsonschema:"cap on ranked matches (default 10)"`
	RecruitingOnly   bool     `json:"recruiting_only,omitempty" jsonschema:"restrict to actively recruiting studies"`
}

type matchTrialsOutput struct {
	Matches          []types.TrialMatch `json:"matches"`
	TotalMatches     int                `json:"total_matches"`
	StudiesEvaluated int                `json:"studies_evaluated"`
	TotalAvailable   int                `json:"total_available,omitempty"`
}

type analyzeTrendsInput struct {
	Condition  string   `json:"condition,omitempty" jsonschema:"condition search expression"`
	Terms      string   `json:"terms,omitempty" jsonschema:"additional free-text search expression"`
	Dimensions []string `json:"dimensions" jsonschema:"dimensions to aggregate on, at least one"`
	MaxStudies int      `json:"max_studies,omitempty" jsonschema:"quota on the result set (default from config)"`
}

type analyzeTrendsOutput struct {
	Results []trends.Result `json:"results"`
}

// --- Tool handlers ---

func (s *Server) handleMatchTrials(ctx context.Context, _ *sdkmcp.CallToolRequest, input matchTrialsInput) (*sdkmcp.CallToolResult, matchTrialsOutput, error) {
	profile := types.Profile{
		Age:        input.Age,
		Sex:        input.Sex,
		Conditions: input.Conditions,
		Location: types.ProfileLocation{
			Country: input.Country,
			State:   input.State,
			City:    input.City,
		},
		HealthyVolunteer: input.HealthyVolunteer,
		MaxResults:       input.MaxResults,
		RecruitingOnly:   input.RecruitingOnly,
	}
	if profile.Sex == "" {
		profile.Sex = types.SexAll
	}

	out, err := match.Match(ctx, s.source, profile, match.Options{
		MaxResults:   s.cfg.Match.MaxResults,
		MaxLocations: s.cfg.Match.MaxLocations,
		PageSize:     s.cfg.Fetch.PageSize,
		Quota:        s.cfg.Fetch.MaxStudies,
		PageDelay:    s.cfg.Fetch.PageDelay,
	})
	if err != nil {
		return nil, matchTrialsOutput{}, fmt.Errorf("match_trials: %w", err)
	}

	return nil, matchTrialsOutput{
		Matches:          out.Matches,
		TotalMatches:     out.TotalMatches,
		StudiesEvaluated: out.StudiesEvaluated,
		TotalAvailable:   out.TotalAvailable,
	}, nil
}

func (s *Server) handleAnalyzeTrends(ctx context.Context, _ *sdkmcp.CallToolRequest, input analyzeTrendsInput) (*sdkmcp.CallToolResult, analyzeTrendsOutput, error) {
	dims, err := trends.ParseDimensions(input.Dimensions)
	if err != nil {
		return nil, analyzeTrendsOutput{}, fmt.Errorf("analyze_trends: %w", err)
	}

	quota := input.MaxStudies
	if quota <= 0 {
		quota = s.cfg.Fetch.MaxStudies
	}

	results, err := trends.Analyze(ctx, s.source,
		fetch.Query{Condition: input.Condition, Terms: input.Terms},
		dims,
		fetch.Options{
			PageSize:  s.cfg.Fetch.PageSize,
			Quota:     quota,
			PageDelay: s.cfg.Fetch.PageDelay,
		})
	if err != nil {
		return nil, analyzeTrendsOutput{}, fmt.Errorf("analyze_trends: %w", err)
	}

	return nil, analyzeTrendsOutput{Results: results}, nil
}
