// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ctgov implements the ClinicalTrials.gov v2 API client. It is the
// catalog collaborator behind fetch.Source: it issues the actual network
// requests, validates the response schema, and owns the retry policy for the
// API's rate limiting. The engine packages never see HTTP.
package ctgov

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/trialmatch/internal/fetch"
	"github.com/pdiddy/trialmatch/internal/httputil"
	"github.com/pdiddy/trialmatch/pkg/types"
)

// apiBase is the studies search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://clinicaltrials.gov/api/v2/studies"

// studyFields restricts the response to the modules the engine reads, which
// keeps pages an order of magnitude smaller than full study documents.
var studyFields = strings.Join([]string{
	"protocolSection.identificationModule",
	"protocolSection.statusModule",
	"protocolSection.sponsorCollaboratorsModule",
	"protocolSection.conditionsModule",
	"protocolSection.designModule",
	"protocolSection.eligibilityModule",
	"protocolSection.contactsLocationsModule",
	"protocolSection.armsInterventionsModule",
}, ",")

// Client queries the ClinicalTrials.gov v2 API.
type Client struct {
	Client     *http.Client
	UserAgent  string
	PageSize   int
	MaxRetries int
}

// New returns a client configured from cfg.
func New(cfg types.AppConfig) *Client {
	return &Client{
		Client:     &http.Client{Timeout: cfg.HTTP.Timeout},
		UserAgent:  cfg.HTTP.UserAgent,
		PageSize:   cfg.Fetch.PageSize,
		MaxRetries: cfg.HTTP.MaxRetries,
	}
}

// API response envelope.
type studiesResponse struct {
	Studies       []types.Study `json:"studies"`
	TotalCount    *int          `json:"totalCount"`
	NextPageToken string        `json:"nextPageToken"`
}

// FetchPage implements fetch.Source. The total count is requested on the
// first page only; the API omits it when countTotal is not set.
func (c *Client) FetchPage(ctx context.Context, q fetch.Query, pageToken string) (fetch.Page, error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = c.PageSize
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	params := url.Values{
		"format":   {"json"},
		"fields":   {studyFields},
		"pageSize": {strconv.Itoa(pageSize)},
	}
	if q.Condition != "" {
		params.Set("query.cond", q.Condition)
	}
	if q.Terms != "" {
		params.Set("query.term", q.Terms)
	}
	if q.RecruitingOnly {
		params.Set("filter.overallStatus", "RECRUITING")
	}
	if pageToken == "" {
		params.Set("countTotal", "true")
	} else {
		params.Set("pageToken", pageToken)
	}

	reqURL := apiBase + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fetch.Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.MaxRetries)
	if err != nil {
		return fetch.Page{}, fmt.Errorf("ClinicalTrials.gov request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fetch.Page{}, fmt.Errorf("ClinicalTrials.gov returned HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr studiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return fetch.Page{}, fmt.Errorf("parsing ClinicalTrials.gov response: %w", err)
	}

	page := fetch.Page{
		Studies:   sr.Studies,
		NextToken: sr.NextPageToken,
	}
	if sr.TotalCount != nil {
		page.TotalCount = *sr.TotalCount
		page.HasTotal = true
	}
	return page, nil
}
