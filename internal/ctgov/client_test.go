package ctgov

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/trialmatch/internal/fetch"
)

const samplePageJSON = `{
  "totalCount": 2,
  "nextPageToken": "abc123",
  "studies": [
    {
      "protocolSection": {
        "identificationModule": {"nctId": "NCT00000001", "briefTitle": "Metformin in Type 2 Diabetes"},
        "statusModule": {"overallStatus": "RECRUITING", "startDateStruct": {"date": "2024-02"}},
        "eligibilityModule": {"sex": "ALL", "minimumAge": "18 Years", "maximumAge": "65 Years", "healthyVolunteers": false},
        "conditionsModule": {"conditions": ["Diabetes Mellitus, Type 2"]},
        "designModule": {"studyType": "INTERVENTIONAL", "phases": ["PHASE3"], "enrollmentInfo": {"count": 200}}
      }
    },
    {
      "protocolSection": {
        "identificationModule": {"nctId": "NCT00000002", "officialTitle": "An Observational Registry"}
      }
    }
  ]
}`

func TestFetchPageFirstPage(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, samplePageJSON)
	}))
	defer ts.Close()

	old := apiBase
	apiBase = ts.URL
	defer func() { apiBase = old }()

	c := &Client{Client: ts.Client(), UserAgent: "trialmatch-test/0.1", PageSize: 50}
	page, err := c.FetchPage(context.Background(), fetch.Query{Condition: "type 2 diabetes", RecruitingOnly: true}, "")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}

	if !page.HasTotal || page.TotalCount != 2 {
		t.Errorf("TotalCount = %d (HasTotal=%v), want 2", page.TotalCount, page.HasTotal)
	}
	if page.NextToken != "abc123" {
		t.Errorf("NextToken = %q", page.NextToken)
	}
	if len(page.Studies) != 2 {
		t.Fatalf("len(Studies) = %d, want 2", len(page.Studies))
	}

	s := page.Studies[0]
	if s.NCTID() != "NCT00000001" {
		t.Errorf("NCTID = %q", s.NCTID())
	}
	if s.OverallStatus() != "RECRUITING" {
		t.Errorf("OverallStatus = %q", s.OverallStatus())
	}
	if s.EnrollmentCount() != 200 {
		t.Errorf("EnrollmentCount = %d", s.EnrollmentCount())
	}

	// Sparse second study resolves through accessor defaults.
	s2 := page.Studies[1]
	if s2.Title() != "An Observational Registry" {
		t.Errorf("Title = %q, want official title fallback", s2.Title())
	}
	if s2.OverallStatus() != "Unknown" {
		t.Errorf("OverallStatus = %q, want Unknown", s2.OverallStatus())
	}
	if s2.Eligibility() != nil {
		t.Error("Eligibility should be nil for sparse study")
	}

	if gotQuery["query.cond"] != "type 2 diabetes" {
		t.Errorf("query.cond = %q", gotQuery["query.cond"])
	}
	if gotQuery["filter.overallStatus"] != "RECRUITING" {
		t.Errorf("filter.overallStatus = %q", gotQuery["filter.overallStatus"])
	}
	if gotQuery["countTotal"] != "true" {
		t.Errorf("countTotal = %q, want true on first page", gotQuery["countTotal"])
	}
	if gotQuery["pageSize"] != "50" {
		t.Errorf("pageSize = %q", gotQuery["pageSize"])
	}
}

func TestFetchPageQueryPageSizeWins(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageSize"); got != "10" {
			t.Errorf("pageSize = %q, want the query's 10 over the client's 50", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"studies": []}`)
	}))
	defer ts.Close()

	old := apiBase
	apiBase = ts.URL
	defer func() { apiBase = old }()

	c := &Client{Client: ts.Client(), PageSize: 50}
	if _, err := c.FetchPage(context.Background(), fetch.Query{PageSize: 10}, ""); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
}

func TestFetchPageContinuation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageToken"); got != "abc123" {
			t.Errorf("pageToken = %q, want abc123", got)
		}
		if r.URL.Query().Get("countTotal") != "" {
			t.Error("countTotal must not be sent on continuation pages")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"studies": []}`)
	}))
	defer ts.Close()

	old := apiBase
	apiBase = ts.URL
	defer func() { apiBase = old }()

	c := &Client{Client: ts.Client()}
	page, err := c.FetchPage(context.Background(), fetch.Query{}, "abc123")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.HasTotal {
		t.Error("HasTotal should be false when the API omits totalCount")
	}
	if page.NextToken != "" {
		t.Errorf("NextToken = %q, want empty", page.NextToken)
	}
}

func TestFetchPageHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad query", http.StatusBadRequest)
	}))
	defer ts.Close()

	old := apiBase
	apiBase = ts.URL
	defer func() { apiBase = old }()

	c := &Client{Client: ts.Client()}
	_, err := c.FetchPage(context.Background(), fetch.Query{}, "")
	if err == nil {
		t.Fatal("expected error for HTTP 400")
	}
}
