package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func getSchemes(t *testing.T, h *SchemesHandler, target string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.HandleSchemeSearch(rec, req)

	var resp map[string]string
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
	}
	return rec, resp
}

func TestSchemeSearchReturnsResults(t *testing.T) {
	searcher := &fakeSearcher{context: "PM-KISAN: ₹6000 yearly\n---\nLadli Behna: ₹1250 monthly"}
	h := &SchemesHandler{Schemes: searcher}

	rec, resp := getSchemes(t, h, "/api/schemes/search?query=farmer+schemes&k=5")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["query"] != "farmer schemes" {
		t.Errorf("query = %q", resp["query"])
	}
	if resp["results"] != searcher.context {
		t.Errorf("results = %q", resp["results"])
	}
	if searcher.gotQ != "farmer schemes" || searcher.gotTopK != 5 {
		t.Errorf("search called with (%q, %d)", searcher.gotQ, searcher.gotTopK)
	}
}

func TestSchemeSearchDefaultsTopK(t *testing.T) {
	searcher := &fakeSearcher{}
	h := &SchemesHandler{Schemes: searcher}

	tests := []struct {
		name   string
		target string
	}{
		{"absent", "/api/schemes/search?query=pension"},
		{"not a number", "/api/schemes/search?query=pension&k=lots"},
		{"non-positive", "/api/schemes/search?query=pension&k=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getSchemes(t, h, tt.target)
			if searcher.gotTopK != 3 {
				t.Errorf("topK = %d, want default 3", searcher.gotTopK)
			}
		})
	}
}

func TestSchemeSearchRejectsEmptyQuery(t *testing.T) {
	h := &SchemesHandler{Schemes: &fakeSearcher{}}

	for _, target := range []string{"/api/schemes/search", "/api/schemes/search?query=++"} {
		rec, _ := getSchemes(t, h, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status for %q = %d, want 400", target, rec.Code)
		}
	}
}

func TestSchemeSearchFailureDegrades(t *testing.T) {
	h := &SchemesHandler{Schemes: &fakeSearcher{err: fmt.Errorf("index unreachable")}}

	rec, resp := getSchemes(t, h, "/api/schemes/search?query=housing")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded, not failed)", rec.Code)
	}
	if resp["results"] != "" {
		t.Errorf("results = %q, want empty after search failure", resp["results"])
	}
}

func TestSchemeSearchWithoutIndex(t *testing.T) {
	h := &SchemesHandler{}

	rec, resp := getSchemes(t, h, "/api/schemes/search?query=housing")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["results"] != "" {
		t.Errorf("results = %q, want empty without an index", resp["results"])
	}
}
