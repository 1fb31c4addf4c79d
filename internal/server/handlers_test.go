package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mindscribe/internal/config"
	"mindscribe/internal/core"
)

func testServer() *Server {
	return New(config.Server{
		Host:         "127.0.0.1",
		Port:         8418,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := doJSON(t, testServer(), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Unexpected status %q", body["status"])
	}
}

func TestExtractEndpoint(t *testing.T) {
	payload := `{"messages":[{"role":"assistant","content":"<!-- CBT_SUMMARY_CARD:{\"situation\":\"Feeling overwhelmed at work\",\"date\":\"2024-01-15\"} -->"}]}`
	w := doJSON(t, testServer(), http.MethodPost, "/api/extract", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp extractResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !resp.HasData {
		t.Error("Expected has_data true for a card transcript")
	}
	if resp.Assessment == nil || resp.Assessment.Situation == nil {
		t.Fatal("Expected extracted situation")
	}
	if resp.Assessment.Situation.Description != "Feeling overwhelmed at work" {
		t.Errorf("Unexpected description %q", resp.Assessment.Situation.Description)
	}
	if resp.Provenance == nil || resp.Provenance.Source != "card" {
		t.Errorf("Unexpected provenance %+v", resp.Provenance)
	}
	if resp.AnalysisID == "" {
		t.Error("Expected a generated analysis id")
	}
}

func TestTierEndpoint(t *testing.T) {
	payload := `{"messages":[{"role":"user","content":"Hello, how are you?"}]}`
	w := doJSON(t, testServer(), http.MethodPost, "/api/tier", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp tierResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Analysis.Tier != core.Tier3Minimal {
		t.Errorf("Expected tier3 for a greeting, got %s", resp.Analysis.Tier)
	}
	if resp.MeetsBar {
		t.Error("Minimal tier should not meet the analysis threshold")
	}
}

func TestSummaryEndpointRendersHTML(t *testing.T) {
	payload := `{"messages":[{"role":"assistant","content":"<!-- CBT_SUMMARY_CARD:{\"situation\":\"A tense phone call\"} -->"}]}`
	w := doJSON(t, testServer(), http.MethodPost, "/api/summary", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp summaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !strings.Contains(resp.Markdown, "A tense phone call") {
		t.Errorf("Markdown digest missing situation: %q", resp.Markdown)
	}
	if !strings.Contains(resp.HTML, "<strong>Situation:</strong>") {
		t.Errorf("HTML rendering missing bold label: %q", resp.HTML)
	}
}

func TestDiaryEndpoint(t *testing.T) {
	payload := `{"document":"## Situation\nA quiet afternoon\n\n## Emotions (before)\n- Anxiety: 4/10\n"}`
	w := doJSON(t, testServer(), http.MethodPost, "/api/diary", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp core.ParsedCBTData
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !resp.IsComplete {
		t.Errorf("Expected complete form, missing %v", resp.MissingFields)
	}
	if resp.Form.InitialEmotions.Anxiety != 4 {
		t.Errorf("Unexpected anxiety %d", resp.Form.InitialEmotions.Anxiety)
	}
}

func TestBadRequestBody(t *testing.T) {
	w := doJSON(t, testServer(), http.MethodPost, "/api/extract", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", w.Code)
	}
}
