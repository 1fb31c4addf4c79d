package server

import (
	"encoding/json"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"

	"mindscribe/internal/core"
	"mindscribe/internal/extract"
	mdparse "mindscribe/internal/markdown"
	"mindscribe/internal/normalize"
	"mindscribe/internal/summary"
	"mindscribe/internal/tier"
)

type transcriptRequest struct {
	Messages []core.Message `json:"messages"`
}

type diaryRequest struct {
	Document string `json:"document"`
}

type extractResponse struct {
	AnalysisID string              `json:"analysis_id"`
	HasData    bool                `json:"has_data"`
	Assessment *core.Assessment    `json:"assessment"`
	Provenance *extract.Provenance `json:"provenance,omitempty"`
	Missing    []string            `json:"missing_fields"`
}

type tierResponse struct {
	AnalysisID string                   `json:"analysis_id"`
	Analysis   core.ContentTierAnalysis `json:"analysis"`
	MeetsBar   bool                     `json:"meets_analysis_threshold"`
}

type summaryResponse struct {
	AnalysisID string `json:"analysis_id"`
	Markdown   string `json:"markdown"`
	HTML       string `json:"html"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	assessment, prov := extract.ParseAllWithProvenance(req.Messages)
	writeJSON(w, http.StatusOK, extractResponse{
		AnalysisID: uuid.NewString(),
		HasData:    extract.HasCBTData(req.Messages),
		Assessment: assessment,
		Provenance: &prov,
		Missing:    summary.Validate(assessment),
	})
}

func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	analysis := tier.Analyze(req.Messages)
	writeJSON(w, http.StatusOK, tierResponse{
		AnalysisID: uuid.NewString(),
		Analysis:   analysis,
		MeetsBar:   summary.MeetsAnalysisThreshold(analysis),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	md := summary.Generate(extract.ParseAll(req.Messages))
	writeJSON(w, http.StatusOK, summaryResponse{
		AnalysisID: uuid.NewString(),
		Markdown:   md,
		HTML:       renderHTML(md),
	})
}

func (s *Server) handleDiary(w http.ResponseWriter, r *http.Request) {
	var req diaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, mdparse.ParseDiary(req.Document, normalize.DefaultSchemaModes()))
}

// renderHTML converts a markdown digest to HTML for web consumers.
func renderHTML(md string) string {
	if md == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
