package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gopherindex/csindex/store"
)

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, envelope{Success: true, Data: data})
}

func writeErr(w http.ResponseWriter) {
	writeJSON(w, envelope{Success: false, Data: "unknown error"})
}

// handleIndex implements POST /index. The "path" field is polymorphic: a
// string indexes one file, a list indexes all of them — there is no
// recursive re-dispatch of the outer call's own result.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path json.RawMessage `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w)
		return
	}

	var single string
	if err := json.Unmarshal(req.Path, &single); err == nil {
		if _, err := s.ctx.Index(r.Context(), single); err != nil {
			s.logger.Error("httpapi: index failed", "path", single, "error", err)
			writeErr(w)
			return
		}
		writeOK(w, true)
		return
	}

	var multi []string
	if err := json.Unmarshal(req.Path, &multi); err == nil {
		if _, err := s.ctx.IndexPaths(r.Context(), multi); err != nil {
			s.logger.Error("httpapi: index failed", "paths", multi, "error", err)
			writeErr(w)
			return
		}
		writeOK(w, true)
		return
	}

	writeErr(w)
}

type searchHit struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// handleSearch implements POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pattern    string `json:"pattern"`
		IgnoreCase bool   `json:"ignorecase"`
		PathFilter string `json:"pathfilter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w)
		return
	}

	results, err := s.ctx.Search(r.Context(), req.Pattern, store.SearchOptions{
		IgnoreCase: req.IgnoreCase,
		PathFilter: req.PathFilter,
		MaxResults: s.defaultMaxResults,
	})
	if err != nil {
		s.logger.Error("httpapi: search failed", "pattern", req.Pattern, "error", err)
		writeErr(w)
		return
	}

	hits := make([]searchHit, len(results))
	for i, res := range results {
		hits[i] = searchHit{File: res.File, Line: res.Line, Text: res.Text}
	}
	writeOK(w, hits)
}
