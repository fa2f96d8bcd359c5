package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/content-pipeline/internal/ingestion"
)

// CreateSourceRequest represents the request to create a source
type CreateSourceRequest struct {
	Title      string `json:"title" validate:"required"`
	SourceType string `json:"source_type" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// IngestSourceRequest represents the request to create a source from raw HTML
type IngestSourceRequest struct {
	HTML       string `json:"html" validate:"required"`
	Title      string `json:"title,omitempty"`
	SourceType string `json:"source_type,omitempty"`
}

// handleCreateSource creates a new immutable source record
func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req CreateSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := validator.New().Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "title, source_type, content are required")
		return
	}

	source, err := s.store.CreateSource(r.Context(), req.Title, req.SourceType, req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, source)
}

// handleListSources lists all sources, newest first
func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.ListSources(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sources)
}

// handleIngestSource extracts text from raw HTML and stores it as a source
func (s *Server) handleIngestSource(w http.ResponseWriter, r *http.Request) {
	var req IngestSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := validator.New().Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "html is required")
		return
	}

	extracted, err := ingestion.ExtractHTML(req.HTML)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	title := req.Title
	if title == "" {
		title = extracted.Title
	}
	if title == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required when the page has none")
		return
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = "webpage"
	}

	source, err := s.store.CreateSource(r.Context(), title, sourceType, extracted.Content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, source)
}
