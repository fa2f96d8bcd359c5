package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/content-pipeline/internal/db"
)

// CreateDocumentRequest represents the request to create a document
type CreateDocumentRequest struct {
	Title    string `json:"title" validate:"required"`
	SourceID string `json:"source_id,omitempty"`
}

// TransitionResponse is returned by the generate and publish endpoints
type TransitionResponse struct {
	Document *db.Document `json:"document"`
	Run      *db.Run      `json:"run"`
}

// handleCreateDocument creates a new draft document, optionally linked to
// a source
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := validator.New().Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	var sourceID *uuid.UUID
	if req.SourceID != "" {
		id, err := uuid.Parse(req.SourceID)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid source_id")
			return
		}
		sourceID = &id
	}

	doc, err := s.store.CreateDocument(r.Context(), req.Title, sourceID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, doc)
}

// handleListDocuments lists all documents, newest first
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, docs)
}

// handleGetDocument retrieves a document by ID
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := s.pathUUID(w, r, "id", "document")
	if !ok {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), docID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "Document not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, doc)
}

// handleGenerateDocument applies the generate transition
func (s *Server) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := s.pathUUID(w, r, "id", "document")
	if !ok {
		return
	}

	doc, run, err := s.engine.Generate(r.Context(), docID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, TransitionResponse{Document: doc, Run: run})
}

// handlePublishDocument applies the publish transition
func (s *Server) handlePublishDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := s.pathUUID(w, r, "id", "document")
	if !ok {
		return
	}

	doc, run, err := s.engine.Publish(r.Context(), docID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, TransitionResponse{Document: doc, Run: run})
}

// handleListDocumentRuns lists the audit trail for a document
func (s *Server) handleListDocumentRuns(w http.ResponseWriter, r *http.Request) {
	docID, ok := s.pathUUID(w, r, "id", "document")
	if !ok {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), docID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "Document not found")
		return
	}

	runs, err := s.store.ListRunsByDocument(r.Context(), docID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// pathUUID parses a UUID path parameter, writing a 400 response on failure
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, param, entity string) (uuid.UUID, bool) {
	idStr := r.PathValue(param)
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}
