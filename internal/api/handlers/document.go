package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/credencelab/credence/internal/service"
)

const maxDocumentBytes = 4 << 20

type DocumentHandler struct {
	svc *service.DocumentService
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Create ingests a YAML argument document. The document name comes from
// the X-Document-Name header or the name query parameter.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := r.Header.Get("X-Document-Name")
	if name == "" {
		name = r.URL.Query().Get("name")
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxDocumentBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	stored, err := h.svc.Ingest(r.Context(), service.IngestInput{
		Name:    name,
		Content: body,
	})
	if err != nil {
		writeGraphError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

func (h *DocumentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	stored, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	docs, err := h.svc.List(r.Context(), limit)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeGraphError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Validate parses and validates a document without persisting it.
func (h *DocumentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxDocumentBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	if err := service.ValidateDocument(body); err != nil {
		writeGraphError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "valid"})
}
