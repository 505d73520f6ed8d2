package handlers

import (
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/credencelab/credence/internal/service"
)

type GraphHandler struct {
	svc *service.GraphService
}

func NewGraphHandler(svc *service.GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

func docAndNode(r *http.Request) (uuid.UUID, string, bool) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, "", false
	}
	return docID, chi.URLParam(r, "nodeID"), true
}

func (h *GraphHandler) Node(w http.ResponseWriter, r *http.Request) {
	docID, nodeID, ok := docAndNode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	node, err := h.svc.Node(r.Context(), docID, nodeID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (h *GraphHandler) Ancestors(w http.ResponseWriter, r *http.Request) {
	docID, nodeID, ok := docAndNode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	ids, err := h.svc.Ancestors(r.Context(), docID, nodeID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ancestors": ids})
}

func (h *GraphHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	docID, nodeID, ok := docAndNode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	ids, err := h.svc.Descendants(r.Context(), docID, nodeID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"descendants": ids})
}

// Subgraph extracts a depth-bounded neighborhood. A missing depth
// parameter means unbounded in that direction.
func (h *GraphHandler) Subgraph(w http.ResponseWriter, r *http.Request) {
	docID, nodeID, ok := docAndNode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	depthUp, err := depthParam(r, "depth_up")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid depth_up")
		return
	}
	depthDown, err := depthParam(r, "depth_down")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid depth_down")
		return
	}

	sub, err := h.svc.Subgraph(r.Context(), docID, nodeID, depthUp, depthDown)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	doc := sub.Document()
	writeJSON(w, http.StatusOK, map[string]any{
		"claims": doc.Claims,
		"links":  doc.Links,
	})
}

func depthParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return math.MaxInt, nil
	}
	return strconv.Atoi(raw)
}

func (h *GraphHandler) Stats(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	stats, err := h.svc.Stats(r.Context(), docID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *GraphHandler) Leaves(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	ids, err := h.svc.Leaves(r.Context(), docID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaves": ids})
}

func (h *GraphHandler) Roots(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	ids, err := h.svc.Roots(r.Context(), docID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roots": ids})
}

func (h *GraphHandler) Critique(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	minSupporters := 0
	if raw := r.URL.Query().Get("min_supporters"); raw != "" {
		if minSupporters, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid min_supporters")
			return
		}
	}

	critique, err := h.svc.Critique(r.Context(), docID, minSupporters)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, critique)
}

// Grounding measures source-text coverage. The source document travels in
// the request body since it is not stored at ingestion.
func (h *GraphHandler) Grounding(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	minGap := 0
	if raw := r.URL.Query().Get("min_gap"); raw != "" {
		if minGap, err = strconv.Atoi(raw); err != nil || minGap < 0 {
			writeError(w, http.StatusBadRequest, "invalid min_gap")
			return
		}
	}

	source, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read source text")
		return
	}
	if len(source) == 0 {
		writeError(w, http.StatusBadRequest, "source text required")
		return
	}

	grounding, err := h.svc.Grounding(r.Context(), docID, string(source), minGap)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grounding)
}

// Paths lists routes from this node to the node named by the `to` query
// parameter. `support_only=true` excludes routes through undermining links.
func (h *GraphHandler) Paths(w http.ResponseWriter, r *http.Request) {
	docID, nodeID, ok := docAndNode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	to := r.URL.Query().Get("to")
	if to == "" {
		writeError(w, http.StatusBadRequest, "to parameter required")
		return
	}
	supportOnly := r.URL.Query().Get("support_only") == "true"

	paths, err := h.svc.Paths(r.Context(), docID, nodeID, to, supportOnly)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paths": paths})
}

// Export renders the document in the requested format.
func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "dot"
	}

	content, contentType, err := h.svc.Export(r.Context(), docID, format)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}
