package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/credencelab/credence/internal/service"
)

type CPTHandler struct {
	svc *service.CPTService
}

func NewCPTHandler(svc *service.CPTService) *CPTHandler {
	return &CPTHandler{svc: svc}
}

// Table materializes the CPT for a single node.
func (h *CPTHandler) Table(w http.ResponseWriter, r *http.Request) {
	docID, nodeID, ok := docAndNode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	table, err := h.svc.Table(r.Context(), docID, nodeID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

type probRequest struct {
	Assign []bool `json:"assign"`
}

// Prob evaluates one row of a node's distribution. The assignment order
// follows the node's canonical parent order.
func (h *CPTHandler) Prob(w http.ResponseWriter, r *http.Request) {
	docID, nodeID, ok := docAndNode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	var req probRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.Prob(r.Context(), docID, nodeID, req.Assign)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"p": p})
}

// GenerateAll materializes CPTs for every node in the document.
func (h *CPTHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	tables, err := h.svc.GenerateAll(r.Context(), docID)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}
