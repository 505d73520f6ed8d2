package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/credencelab/credence/internal/domain"
	"github.com/credencelab/credence/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGraphError maps the document error taxonomy and service
// sentinels to HTTP statuses. Malformed documents and broken invariants
// are the client's fault, everything else is ours.
func writeGraphError(w http.ResponseWriter, err error) {
	var (
		refErr    *domain.ReferenceError
		schemaErr *domain.SchemaError
		cycleErr  *domain.CycleError
		valErr    *domain.ValidationError
	)
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, service.ErrNodeNotFound):
		writeError(w, http.StatusNotFound, "node not found")
	case errors.Is(err, service.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDocumentEmpty),
		errors.Is(err, service.ErrNameMissing):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &refErr),
		errors.As(err, &schemaErr),
		errors.As(err, &cycleErr),
		errors.As(err, &valErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": err.Error(),
			"kind":  errorKind(err),
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func errorKind(err error) string {
	var (
		refErr    *domain.ReferenceError
		schemaErr *domain.SchemaError
		cycleErr  *domain.CycleError
		valErr    *domain.ValidationError
	)
	switch {
	case errors.As(err, &refErr):
		return "reference"
	case errors.As(err, &schemaErr):
		return "schema"
	case errors.As(err, &cycleErr):
		return "cycle"
	case errors.As(err, &valErr):
		return "validation"
	}
	return "unknown"
}
