package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	picaservices "github.com/hseworks/picatrack/modules/pica/services"
	"github.com/hseworks/picatrack/pkg/serrors"
)

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

// writeError maps the core's error taxonomy onto HTTP statuses. Cross-tenant
// access surfaces as the same 404 as a missing record.
func writeError(w http.ResponseWriter, err error) {
	var validationErrs serrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		writeJSON(w, http.StatusBadRequest, apiError{
			Code:    "VALIDATION_FAILED",
			Message: validationErrs.Error(),
			Fields:  validationErrs.Fields(),
		})
		return
	}

	switch {
	case errors.Is(err, picaservices.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, apiError{Code: "AUTHZ_UNAUTHENTICATED", Message: "authentication required"})
	case errors.Is(err, picaservices.ErrForbidden):
		writeJSON(w, http.StatusForbidden, apiError{Code: "AUTHZ_FORBIDDEN", Message: "permission denied"})
	case errors.Is(err, pica.ErrNotFound):
		writeJSON(w, http.StatusNotFound, apiError{Code: "PICA_NOT_FOUND", Message: "pica not found"})
	case errors.Is(err, pica.ErrDuplicateBusinessKey):
		writeJSON(w, http.StatusConflict, apiError{Code: "PICA_DUPLICATE_KEY", Message: "business key already in use"})
	default:
		writeJSON(w, http.StatusInternalServerError, apiError{Code: "PICA_INTERNAL", Message: "internal error"})
	}
}
