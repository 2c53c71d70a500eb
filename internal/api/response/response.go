package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arcagent/arcagent/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// Items wraps a list.
type Items struct {
	Items any `json:"items"`
}

// Delivered is the body of signal endpoints. Delivered is false when no
// instance was waiting for the signal.
type Delivered struct {
	Delivered  bool   `json:"delivered"`
	WorkflowID string `json:"workflow_id,omitempty"`
}

// WriteServiceError maps router errors onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNotRegistered):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNothingPending):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// WriteSignalResult writes the outcome of a signal. A missing instance is a
// normal answer, not an error.
func WriteSignalResult(w http.ResponseWriter, wfID string, err error) {
	if errors.Is(err, core.ErrNothingPending) {
		WriteJSON(w, http.StatusOK, Delivered{Delivered: false, WorkflowID: wfID})
		return
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, Delivered{Delivered: true, WorkflowID: wfID})
}
