package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
)

type errorResponse struct {
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

// writeError maps domain errors to status codes. Anything unknown is a
// storage or internal failure.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, log, http.StatusUnprocessableEntity, errorResponse{Errors: verr.Fields})
	case errors.Is(err, model.ErrBookmarkNotFound), errors.Is(err, model.ErrFolderNotFound):
		writeJSON(w, log, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrFolderCycle):
		writeJSON(w, log, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		log.Error("request failed", logger.Error(err))
		writeJSON(w, log, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decode(w http.ResponseWriter, r *http.Request, log logger.Logger, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
