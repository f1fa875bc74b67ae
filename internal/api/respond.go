package api

import (
	"encoding/json"
	"log"
	"net/http"

	"spendscope/internal/errors"
)

// errorBody is the JSON error envelope every endpoint shares.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] failed to encode response: %v", err)
	}
}

// writeError maps application error codes onto HTTP statuses. Unknown
// sessions are a client addressing mistake, unreadable files and bad input
// are client data mistakes, everything else is a server fault.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeUnknownSession, errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeUnreadableFile, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeExternalService:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Printf("[api] internal error: %v", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}
