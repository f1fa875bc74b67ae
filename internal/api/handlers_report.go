package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"spendscope/app"
	"spendscope/domain/core"
	"spendscope/internal/errors"
)

type reportPayload struct {
	SessionID   string `json:"session_id"`
	Instruction string `json:"instruction"`
}

// handleGenerateReport streams the narrative as server-sent events: one data
// event per model chunk, then a final "done" event carrying the rendered
// HTML of the whole report.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	if !s.report.Enabled() {
		writeError(w, errors.New(errors.CodeExternalService, "report generation is not configured"))
		return
	}

	var payload reportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.InvalidInput("invalid JSON body"))
		return
	}
	id, err := core.ParseSessionID(payload.SessionID)
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errors.InternalError("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var report strings.Builder
	streamErr := s.report.GenerateReport(r.Context(), id, payload.Instruction, func(chunk string) error {
		report.WriteString(chunk)
		if err := writeSSE(w, "chunk", chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if streamErr != nil {
		// The status line may already be out; report the failure in-band.
		writeSSE(w, "error", streamErr.Error())
		flusher.Flush()
		return
	}

	writeSSE(w, "done", app.RenderReportHTML(report.String()))
	flusher.Flush()
}

// writeSSE emits one event with a JSON-encoded payload, which keeps
// newlines inside chunks intact on the wire.
func writeSSE(w http.ResponseWriter, event, data string) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, encoded)
	return err
}
