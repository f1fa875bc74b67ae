package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"spendscope/app"
	"spendscope/domain/core"
	"spendscope/domain/mapping"
	"spendscope/internal/errors"
)

// handleUpload accepts a multipart file and returns the mapping preview.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxFileBytes)
	if err := r.ParseMultipartForm(s.maxFileBytes); err != nil {
		writeError(w, errors.InvalidInput("failed to parse multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.InvalidInput("missing file field"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to read upload"))
		return
	}

	preview, err := s.upload.Preview(content, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// confirmPayload is the confirm request body. The mapping uses standard
// field names; an absent or empty field leaves the column unmapped.
type confirmPayload struct {
	FileName      string            `json:"file_name"`
	FileHash      string            `json:"file_hash"`
	ContentBase64 string            `json:"content"`
	Mapping       map[string]string `json:"mapping"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var payload confirmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.InvalidInput("invalid JSON body"))
		return
	}
	content, err := base64.StdEncoding.DecodeString(payload.ContentBase64)
	if err != nil {
		writeError(w, errors.InvalidInput("content must be base64 encoded"))
		return
	}

	mappings, err := mappingsFromPayload(payload.Mapping)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.upload.Confirm(r.Context(), app.ConfirmRequest{
		FileName: payload.FileName,
		FileHash: payload.FileHash,
		Content:  content,
		Mappings: mappings,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// mappingsFromPayload converts the header-to-field wire form into column
// mappings, rejecting unknown field names. Headers are sorted so that when
// two columns target the same field the winner is deterministic.
func mappingsFromPayload(raw map[string]string) ([]mapping.ColumnMapping, error) {
	headers := make([]string, 0, len(raw))
	for header := range raw {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	mappings := make([]mapping.ColumnMapping, 0, len(raw))
	for _, header := range headers {
		fieldName := raw[header]
		m := mapping.ColumnMapping{OriginalHeader: header}
		if fieldName != "" {
			field := mapping.Field(fieldName)
			if !field.IsValid() {
				return nil, errors.InvalidInput("unknown standard field: " + fieldName)
			}
			m.MappedField = &field
			m.IsMapped = true
			m.Confidence = 1.0
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	session, err := s.upload.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetRecords(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	records, err := s.upload.GetRecords(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
