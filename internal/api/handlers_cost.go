package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spendscope/domain/core"
	"spendscope/domain/costtree"
	"spendscope/internal/errors"
)

func costSessionIDParam(r *http.Request) (core.CostSessionID, error) {
	id, err := core.ParseCostSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	return id, nil
}

func (s *Server) handleCostUpload(w http.ResponseWriter, r *http.Request) {
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

	result, err := s.cost.Upload(r.Context(), content, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCostTree(w http.ResponseWriter, r *http.Request) {
	id, err := costSessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	view := costtree.ViewByProcess
	if raw := r.URL.Query().Get("view"); raw != "" {
		parsed, ok := costtree.ParseView(raw)
		if !ok {
			writeError(w, errors.InvalidInput("view must be by_process or by_type"))
			return
		}
		view = parsed
	}
	result, err := s.cost.Tree(r.Context(), id, view)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCostSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.cost.ListSessions(r.Context(), limitParam(r, 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCostSession(w http.ResponseWriter, r *http.Request) {
	id, err := costSessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := s.cost.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := costSessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	deleted, err := s.cost.DeleteSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, errors.UnknownSession(id.String()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
