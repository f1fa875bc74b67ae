package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"spendscope/domain/core"
	"spendscope/internal/errors"
)

func sessionIDParam(r *http.Request) (core.SessionID, error) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	return id, nil
}

// limitParam reads ?limit=; zero means no limit.
func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	if limit, err := strconv.Atoi(raw); err == nil && limit >= 0 {
		return limit
	}
	return fallback
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.analytics.Summary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleByCommodity(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	commodities, err := s.analytics.ByCommodity(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commodities)
}

func (s *Server) handleTopSuppliers(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	suppliers, err := s.analytics.TopSuppliers(r.Context(), id, limitParam(r, 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (s *Server) handleTopProjects(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	projects, err := s.analytics.TopProjects(r.Context(), id, limitParam(r, 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleOpportunityMatrix(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	matrix, err := s.analytics.OpportunityMatrix(r.Context(), id, r.URL.Query().Get("commodity"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matrix)
}

func (s *Server) handleConcentration(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	concentration, err := s.analytics.Concentration(r.Context(), id, r.URL.Query().Get("commodity"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, concentration)
}

func (s *Server) handleCommodityKPI(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	commodity := r.URL.Query().Get("commodity")
	if commodity == "" {
		writeError(w, errors.InvalidInput("commodity query parameter is required"))
		return
	}
	summary, err := s.analytics.CommoditySummary(r.Context(), id, commodity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCommodityTopSuppliers(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	commodity := r.URL.Query().Get("commodity")
	if commodity == "" {
		writeError(w, errors.InvalidInput("commodity query parameter is required"))
		return
	}
	suppliers, err := s.analytics.CommodityTopSuppliers(r.Context(), id, commodity, limitParam(r, 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (s *Server) handleSupplierTopPNs(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	supplier := r.URL.Query().Get("supplier")
	if supplier == "" {
		writeError(w, errors.InvalidInput("supplier query parameter is required"))
		return
	}
	projects, err := s.analytics.SupplierTopPNs(r.Context(), id, supplier, limitParam(r, 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	workbook, err := s.analytics.ExportWorkbook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analytics_%s.xlsx"`, id))
	if err := workbook.Write(w); err != nil {
		// Headers are already sent; nothing to do but log.
		log.Printf("[api] export write failed: %v", err)
	}
}
