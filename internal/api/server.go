// Package api exposes the dashboard's HTTP surface: upload and mapping
// confirmation, per-session analytics views, cost-variance trees, and the
// streamed narrative report.
package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spendscope/app"
)

// Server is the HTTP application.
type Server struct {
	router       *chi.Mux
	upload       *app.UploadService
	analytics    *app.AnalyticsService
	cost         *app.CostVarianceService
	report       *app.ReportService
	maxFileBytes int64
}

// Config holds server wiring.
type Config struct {
	Upload       *app.UploadService
	Analytics    *app.AnalyticsService
	Cost         *app.CostVarianceService
	Report       *app.ReportService
	MaxFileBytes int64
}

// NewServer builds the router with all routes registered.
func NewServer(config Config) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		upload:       config.Upload,
		analytics:    config.Analytics,
		cost:         config.Cost,
		report:       config.Report,
		maxFileBytes: config.MaxFileBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	// Upload and ingestion
	s.router.Post("/api/upload", s.handleUpload)
	s.router.Post("/api/data/confirm", s.handleConfirm)
	s.router.Get("/api/data/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/data/records/{id}", s.handleGetRecords)

	// Analytics views
	s.router.Get("/api/analytics/summary/{id}", s.handleSummary)
	s.router.Get("/api/analytics/commodity/{id}", s.handleByCommodity)
	s.router.Get("/api/analytics/top/suppliers/{id}", s.handleTopSuppliers)
	s.router.Get("/api/analytics/top/projects/{id}", s.handleTopProjects)
	s.router.Get("/api/analytics/opportunity-matrix/{id}", s.handleOpportunityMatrix)
	s.router.Get("/api/analytics/concentration/{id}", s.handleConcentration)
	s.router.Get("/api/analytics/commodity-kpi/{id}", s.handleCommodityKPI)
	s.router.Get("/api/analytics/commodity-top-suppliers/{id}", s.handleCommodityTopSuppliers)
	s.router.Get("/api/analytics/supplier-top-pns/{id}", s.handleSupplierTopPNs)
	s.router.Get("/api/analytics/export/{id}", s.handleExport)

	// Cost variance
	s.router.Post("/api/cost-variance/upload", s.handleCostUpload)
	s.router.Get("/api/cost-variance/tree/{id}", s.handleCostTree)
	s.router.Get("/api/cost-variance/sessions", s.handleCostSessions)
	s.router.Get("/api/cost-variance/session/{id}", s.handleCostSession)
	s.router.Delete("/api/cost-variance/session/{id}", s.handleCostDelete)

	// Narrative report
	s.router.Post("/api/llm/generate-report", s.handleGenerateReport)
}

// Handler exposes the router for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server on the given port.
func (s *Server) Start(port string) error {
	addr := ":" + port
	log.Printf("Starting spend analytics server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}
