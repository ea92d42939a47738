// Package http exposes the REST API for assets, organizations, allotments
// and bulk imports.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"allotrack-backend/internal/config"
	"allotrack-backend/internal/importer"
	"allotrack-backend/internal/logger"
	"allotrack-backend/internal/service"
)

// Server is the HTTP front of the application.
type Server struct {
	router     *mux.Router
	server     *http.Server
	validate   *validator.Validate
	cfg        *config.Config
	allotments service.AllotmentService
	assets     service.AssetService
	orgs       service.OrganizationService
	imports    *importer.Service
}

func NewServer(cfg *config.Config, allotments service.AllotmentService, assets service.AssetService, orgs service.OrganizationService, imports *importer.Service) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		validate:   validator.New(),
		cfg:        cfg,
		allotments: allotments,
		assets:     assets,
		orgs:       orgs,
		imports:    imports,
	}
	s.routes()

	s.server = &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests, s.recoverPanics)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/imports", s.handleImportUpload).Methods(http.MethodPost)
	api.HandleFunc("/imports", s.handleListImports).Methods(http.MethodGet)
	api.HandleFunc("/imports/template", s.handleImportTemplate).Methods(http.MethodGet)
	api.HandleFunc("/imports/records", s.handleImportRecords).Methods(http.MethodPost)
	api.HandleFunc("/imports/{uploadId}", s.handleGetImport).Methods(http.MethodGet)

	api.HandleFunc("/allotments", s.handleCreateAllotment).Methods(http.MethodPost)
	api.HandleFunc("/allotments", s.handleListAllotments).Methods(http.MethodGet)
	api.HandleFunc("/allotments/{id}", s.handleGetAllotment).Methods(http.MethodGet)
	api.HandleFunc("/allotments/{id}/extend", s.handleExtendAllotment).Methods(http.MethodPost)
	api.HandleFunc("/allotments/{id}/return", s.handleReturnAllotment).Methods(http.MethodPost)

	api.HandleFunc("/assets", s.handleCreateAsset).Methods(http.MethodPost)
	api.HandleFunc("/assets", s.handleListAssets).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", s.handleGetAsset).Methods(http.MethodGet)

	api.HandleFunc("/organizations", s.handleCreateOrganization).Methods(http.MethodPost)
	api.HandleFunc("/organizations", s.handleListOrganizations).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{id}", s.handleGetOrganization).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request handled",
			"method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Handler panicked", "path", r.URL.Path, "panic", rec)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	logger.Info("HTTP server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
