// Package server exposes the enrichment pipeline over HTTP for the catalog
// UI: settings, provider status, single-item generation, CSV processing and
// accuracy reports.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vinoteca/enrich-cli/internal/accuracy"
	"github.com/vinoteca/enrich-cli/internal/config"
	"github.com/vinoteca/enrich-cli/internal/enrich"
	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/provider"
	"github.com/vinoteca/enrich-cli/internal/settings"
	"github.com/vinoteca/enrich-cli/internal/store"
)

// Server holds the HTTP surface's dependencies.
type Server struct {
	cfg      *config.Config
	store    store.Store
	settings *settings.FileStore
	files    *enrich.FileStore
}

// New wires the HTTP surface.
func New(cfg *config.Config, st store.Store, settingsStore *settings.FileStore, files *enrich.FileStore) *Server {
	return &Server{cfg: cfg, store: st, settings: settingsStore, files: files}
}

// Router builds the chi router with CORS enabled for the catalog UI.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", s.handleGetSettings)
		r.Patch("/settings", s.handlePatchSettings)
		r.Get("/settings/check-api-key", s.handleCheckAPIKey)
		r.Get("/reference/ai-providers", s.handleProviders)

		r.Post("/wines/attributes/generate", s.handleGenerate)
		r.Post("/wines/attributes/process-csv", s.handleProcessCSV)
		r.Get("/wines/files/{session}", s.handleDownload)

		r.Get("/executions", s.handleListExecutions)
		r.Get("/executions/{id}/accuracy", s.handleAccuracy)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Load())
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var changes settings.Partial
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if changes.Confidence != nil && (*changes.Confidence < 0 || *changes.Confidence > 100) {
		writeError(w, http.StatusBadRequest, "confidence must be between 0 and 100")
		return
	}

	updated, err := s.settings.Update(changes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCheckAPIKey(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("provider")
	if id == "" {
		id = s.settings.Load().AIProvider
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"provider": id,
		"hasKey":   provider.HasKey(s.cfg, id),
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, provider.IDs())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	proc, err := s.newProcessor()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	if req.ID == 0 {
		req.ID = 1
	}
	record := proc.Preview(r.Context(), model.WineInput{ID: req.ID, Title: req.Title})
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleProcessCSV(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	proc, err := s.newProcessor()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	result, err := proc.ProcessCSV(r.Context(), raw)
	if err != nil {
		if eris.Is(err, enrich.ErrValidation) {
			writeError(w, http.StatusBadRequest, eris.Cause(err).Error())
			return
		}
		zap.L().Error("server: process csv", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	path, err := s.files.OutputPath(session)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="enriched.csv"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	execs, err := s.store.ListExecutions(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list executions")
		return
	}
	writeJSON(w, http.StatusOK, execs)
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid execution id")
		return
	}

	report, err := accuracy.NewAnalyzer(s.store).AnalyzeExecution(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report)
	case eris.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "execution not found")
	case eris.Is(err, accuracy.ErrNotAnalyzable):
		writeError(w, http.StatusConflict, "only successful executions can be analyzed")
	default:
		zap.L().Error("server: accuracy", zap.Int64("execution_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

// newProcessor resolves the current provider choice into a fresh processor.
// Resolved per request so settings changes take effect immediately.
func (s *Server) newProcessor() (*enrich.Processor, error) {
	gen, err := provider.Select(s.cfg, s.settings.Load())
	if err != nil {
		return nil, err
	}
	return enrich.NewProcessor(s.store, gen, s.files), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
