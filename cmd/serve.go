package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samtetlow/nof1-sub000/internal/matcher"
	"github.com/samtetlow/nof1-sub000/internal/model"
	"github.com/samtetlow/nof1-sub000/internal/parser"
	"github.com/samtetlow/nof1-sub000/internal/pipeline"
	"github.com/samtetlow/nof1-sub000/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		weights, err := loadWeights()
		if err != nil {
			return err
		}
		pipe, err := buildPipelineWith(weights)
		if err != nil {
			return err
		}
		if weights == nil {
			weights = matcher.DefaultWeights()
		}

		s := &server{st: st, pipe: pipe, weights: weights}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: s.routes(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// server holds the shared handler state. The pipeline is rebuilt when
// weights change, guarded by mu.
type server struct {
	st store.Store

	mu      sync.RWMutex
	pipe    *pipeline.Pipeline
	weights matcher.Weights
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", s.handleParse)

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", s.handleListCompanies)
			r.Post("/", s.handleSaveCompany)
			r.Get("/{id}", s.handleGetCompany)
			r.Delete("/{id}", s.handleDeleteCompany)
		})

		r.Route("/solicitations", func(r chi.Router) {
			r.Get("/", s.handleListSolicitations)
			r.Post("/", s.handleSaveSolicitation)
			r.Get("/{id}", s.handleGetSolicitation)
			r.Post("/{id}/match", s.handleMatch)
			r.Post("/{id}/run", s.handleRun)
			r.Get("/{id}/outcomes", s.handleOutcomes)
		})

		r.Get("/weights", s.handleGetWeights)
		r.Put("/weights", s.handlePutWeights)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	zap.L().Error("store operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Text string `json:"text"`
		Save bool   `json:"save"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	sol := parser.Parse(req.Text)
	if req.ID != "" {
		sol.ID = req.ID
	}

	if req.Save {
		if err := s.st.SaveSolicitation(r.Context(), sol); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, sol)
}

func (s *server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.st.ListCompanies(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *server) handleSaveCompany(w http.ResponseWriter, r *http.Request) {
	var c model.Company
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.st.SaveCompany(r.Context(), c); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.st.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := s.st.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListSolicitations(w http.ResponseWriter, r *http.Request) {
	sols, err := s.st.ListSolicitations(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sols)
}

func (s *server) handleSaveSolicitation(w http.ResponseWriter, r *http.Request) {
	var sol model.Solicitation
	if err := json.NewDecoder(r.Body).Decode(&sol); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sol.ID == "" {
		sol.ID = uuid.NewString()
	}
	if err := s.st.SaveSolicitation(r.Context(), sol); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sol)
}

func (s *server) handleGetSolicitation(w http.ResponseWriter, r *http.Request) {
	sol, err := s.st.GetSolicitation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sol)
}

func (s *server) handleMatch(w http.ResponseWriter, r *http.Request) {
	sol, err := s.st.GetSolicitation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	companies, err := s.st.ListCompanies(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.mu.RLock()
	pipe := s.pipe
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, pipe.Match(*sol, companies))
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	sol, err := s.st.GetSolicitation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	companies, err := s.st.ListCompanies(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.mu.RLock()
	pipe := s.pipe
	s.mu.RUnlock()

	outcomes, err := pipe.Run(r.Context(), *sol, companies)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.st.SaveOutcomes(r.Context(), sol.ID, outcomes); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomes)
}

func (s *server) handleOutcomes(w http.ResponseWriter, r *http.Request) {
	outcomes, err := s.st.ListOutcomes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomes)
}

func (s *server) handleGetWeights(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.weights)
}

// handlePutWeights validates the submitted weights and swaps in a pipeline
// built around them. The change lasts for the server's lifetime only.
func (s *server) handlePutWeights(w http.ResponseWriter, r *http.Request) {
	var weights matcher.Weights
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pipe, err := buildPipelineWith(weights)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	s.pipe = pipe
	s.weights = weights
	s.mu.Unlock()

	zap.L().Info("match weights updated")
	writeJSON(w, http.StatusOK, weights)
}
