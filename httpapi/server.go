// Package httpapi exposes control.Controller's status and
// reconfiguration port over HTTP, grounded on
// wrale-fleet/user/api/server's *mux.Router + versioned-subrouter shape.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/pevers/coldbox/config"
	"github.com/pevers/coldbox/control"
)

// Config holds server configuration.
type Config struct {
	Addr string
}

// Server is a thin adapter: it marshals control.FridgeStatus and calls
// control.Controller.ApplyConfig, carrying none of the control logic
// itself.
type Server struct {
	config Config
	srv    *http.Server
	router *mux.Router
	logger zerolog.Logger

	controller *control.Controller
	cfgStore   *config.Store
}

// New constructs a Server bound to c and, on a successful reconfiguration,
// persisting the new Configuration via cfgStore.
func New(cfg Config, c *control.Controller, cfgStore *config.Store, logger zerolog.Logger) *Server {
	s := &Server{
		config:     cfg,
		router:     mux.NewRouter(),
		controller: c,
		cfgStore:   cfgStore,
		logger:     logger,
	}
	s.setupRoutes()

	s.srv = &http.Server{
		Handler:      s.router,
		Addr:         cfg.Addr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("starting HTTP API")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("httpapi: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("httpapi: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.loggingMiddleware)

	api.HandleFunc("/status", s.handleGetStatus).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handlePutConfig).Methods(http.MethodPut)
	api.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var next control.Configuration
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if err := s.controller.ApplyConfig(next); err != nil {
		if errors.Is(err, control.ErrConfigurationRejected) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.cfgStore != nil {
		if err := s.cfgStore.Save(next); err != nil {
			s.logger.Warn().Err(err).Msg("applied configuration but failed to persist it to disk")
		}
	}

	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.controller.Ready() {
		writeError(w, http.StatusServiceUnavailable, "control loop has not published a status snapshot yet")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
