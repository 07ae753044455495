// Package server предоставляет HTTP API сервиса планирования эвакуации:
// расчёт плана, генерация отчётов, история прогонов и служебные endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"

	"evacuation/pkg/config"
	"evacuation/pkg/logger"
	"evacuation/pkg/metrics"
)

// Server HTTP сервер сервиса
type Server struct {
	cfg  *config.Config
	http *http.Server
}

// New создаёт сервер с полным набором маршрутов
func New(cfg *config.Config, h *Handler) *Server {
	mux := http.NewServeMux()

	// API
	mux.HandleFunc("POST /api/v1/plan", h.handlePlan)
	mux.HandleFunc("GET /api/v1/report/{format}", h.handleReport)
	mux.HandleFunc("GET /api/v1/formats", h.handleFormats)
	mux.HandleFunc("GET /api/v1/runs", h.handleListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.handleGetRun)
	mux.HandleFunc("DELETE /api/v1/runs/{id}", h.handleDeleteRun)
	mux.HandleFunc("GET /api/v1/buildings/{building}/stats", h.handleBuildingStats)

	// Health endpoints (обычный HTTP для k8s probes)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/ready", handleReady)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, metrics.Handler())
	}

	handler := Recover(RequestMetrics(mux))

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:      handler,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
	}
}

// Handler возвращает корневой HTTP handler (для тестов)
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start запускает сервер и блокируется до остановки
func (s *Server) Start() error {
	logger.Log.Info("HTTP server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		// Логировать не можем - response уже начат отправляться
		return
	}
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"ready":true}`)); err != nil {
		return
	}
}
