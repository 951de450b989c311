// Package api exposes a source fetcher over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sourceScope/internal/explorer"
	"sourceScope/internal/fetcher"
)

// ServerOption configures the API server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
	logger      *zap.Logger
	network     string
}

// WithMiddlewares adds middleware to the server.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *serverConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithNetwork sets the network name reported by the health endpoint.
func WithNetwork(name string) ServerOption {
	return func(cfg *serverConfig) {
		cfg.network = name
	}
}

type handler struct {
	fetcher fetcher.Fetcher
	network string
	logger  *zap.Logger
}

// NewServer creates the HTTP router serving sources from f.
func NewServer(f fetcher.Fetcher, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	h := &handler{fetcher: f, network: cfg.network, logger: cfg.logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/sources/{address}", h.getSources)
	})

	return r
}

// LoggingMiddleware logs every request at info level.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, map[string]string{
		"status":  "ok",
		"network": h.network,
		"fetcher": h.fetcher.Name(),
	}, http.StatusOK)
}

func (h *handler) getSources(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	src, err := h.fetcher.FetchSourcesForAddress(r.Context(), address)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Warn("fetch sources failed", zap.String("address", address), zap.Error(err))
		}
		writeErrorResponse(w, err.Error(), status)
		return
	}
	if src == nil {
		writeErrorResponse(w, "source not verified", http.StatusNotFound)
		return
	}

	writeJSONResponse(w, src, http.StatusOK)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, fetcher.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, explorer.ErrNetworkUnsupported):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSONResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	writeJSONResponse(w, map[string]string{"error": message}, statusCode)
}
