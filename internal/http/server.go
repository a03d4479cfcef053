package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"youtubetitle/internal/core"
	"youtubetitle/internal/flood"
)

const maxRequestBytes = 1 << 20

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

// CleanRequest is the body of POST /api/v1/clean. Only Path is required.
type CleanRequest struct {
	Path   string `json:"path"`
	Title  string `json:"title,omitempty"`
	Album  string `json:"album,omitempty"`
	Artist string `json:"artist,omitempty"`
}

type CleanResponse struct {
	Item    core.Item    `json:"item"`
	Changes core.Changes `json:"changes"`
}

func NewServer(
	config *core.ServerConfig,
	fixer *core.TitleFixer,
	metrics *Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	limiter := flood.New(config.RequestsPerMinute)
	mux := setupRoutes(fixer, metrics, limiter, gatherer, logger)

	return &Server{
		config:  config,
		logger:  logger,
		server:  createHTTPServer(config, mux),
		metrics: metrics,
	}
}

func createHTTPServer(config *core.ServerConfig, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func setupRoutes(
	fixer *core.TitleFixer,
	metrics *Metrics,
	limiter *flood.Limiter,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "youtubetitle"}, logger)
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "service": "youtubetitle"}, logger)
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/v1/clean", cleanHandler(fixer, metrics, limiter, logger))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(indexPage)); err != nil {
			logger.Debug("Failed to write index page", zap.Error(err))
		}
	})

	return mux
}

func cleanHandler(
	fixer *core.TitleFixer,
	metrics *Metrics,
	limiter *flood.Limiter,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if client := clientAddr(r); !limiter.Allow(client) {
			metrics.RecordError("rate_limited")
			logger.Debug("Rate limited client", zap.String("client", client))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"}, logger)
			return
		}

		var req CleanRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err := decoder.Decode(&req); err != nil {
			metrics.RecordError("bad_json")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"}, logger)
			return
		}
		if req.Path == "" {
			metrics.RecordError("missing_path")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"}, logger)
			return
		}

		item := core.Item{Path: req.Path, Title: req.Title, Album: req.Album, Artist: req.Artist}
		changes := fixer.ApplyItem(&item)
		metrics.RecordProcessingTime(time.Since(start))

		writeJSON(w, http.StatusOK, CleanResponse{Item: item, Changes: changes}, logger)
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug("Failed to write response", zap.Error(err))
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>youtubetitle</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
    </style>
</head>
<body>
    <h1>youtubetitle</h1>
    <p>Cleans titles of music downloaded from video sites and infers album and artist from the path.</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><code>POST /api/v1/clean</code> - clean one item</div>
    <div class="endpoint"><a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint"><a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint"><a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`
