// Package server exposes the chart HTTP API: bar history for K-line
// clients, symbol search, analysis results and the rendered chart page.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/cache"
	"FuturesSentinel/internal/collector"
	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/metrics"
)

// Config holds the server settings.
type Config struct {
	Addr         string
	Production   bool
	AllowOrigins []string
	// Symbols are listed first by /api/symbols.
	Symbols []string
	// HistoryDays is the look-back of /api/history when the request has no
	// days parameter.
	HistoryDays int
}

// Server is the chart HTTP server.
type Server struct {
	router    *gin.Engine
	config    Config
	collector *collector.Collector
	analyzer  *analysis.Analyzer
	cache     cache.Store
}

// NewServer creates the server and its routes. store may be nil.
func NewServer(config Config, col *collector.Collector, a *analysis.Analyzer, store cache.Store) *Server {
	if config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.HistoryDays <= 0 {
		config.HistoryDays = 30
	}

	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(config.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = config.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	s := &Server{
		router:    router,
		config:    config,
		collector: col,
		analyzer:  a,
		cache:     store,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	api.GET("/symbols", s.handleSymbols)
	api.GET("/history", s.handleHistory)
	api.GET("/analysis/:symbol", s.handleAnalysis)

	s.router.GET("/chart/:symbol", s.handleChart)
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Get().Infow("chart server listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Get().Info("chart server stopped")
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log := logger.Get().Named("http")
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Errorw("request failed", fields...)
			return
		}
		log.Debugw("request", fields...)
	}
}

// apiError writes the {"error", "code"} body used by every endpoint.
func apiError(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		logger.Get().Errorw("api error", "path", c.Request.URL.Path, "error", msg)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": status})
}
