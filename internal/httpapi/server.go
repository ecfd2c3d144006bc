// Package httpapi serves Prompt Mirror over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HendryAvila/prompt-mirror/internal/mirror"
	"github.com/HendryAvila/prompt-mirror/internal/presets"
)

// Analyzer selects the result shown for a prompt.
type Analyzer interface {
	Analyze(ctx context.Context, text string) mirror.Outcome
}

// PresetLister lists the example prompts.
type PresetLister interface {
	List() ([]presets.Preset, error)
}

// Config holds the HTTP listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Deps are the services the HTTP surface is built from. Presets and
// Gatherer are optional.
type Deps struct {
	Analyzer      Analyzer
	Presets       PresetLister
	Gatherer      prometheus.Gatherer
	MaxInputChars int
	Version       string
	Logger        *zap.Logger
}

// Server is the HTTP surface.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	deps       Deps
	logger     *zap.Logger
	startTime  time.Time
}

// New builds the engine and registers all routes.
func New(cfg Config, deps Deps) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(AccessLog(logger))
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		deps:      deps,
		logger:    logger,
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	if s.deps.Gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := s.engine.Group("/api")
	api.Use(JSONOnly())
	{
		api.GET("/presets", s.handleListPresets)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/download", s.handleDownload)
	}
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http: %w", err)
		}
		<-errCh
		return nil
	}
}
