package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/5satoshi/webapp-sub000/internal/aggregate"
	"github.com/5satoshi/webapp-sub000/internal/api/middleware"
	"github.com/5satoshi/webapp-sub000/internal/api/rest"
	"github.com/5satoshi/webapp-sub000/internal/insights"
	"github.com/5satoshi/webapp-sub000/internal/logger"
	"github.com/5satoshi/webapp-sub000/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug               bool
	Host                string
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	NodeID              string
	RankingDefaultLimit int
	RankingMaxLimit     int
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	generator  insights.Generator
	httpServer *http.Server
}

// New creates a new API server. generator may be nil when no narrative
// backend is configured.
func New(cfg Config, store store.Store, generator insights.Generator) *Server {
	return &Server{
		config:    cfg,
		store:     store,
		generator: generator,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Wire the aggregation layer onto the injected store handle
	ranking := aggregate.NewRanking(s.store)
	timeseries := aggregate.NewTimeseries(s.store)
	channels := aggregate.NewChannels(s.store, s.config.NodeID)
	insightsSvc := insights.NewService(ranking, timeseries, channels, s.generator, s.config.NodeID)

	// Create REST handler and routes
	restHandler := rest.NewHandler(
		s.config.Debug,
		s.config.RankingDefaultLimit,
		s.config.RankingMaxLimit,
		ranking,
		timeseries,
		channels,
		insightsSvc,
	)
	rest.SetupRoutes(router, restHandler)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
