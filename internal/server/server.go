package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RafalekS/MCP-Search/internal/api/middleware"
	"github.com/RafalekS/MCP-Search/internal/cache"
	"github.com/RafalekS/MCP-Search/internal/extract"
	"github.com/RafalekS/MCP-Search/internal/fetch"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/config"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/logging"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/monitoring"
	"github.com/RafalekS/MCP-Search/internal/orchestrator"
	"github.com/RafalekS/MCP-Search/internal/source"
	"github.com/RafalekS/MCP-Search/internal/validate"
)

// Server wraps the HTTP server and the search engine behind it.
type Server struct {
	router       *gin.Engine
	http         *http.Server
	catalog      *config.Catalog
	orchestrator *orchestrator.Orchestrator
	sources      *source.Client
	validator    *validate.Validator
	store        *cache.Store
	logger       *logging.Logger
	config       *config.Config
	metrics      *monitoring.Metrics
}

// New creates a server instance from configuration and a catalog file.
func New(cfg *config.Config, catalogPath string) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		logger = logging.NewDefault()
	}

	catalog, err := config.LoadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Catalog loaded",
		zap.String("path", catalogPath),
		zap.Int("sources", len(catalog.Sources())),
		zap.Int("categories", len(catalog.Categories())))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := monitoring.NewMetricsWithRegistry(registry)

	fetcher := fetch.New(fetch.Config{
		Timeout:           cfg.Fetch.Timeout,
		UserAgent:         cfg.Fetch.UserAgent,
		RetryMax:          cfg.Fetch.RetryMax,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
	}, logger.Named("fetch"), metrics)

	strategies := extract.NewRegistry(extract.Deps{
		Fetcher:       fetcher,
		Log:           logger.Named("extract"),
		Metrics:       metrics,
		MaxCandidates: cfg.Engine.MaxCandidates,
	})

	store := cache.New(cfg.Cache.TTL)
	store.OnEvict = func() { metrics.CacheEvictions.Inc() }

	sources := source.New(store, strategies, logger.Named("source"), metrics)

	orch, err := orchestrator.New(sources, orchestrator.Config{
		Workers:      cfg.Engine.Workers,
		RetryBackoff: cfg.Engine.RetryBackoff,
	}, logger.Named("orchestrator"), metrics)
	if err != nil {
		return nil, err
	}

	validator := validate.New(fetcher, strategies, logger.Named("validate"))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst))
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	s := &Server{
		router:       router,
		catalog:      catalog,
		orchestrator: orch,
		sources:      sources,
		validator:    validator,
		store:        store,
		logger:       logger,
		config:       cfg,
		metrics:      metrics,
	}

	router.GET("/", s.root)
	router.GET("/health", s.health)

	router.GET("/search/:categoryID", s.searchCategory)
	router.GET("/search/source/:sourceID", s.searchSource)

	router.GET("/sources", s.listSources)
	router.GET("/categories", s.listCategories)

	router.POST("/validate/:sourceID", s.validateSource)
	router.POST("/validate/category/:categoryID", s.validateCategory)

	router.POST("/cache/purge", s.purgeCache)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	logger.Info("Server initialized")
	return s, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close drains in-flight requests and releases the worker pool.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server")

	var err error
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = s.http.Shutdown(ctx)
	}
	s.orchestrator.Close()
	_ = s.logger.Sync()
	return err
}
