package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/factsift/factsift/config"
	"github.com/factsift/factsift/internal/credibility"
	"github.com/factsift/factsift/internal/relevance"
	"github.com/factsift/factsift/internal/search/newsapi"
	"github.com/factsift/factsift/internal/sentiment"
	"github.com/factsift/factsift/internal/social/twitter"
	"github.com/factsift/factsift/internal/sources"
	"github.com/factsift/factsift/internal/store"
	"github.com/factsift/factsift/internal/telemetry"
)

// Run wires the service together and serves the HTTP API until the process
// exits.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })

	var metrics *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		metrics = telemetry.New(prometheus.DefaultRegisterer)
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	ctx := context.Background()

	// Optional Redis: embedding cache plus scheduler locks.
	var rdb *redis.Client
	if cfg.Storage.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
	}

	// Optional Postgres: verification history and monitors.
	var st *store.Store
	if dsn := cfg.Storage.Postgres.DSN(); dsn != "" {
		if err := store.Migrate("file://migrations", dsn, "up", 0); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		var err error
		st, err = store.NewWithDSN(ctx, dsn)
		if err != nil {
			return err
		}
	} else {
		baseLogger.Printf("postgres not configured; verification history disabled")
	}

	engine := BuildEngine(cfg, rdb, metrics)

	api := e.Group("/api")
	vh := &VerifyHandler{Engine: engine, Store: st, Logger: log.New(log.Writer(), "[VERIFY] ", log.LstdFlags)}
	vh.Register(api)
	mh := &MonitorsHandler{Store: st}
	mh.Register(api.Group("/monitors"))

	if st != nil {
		sched := &Scheduler{
			Store:  st,
			Engine: engine,
			Rdb:    rdb,
			Stop:   make(chan struct{}),
			Logger: log.New(log.Writer(), "[SCHED] ", log.LstdFlags),
		}
		sched.Start()
	}

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":10030"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// BuildEngine assembles the credibility engine from configuration. The CLI
// one-shot commands use it without starting the HTTP server.
func BuildEngine(cfg *config.Config, rdb *redis.Client, metrics *telemetry.Telemetry) *credibility.Engine {
	logger := log.New(log.Writer(), "[ENGINE] ", log.LstdFlags)
	analyzer := sentiment.NewAnalyzer()

	search := newsapi.NewClient(
		cfg.Sources.NewsAPI.APIKey,
		cfg.Sources.NewsAPI.Endpoint,
		cfg.Sources.NewsAPI.Language,
		cfg.Sources.NewsAPI.Timeout,
	)
	search.Sentiment = analyzer

	social := twitter.NewClient(
		cfg.Sources.Twitter.BearerToken,
		cfg.Sources.Twitter.Endpoint,
		cfg.Sources.Twitter.Timeout,
	)

	return credibility.NewEngine(credibility.Deps{
		Search:    search,
		Social:    social,
		Scorer:    relevance.NewScorer(cfg.Embedding, rdb, logger),
		Sentiment: analyzer,
		Table:     sources.NewTable(cfg.Sources.Credibility),
		Config:    cfg.Verification,
		Logger:    logger,
		Metrics:   metrics,
	})
}
