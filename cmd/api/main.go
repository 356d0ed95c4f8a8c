package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vantrung/equipment-site/internal/api/router"
	"github.com/vantrung/equipment-site/internal/app/bootstrap"
	"github.com/vantrung/equipment-site/internal/blog"
	"github.com/vantrung/equipment-site/internal/catalog"
	appconfig "github.com/vantrung/equipment-site/internal/config"
	"github.com/vantrung/equipment-site/internal/leads"
	"github.com/vantrung/equipment-site/internal/notify"
	"github.com/vantrung/equipment-site/internal/observability/metrics"
	"github.com/vantrung/equipment-site/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting equipment-site API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api server failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("Server exited gracefully")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + cfg.NotifyTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// app is the wired HTTP handler plus the resources it holds open.
type app struct {
	Handler http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// stores groups the persistence backends chosen at startup.
type stores struct {
	leads   leads.Repository
	catalog catalog.Store
	blog    blog.Store
}

func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*app, error) {
	a := &app{}
	metricsHandler, siteMetrics := setupMetrics()
	checks := map[string]router.Pinger{}

	db, err := bootstrap.BuildDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	var st stores
	if db != nil {
		a.closers = append(a.closers, db.Close)
		checks["database"] = db
		st = stores{
			leads:   leads.NewPostgresRepository(db.Pool),
			catalog: catalog.NewPostgresStore(db.Pool),
			blog:    blog.NewSQLStore(db.SQL),
		}
	} else {
		logger.Warn("DATABASE_URL not set; serving from memory", "seed_file", cfg.SeedFile)
		st, err = memoryStores(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
	}

	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		checks["redis"] = redisPinger(redisClient)
		st.catalog = catalog.NewCachedStore(st.catalog, redisClient, cfg.CatalogCacheTTL, siteMetrics, logger)
		logger.Info("catalog cache enabled", "ttl", cfg.CatalogCacheTTL)
	}

	emailSender, provider, err := bootstrap.BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	notifier := notify.NewService(emailSender, notify.Config{
		Recipients: cfg.LeadNotifyRecipients,
		Brand:      cfg.BrandName,
		Timezone:   cfg.NotifyTimezone,
	}, logger)
	if len(cfg.LeadNotifyRecipients) == 0 {
		logger.Warn("LEAD_NOTIFY_RECIPIENTS not set; leads will be stored without alerts")
	}
	logger.Info("lead notifications configured", "provider", provider, "recipients", len(cfg.LeadNotifyRecipients))

	collector := leads.NewCollector(st.leads, notifier, logger,
		leads.WithProductResolver(st.catalog),
		leads.WithMetrics(siteMetrics),
		leads.WithNotifyTimeout(cfg.NotifyTimeout),
	)

	a.Handler = router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(collector, logger),
		CatalogHandler:     catalog.NewHandler(st.catalog, siteMetrics, logger),
		BlogHandler:        blog.NewHandler(st.blog, blog.NewRenderer(), logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Checks:             checks,
	})
	return a, nil
}

func setupMetrics() (http.Handler, *metrics.SiteMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewSiteMetrics(reg)
}

// memoryStores builds in-memory backends, optionally filled from a fixtures file.
func memoryStores(seedFile string) (stores, error) {
	st := stores{
		leads:   leads.NewInMemoryRepository(),
		catalog: catalog.NewMemoryStore(nil, nil),
		blog:    blog.NewMemoryStore(nil),
	}
	if seedFile == "" {
		return st, nil
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return stores{}, fmt.Errorf("read seed file: %w", err)
	}
	catalogSeed, err := catalog.ParseSeed(bytes.NewReader(raw))
	if err != nil {
		return stores{}, err
	}
	posts, err := blog.ParseSeed(bytes.NewReader(raw))
	if err != nil {
		return stores{}, err
	}
	st.catalog = catalogSeed.MemoryStore()
	st.blog = blog.NewMemoryStore(posts)
	return st, nil
}

func redisPinger(client *redis.Client) router.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
