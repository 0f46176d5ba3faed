package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/storefront-api/internal/config"
	"github.com/jcmexdev/storefront-api/internal/pkg/cache"
	"github.com/jcmexdev/storefront-api/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/service"
	"github.com/jcmexdev/storefront-api/internal/storefront/infra/adapters/catalog"
	"github.com/jcmexdev/storefront-api/internal/storefront/infra/adapters/payment"
	"github.com/jcmexdev/storefront-api/internal/storefront/infra/adapters/sqlite"
	"github.com/jcmexdev/storefront-api/internal/storefront/infra/httpx"
)

const serviceName = "storefront-api"

func main() {
	cfg := config.Load()

	telemetry.InitLogger(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		log.Fatalf("tracer setup failed: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("tracer shutdown failed", "error", err)
		}
	}()

	repo, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("could not open database at %s: %v", cfg.DBPath, err)
	}
	defer repo.Close()

	source := catalog.NewSource(cfg.ProductsURL)
	gateway := payment.NewClient(cfg.PaymentURL)
	orderService := service.New(repo, repo, source, gateway)

	// The catalog is authoritative-once: a failed load aborts startup rather
	// than leaving the API running against an empty store.
	if err := orderService.LoadCatalog(ctx); err != nil {
		log.Fatalf("catalog load failed: %v", err)
	}

	var productCache cache.Cache
	if cfg.RedisAddr != "" {
		productCache = cache.NewRedisCache(cfg.RedisAddr, serviceName)
	} else {
		productCache = cache.NewMemoryCache(serviceName)
	}

	handler := httpx.NewHandler(orderService, productCache)
	router := httpx.NewRouter(handler)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}

	go func() {
		slog.Info("storefront API running", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}
