package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cartcatalog "github.com/storely/cart-service/internal/domains/cart/adapters/external/catalog"
	carthttp "github.com/storely/cart-service/internal/domains/cart/adapters/http"
	cartmemory "github.com/storely/cart-service/internal/domains/cart/adapters/memory"
	cartnotify "github.com/storely/cart-service/internal/domains/cart/adapters/notify"
	cartobs "github.com/storely/cart-service/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/storely/cart-service/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/storely/cart-service/internal/domains/cart/adapters/persistence/redis"
	cartapp "github.com/storely/cart-service/internal/domains/cart/application"
	cartports "github.com/storely/cart-service/internal/domains/cart/ports"
	platformobservability "github.com/storely/cart-service/internal/platform/observability"
	platformpostgres "github.com/storely/cart-service/internal/platform/postgres"
	platformredis "github.com/storely/cart-service/internal/platform/redis"
)

// Run boots the cart HTTP API with observability, storage, and the catalog
// gateway wired.
func Run(ctx context.Context) error {
	const serviceName = "cart-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	storage, cleanupStorage := buildCartStorage(ctx, cfg, logger)
	defer cleanupStorage()

	catalog, err := cartcatalog.NewClient(cfg.CatalogBaseURL, nil)
	if err != nil {
		return fmt.Errorf("build catalog client: %w", err)
	}

	core, err := cartapp.NewService(ctx, catalog, storage, cartnotify.NewLogNotifier(logger))
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	service := cartobs.New(
		core,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	carthttp.NewCartAPI(service).Register(router)

	addr := ":" + cfg.Port
	logger.Info("cart API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("cart API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildCartStorage picks the first configured backend: Redis, then
// PostgreSQL, then in-memory.
func buildCartStorage(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.CartStorage, func()) {
	if cfg.RedisAddr != "" {
		client, err := platformredis.Connect(ctx, cfg.RedisAddr)
		if err == nil {
			logger.Info("cart storage configured with redis", slog.String("addr", cfg.RedisAddr))
			return cartredis.NewStorage(client, cfg.CartKey), func() { _ = client.Close() }
		}
		logger.Warn("failed to connect to redis, trying next backend", slog.String("error", err.Error()))
	}
	if cfg.PostgresDSN != "" {
		if db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger); db != nil {
			logger.Info("cart storage configured with postgres")
			return cartpostgres.NewStorage(db, cfg.CartKey), cleanup
		}
	}
	logger.Warn("no durable backend configured, falling back to in-memory cart storage")
	return cartmemory.NewStorage(), func() {}
}
