// @title                       Storefront API
// @version                     1.0
// @description                 Product catalog, ratings, favorites and cart for the storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/vitrine/storefront/internal/api"
	"github.com/vitrine/storefront/internal/api/handler"
	"github.com/vitrine/storefront/internal/core/ports"
	"github.com/vitrine/storefront/internal/core/service"
	"github.com/vitrine/storefront/internal/infrastructure/db/mongo"
	"github.com/vitrine/storefront/internal/infrastructure/db/redis"
	"github.com/vitrine/storefront/internal/infrastructure/messaging"
	"github.com/vitrine/storefront/internal/infrastructure/queue"
	"github.com/vitrine/storefront/internal/pkg/config"
	"github.com/vitrine/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
	})

	if err := run(cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	userRepo := mongo.NewUserRepository(db)
	productRepo := mongo.NewProductRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, productRepo); err != nil {
		return err
	}

	// --- Redis (optional catalog cache) ---
	var (
		rdb   *goredis.Client
		cache ports.ProductCache
	)
	rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, catalog cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
		cache = redis.NewProductCache(rdb, cfg.Redis.CacheTTL)
	}

	// --- Domain events ---
	var publisher ports.EventPublisher = messaging.NewLogPublisher(log)
	if len(cfg.Events.Brokers) > 0 {
		producer := messaging.NewKafkaProducer(cfg.Events.Brokers, cfg.Events.Topic)
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Events.Brokers).Str("topic", cfg.Events.Topic).Msg("publishing events to kafka")
	}

	// Workers outlive the HTTP server so events emitted by in-flight
	// requests still get published during shutdown.
	eventsCtx, stopEvents := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, log)
	dispatcher.Start(eventsCtx)
	defer func() {
		stopEvents()
		dispatcher.Wait()
	}()

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	productService := service.NewProductService(productRepo, cache, dispatcher, log)
	collectionService := service.NewCollectionService(userRepo, dispatcher, log)

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Products:      productService,
		Collections:   collectionService,
		Health:        handler.NewHealthHandler(db, rdb),
		Logger:        log,
		RatePerSecond: cfg.RateLimitPerSecond,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
