package container

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"skinpricer/internal/api"
	"skinpricer/internal/cache"
	"skinpricer/internal/client"
	"skinpricer/internal/config"
	"skinpricer/internal/enrich"
	"skinpricer/internal/matcher"
	"skinpricer/internal/proxy"
	"skinpricer/internal/repository"
	"skinpricer/internal/service"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Client   client.InventoryClient
	Store    repository.CatalogStore
	Cache    cache.InventoryCache
	Matcher  *matcher.Matcher
	Pipeline *enrich.Pipeline
	Service  *service.Service
	API      *api.Server

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Cache:  cache.Noop{},
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Inventory.Proxies, cfg.Inventory.BaseURL)
	container.Client = client.NewInventoryClient(cfg.Inventory, proxySupplier)

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}
	container.Store = store

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.Redis.Host, strconv.Itoa(cfg.Redis.Port)),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			store.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.Cache = cache.NewRedisInventoryCache(rdb, cfg.Redis.CacheTTL)
	}

	container.Matcher = matcher.NewMatcher(store, cfg.Matching)
	container.Pipeline = enrich.NewPipeline(container.Matcher)
	container.Service = service.NewService(
		container.Client,
		container.Pipeline,
		container.Cache,
		cfg.Matching.DegradeOnStoreFailure,
	)
	container.API = api.New(container.Service)

	return container, nil
}

// Run serves the HTTP API until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         net.JoinHostPort(c.Config.Server.Host, strconv.Itoa(c.Config.Server.Port)),
		Handler:      c.API,
		ReadTimeout:  c.Config.Server.ReadTimeout,
		WriteTimeout: c.Config.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("🛑 Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.Store != nil {
		c.Store.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
