// Package chatrag provides the chatrag server implementation.
package chatrag

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rigel-labs/chatrag/internal/chatrag/biz"
	"github.com/rigel-labs/chatrag/internal/chatrag/blob"
	"github.com/rigel-labs/chatrag/internal/chatrag/extract"
	"github.com/rigel-labs/chatrag/internal/chatrag/handler"
	"github.com/rigel-labs/chatrag/internal/chatrag/router"
	"github.com/rigel-labs/chatrag/internal/chatrag/store"
	"github.com/rigel-labs/chatrag/pkg/app"
	"github.com/rigel-labs/chatrag/pkg/middleware"
	cacheopts "github.com/rigel-labs/chatrag/pkg/options/cache"
	logopts "github.com/rigel-labs/chatrag/pkg/options/logger"
	retrievalopts "github.com/rigel-labs/chatrag/pkg/options/retrieval"
	httpopts "github.com/rigel-labs/chatrag/pkg/options/server/http"
	storageopts "github.com/rigel-labs/chatrag/pkg/options/storage"
	tracingopts "github.com/rigel-labs/chatrag/pkg/options/tracing"
	"github.com/rigel-labs/chatrag/pkg/pool"
	"github.com/rigel-labs/chatrag/pkg/server"
	"github.com/rigel-labs/chatrag/pkg/tracing"
	"github.com/rigel-labs/chatrag/pkg/validator"
)

// Name is the name of the application.
const Name = "chatrag"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions      *httpopts.Options
	LogOptions       *logopts.Options
	CacheOptions     *cacheopts.Options
	RetrievalOptions *retrievalopts.Options
	StorageOptions   *storageopts.Options
	TracingOptions   *tracingopts.Options
	ShutdownTimeout  time.Duration
}

// Server represents the chatrag server.
type Server struct {
	http            *server.Server
	tracer          *tracing.Provider
	redisClose      func()
	shutdownTimeout time.Duration
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting chatrag service...")

	tracer, err := tracing.NewProvider(cfg.TracingOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := validator.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	if err := pool.InitGlobal(); err != nil {
		return nil, fmt.Errorf("failed to initialize worker pools: %w", err)
	}

	// Blob storage backend.
	bytes, err := blob.New(cfg.StorageOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Infow("Blob storage initialized", "backend", cfg.StorageOptions.Backend)

	// Redis-backed prompt cache, degraded to disabled when unreachable.
	var redisClient *goredis.Client
	var redisClose func()
	cacheConfig := &biz.PromptCacheConfig{
		Enabled:   false,
		TTL:       cfg.CacheOptions.TTL,
		KeyPrefix: cfg.CacheOptions.KeyPrefix,
	}
	if cfg.CacheOptions.Enabled {
		redisOpts := cfg.CacheOptions.Redis
		if redisOpts == nil {
			logger.Warn("Cache is enabled but no Redis configuration provided")
		} else {
			redisClient = goredis.NewClient(&goredis.Options{
				Addr:         fmt.Sprintf("%s:%d", redisOpts.Host, redisOpts.Port),
				Password:     redisOpts.Password,
				DB:           redisOpts.Database,
				MaxRetries:   redisOpts.MaxRetries,
				PoolSize:     redisOpts.PoolSize,
				MinIdleConns: redisOpts.MinIdleConns,
			})

			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				logger.Warnw("failed to connect to redis, cache will be disabled", "error", err.Error())
				_ = redisClient.Close()
				redisClient = nil
			} else {
				cacheConfig.Enabled = true
				redisClose = func() { _ = redisClient.Close() }
				logger.Infow("Redis prompt cache initialized",
					"host", redisOpts.Host,
					"port", redisOpts.Port,
					"ttl", cfg.CacheOptions.TTL,
				)
			}
		}
	} else {
		logger.Info("Cache is disabled")
	}
	promptCache := biz.NewPromptCache(redisClient, cacheConfig)

	docs := store.NewMemoryStore()
	registry := store.NewMemoryRegistry()

	service := biz.NewChatRAGService(
		&biz.Config{
			ChunkSize:    cfg.RetrievalOptions.ChunkSize,
			ChunkOverlap: cfg.RetrievalOptions.ChunkOverlap,
			TopK:         cfg.RetrievalOptions.TopK,
		},
		extract.NewRegistry(),
		bytes,
		docs,
		registry,
		promptCache,
	)
	logger.Infow("chatrag service initialized",
		"chunk_size", cfg.RetrievalOptions.ChunkSize,
		"chunk_overlap", cfg.RetrievalOptions.ChunkOverlap,
		"top_k", cfg.RetrievalOptions.TopK,
		"cache.enabled", cacheConfig.Enabled,
	)

	docHandler := handler.NewDocumentHandler(service)
	queryHandler := handler.NewQueryHandler(service)

	httpServer := server.NewServer(cfg.HTTPOptions)
	router.Register(httpServer.Engine(), docHandler, queryHandler)

	middleware.GetHealthManager().SetVersion(app.GetVersion())
	if redisClient != nil {
		client := redisClient
		middleware.GetHealthManager().RegisterChecker("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(checkCtx).Err()
		})
	}

	logger.Info("chatrag service is ready")
	return &Server{
		http:            httpServer,
		tracer:          tracer,
		redisClose:      redisClose,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run starts the server and blocks until the context is canceled, then
// shuts everything down within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	err := s.http.Start(ctx)
	if err != nil && err != context.Canceled {
		return err
	}

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.http.Stop(shutdownCtx); err != nil {
		logger.Warnw("HTTP server shutdown failed", "error", err.Error())
	}
	if err := pool.CloseGlobalTimeout(timeout); err != nil {
		logger.Warnw("worker pool shutdown failed", "error", err.Error())
	}
	if err := s.tracer.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("tracer shutdown failed", "error", err.Error())
	}
	if s.redisClose != nil {
		s.redisClose()
	}

	logger.Info("chatrag service stopped")
	return nil
}
