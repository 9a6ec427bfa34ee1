package repositories

import (
	"context"
	"time"

	"zombiedigital/internal/core/ports"
	"zombiedigital/internal/infrastructure/changefeed"
	"zombiedigital/internal/infrastructure/repositories/memory"
	redisrepo "zombiedigital/internal/infrastructure/repositories/redis"
	"zombiedigital/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	modCacheTTL time.Duration
	logger      *zap.SugaredLogger

	// memoryFeed is shared so publishers and subscribers meet on the same
	// in-process fan-out when Redis is unavailable.
	memoryFeed ports.ChangeFeed
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis:    cfg.Redis.Enabled,
		modCacheTTL: cfg.Twitch.ModCacheTTL,
		logger:      logger,
	}

	// Try to connect to Redis if enabled
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
		factory.memoryFeed = changefeed.NewMemoryChangeFeed()
	}

	return factory, nil
}

// CreateCanvasRepository creates a canvas repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateCanvasRepository() ports.CanvasRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisCanvasRepository(f.redisClient)
	}
	return memory.NewMemoryCanvasRepository()
}

// CreateMediaObjectRepository creates a media object repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateMediaObjectRepository() ports.MediaObjectRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisMediaObjectRepository(f.redisClient)
	}
	return memory.NewMemoryMediaObjectRepository()
}

// CreateAllowedUserRepository creates an allowed user repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateAllowedUserRepository() ports.AllowedUserRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisAllowedUserRepository(f.redisClient)
	}
	return memory.NewMemoryAllowedUserRepository()
}

// CreateModCacheRepository creates a mod cache repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateModCacheRepository() ports.ModCacheRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisModCacheRepository(f.redisClient, f.modCacheTTL)
	}
	return memory.NewMemoryModCacheRepository()
}

// CreateChangeFeed creates the change feed (Redis Pub/Sub or in-process fan-out)
func (f *RepositoryFactory) CreateChangeFeed() ports.ChangeFeed {
	if f.useRedis && f.redisClient != nil {
		return changefeed.NewRedisChangeFeed(f.redisClient, f.logger)
	}
	return f.memoryFeed
}

// RedisClient exposes the underlying client for health probes. Nil when the
// factory fell back to memory.
func (f *RepositoryFactory) RedisClient() *redis.Client {
	if f.useRedis {
		return f.redisClient
	}
	return nil
}

// Close closes Redis connection if used
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck checks Redis connection health
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
