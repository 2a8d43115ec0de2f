package storage

import (
	"errors"
	"time"

	"github.com/phambaophuc/image-transform/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

var ErrNotConfigured = errors.New("storage: not configured")

type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
}

type ServiceOptions struct {
	MaxRetries int
	Timeout    time.Duration
}

var DefaultOptions = ServiceOptions{
	MaxRetries: 3,
	Timeout:    30 * time.Second,
}

// NewStorageService builds the Supabase and Redis clients. Supabase is
// optional: without a URL uploads fail with ErrNotConfigured and only the
// cache is used.
func NewStorageService(cfg *config.Config, opts ...ServiceOptions) (*StorageService, error) {
	options := DefaultOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	var sbClient *storage_go.Client
	if cfg.Supabase.URL != "" {
		sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   options.MaxRetries,
		DialTimeout:  options.Timeout,
		ReadTimeout:  options.Timeout,
		WriteTimeout: options.Timeout,
	})

	cacheDuration := cfg.Storage.CacheDuration
	if cacheDuration <= 0 {
		cacheDuration = 24 * time.Hour
	}

	return &StorageService{
		sbClient:      sbClient,
		redisClient:   redisClient,
		bucket:        cfg.Supabase.BUCKET,
		cacheDuration: cacheDuration,
	}, nil
}

// Close releases the Redis connection pool.
func (s *StorageService) Close() error {
	return s.redisClient.Close()
}
