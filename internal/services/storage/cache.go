package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/redis/go-redis/v9"
)

const CacheKeyPrefix = "img_cache:"

func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// Digest identifies source bytes independently of their file name.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GenerateCacheKey derives the cache key for a source and the modifiers
// applied to it. kind separates cached bytes from cached job results.
func GenerateCacheKey(kind, sourceDigest string, m geometry.Modifiers) string {
	hash := sha256.Sum256([]byte(kind + "|" + sourceDigest + "|" + m.Key()))
	return fmt.Sprintf("%s%s:%x", CacheKeyPrefix, kind, hash)
}

// CleanupCache removes cache entries that have no expiry.
func (s *StorageService) CleanupCache(ctx context.Context) (int, error) {
	removed := 0
	iter := s.redisClient.Scan(ctx, 0, CacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := s.redisClient.TTL(ctx, key).Result()
		if err != nil {
			return removed, fmt.Errorf("cache ttl error: %w", err)
		}
		if ttl < 0 {
			if err := s.redisClient.Del(ctx, key).Err(); err != nil {
				return removed, fmt.Errorf("cache delete error: %w", err)
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("cache scan error: %w", err)
	}
	return removed, nil
}

func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	pipeline := s.redisClient.Pipeline()

	infoCmd := pipeline.Info(ctx, "memory")
	dbSizeCmd := pipeline.DBSize(ctx)

	if _, err := pipeline.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pipeline error: %w", err)
	}

	stats := map[string]interface{}{
		"db_keys": dbSizeCmd.Val(),
		"info":    infoCmd.Val(),
	}

	return stats, nil
}
