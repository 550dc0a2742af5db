package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rigel-labs/chatrag/internal/model"
)

// PromptCacheConfig configures the composed prompt cache.
type PromptCacheConfig struct {
	// Enabled toggles caching.
	Enabled bool
	// TTL is the cache entry lifetime.
	TTL time.Duration
	// KeyPrefix namespaces cache keys in redis.
	KeyPrefix string
}

// PromptCache caches composed prompts in redis, keyed per chat so a chat's
// entries can be dropped when its documents change.
type PromptCache struct {
	redis  *goredis.Client
	config *PromptCacheConfig
}

// NewPromptCache creates a prompt cache. A nil config disables caching.
func NewPromptCache(redis *goredis.Client, config *PromptCacheConfig) *PromptCache {
	if config == nil {
		config = &PromptCacheConfig{
			Enabled:   false,
			TTL:       1 * time.Hour,
			KeyPrefix: "chatrag:prompt:",
		}
	}
	return &PromptCache{
		redis:  redis,
		config: config,
	}
}

// chatSegment namespaces keys by chat. Chat-less prompts share one bucket.
func chatSegment(chatID string) string {
	if chatID == "" {
		return "global"
	}
	return chatID
}

// cacheKey hashes the query with SHA256 under the chat's namespace.
func (c *PromptCache) cacheKey(chatID, query string) string {
	hash := sha256.Sum256([]byte(query))
	return c.config.KeyPrefix + chatSegment(chatID) + ":" + hex.EncodeToString(hash[:])
}

// Get returns the cached prompt for the query, or nil on a miss.
func (c *PromptCache) Get(ctx context.Context, chatID, query string) (*model.PromptResult, error) {
	if !c.config.Enabled || c.redis == nil {
		return nil, fmt.Errorf("cache not enabled or redis not available")
	}

	key := c.cacheKey(chatID, query)

	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			logger.Debugw("prompt cache miss", "chat_id", chatID, "key", key)
			return nil, nil
		}
		logger.Warnw("failed to get from prompt cache", "error", err.Error(), "key", key)
		return nil, err
	}

	var result model.PromptResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warnw("failed to unmarshal cached prompt", "error", err.Error(), "key", key)
		// Drop the corrupt entry.
		_ = c.redis.Del(ctx, key).Err()
		return nil, err
	}

	logger.Infow("prompt cache hit", "chat_id", chatID, "key", key, "prompt_length", len(result.Prompt))
	return &result, nil
}

// Set writes the composed prompt to the cache. A no-op when disabled.
func (c *PromptCache) Set(ctx context.Context, chatID, query string, result *model.PromptResult) error {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	key := c.cacheKey(chatID, query)

	data, err := json.Marshal(result)
	if err != nil {
		logger.Warnw("failed to marshal prompt for caching", "error", err.Error())
		return err
	}

	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("failed to set prompt cache", "error", err.Error(), "key", key)
		return err
	}

	logger.Debugw("cached composed prompt", "chat_id", chatID, "key", key, "ttl", c.config.TTL)
	return nil
}

// InvalidateChat removes every cached prompt for the chat. Called after
// the chat's knowledge base changes.
func (c *PromptCache) InvalidateChat(ctx context.Context, chatID string) error {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	pattern := c.config.KeyPrefix + chatSegment(chatID) + ":*"
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()

	deleted := 0
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warnw("failed to delete prompt cache key", "error", err.Error(), "key", iter.Val())
		} else {
			deleted++
		}
	}

	if err := iter.Err(); err != nil {
		logger.Warnw("error during prompt cache scan", "error", err.Error())
		return err
	}

	logger.Infow("invalidated prompt cache for chat", "chat_id", chatID, "deleted_count", deleted)
	return nil
}

// Stats reports cache configuration and key counts.
func (c *PromptCache) Stats(ctx context.Context) (map[string]interface{}, error) {
	if !c.config.Enabled || c.redis == nil {
		return map[string]interface{}{
			"enabled": false,
		}, nil
	}

	pattern := c.config.KeyPrefix + "*"
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()

	keyCount := 0
	for iter.Next(ctx) {
		keyCount++
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"enabled":    true,
		"key_count":  keyCount,
		"ttl":        c.config.TTL.String(),
		"key_prefix": c.config.KeyPrefix,
	}, nil
}
