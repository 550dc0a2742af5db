package biz

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigel-labs/chatrag/internal/model"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("redis unavailable, skipping test")
	}

	client.FlushDB(ctx)
	return client
}

func testCacheConfig() *PromptCacheConfig {
	return &PromptCacheConfig{
		Enabled:   true,
		TTL:       1 * time.Hour,
		KeyPrefix: "test:chatrag:prompt:",
	}
}

func TestNewPromptCacheWithNilConfig(t *testing.T) {
	cache := NewPromptCache(nil, nil)
	assert.NotNil(t, cache)
	assert.NotNil(t, cache.config)
	assert.False(t, cache.config.Enabled)
	assert.Equal(t, 1*time.Hour, cache.config.TTL)
	assert.Equal(t, "chatrag:prompt:", cache.config.KeyPrefix)
}

func TestPromptCacheKeyScoping(t *testing.T) {
	cache := NewPromptCache(nil, testCacheConfig())

	sameChat1 := cache.cacheKey("chat-1", "what is rag")
	sameChat2 := cache.cacheKey("chat-1", "what is rag")
	otherChat := cache.cacheKey("chat-2", "what is rag")
	otherQuery := cache.cacheKey("chat-1", "something else")
	chatless := cache.cacheKey("", "what is rag")

	assert.Equal(t, sameChat1, sameChat2)
	assert.NotEqual(t, sameChat1, otherChat)
	assert.NotEqual(t, sameChat1, otherQuery)
	assert.Contains(t, chatless, ":global:")
}

func TestPromptCacheDisabled(t *testing.T) {
	cache := NewPromptCache(nil, nil)
	ctx := context.Background()

	_, err := cache.Get(ctx, "chat-1", "q")
	assert.Error(t, err)

	assert.NoError(t, cache.Set(ctx, "chat-1", "q", &model.PromptResult{Prompt: "p"}))
	assert.NoError(t, cache.InvalidateChat(ctx, "chat-1"))

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, false, stats["enabled"])
}

func TestPromptCacheSetGet(t *testing.T) {
	client := setupTestRedis(t)
	defer func() { _ = client.Close() }()

	cache := NewPromptCache(client, testCacheConfig())
	ctx := context.Background()

	// Miss before set.
	result, err := cache.Get(ctx, "chat-1", "what is rag")
	require.NoError(t, err)
	assert.Nil(t, result)

	in := &model.PromptResult{
		Prompt:  "a composed prompt",
		Sources: []string{SourceDocuments},
	}
	require.NoError(t, cache.Set(ctx, "chat-1", "what is rag", in))

	result, err = cache.Get(ctx, "chat-1", "what is rag")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, in.Prompt, result.Prompt)
	assert.Equal(t, in.Sources, result.Sources)

	// Other chats do not see the entry.
	result, err = cache.Get(ctx, "chat-2", "what is rag")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestPromptCacheInvalidateChat(t *testing.T) {
	client := setupTestRedis(t)
	defer func() { _ = client.Close() }()

	cache := NewPromptCache(client, testCacheConfig())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "chat-1", "q1", &model.PromptResult{Prompt: "p1"}))
	require.NoError(t, cache.Set(ctx, "chat-1", "q2", &model.PromptResult{Prompt: "p2"}))
	require.NoError(t, cache.Set(ctx, "chat-2", "q1", &model.PromptResult{Prompt: "p3"}))

	require.NoError(t, cache.InvalidateChat(ctx, "chat-1"))

	result, err := cache.Get(ctx, "chat-1", "q1")
	require.NoError(t, err)
	assert.Nil(t, result)
	result, err = cache.Get(ctx, "chat-1", "q2")
	require.NoError(t, err)
	assert.Nil(t, result)

	// Other chats keep their entries.
	result, err = cache.Get(ctx, "chat-2", "q1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "p3", result.Prompt)
}

func TestPromptCacheCorruptEntryDropped(t *testing.T) {
	client := setupTestRedis(t)
	defer func() { _ = client.Close() }()

	cache := NewPromptCache(client, testCacheConfig())
	ctx := context.Background()

	key := cache.cacheKey("chat-1", "q")
	require.NoError(t, client.Set(ctx, key, "not json", time.Hour).Err())

	_, err := cache.Get(ctx, "chat-1", "q")
	assert.Error(t, err)

	// The corrupt entry is gone.
	exists, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestPromptCacheStats(t *testing.T) {
	client := setupTestRedis(t)
	defer func() { _ = client.Close() }()

	cache := NewPromptCache(client, testCacheConfig())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "chat-1", "q1", &model.PromptResult{Prompt: "p1"}))
	require.NoError(t, cache.Set(ctx, "chat-2", "q2", &model.PromptResult{Prompt: "p2"}))

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, 2, stats["key_count"])
}
