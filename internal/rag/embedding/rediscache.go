package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/pkg/logx"
)

// RedisCache stores embeddings in Redis so several processes can share one
// cache. Values are raw little-endian float32s keyed by the SHA-256 of the
// text; the cache owns its DB, so Purge flushes it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logx.Logger
}

func NewRedisCache(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	c := &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logx.NewLogger("EmbeddingCache Redis"),
	}
	go c.closeOnDone(ctx)
	return c, nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logx.NewLogger("EmbeddingCache Redis"),
	}
}

func (c *RedisCache) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	c.logger.Info("Closing Redis embedding cache")
	if err := c.client.Close(); err != nil {
		c.logger.Error("Error closing redis client", "error", err)
	}
}

func (c *RedisCache) Get(ctx context.Context, text string) ([]float32, bool) {
	raw, err := c.client.Get(ctx, cacheKey(text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Error("Cache read failed", "error", err)
		}
		return nil, false
	}
	if len(raw)%4 != 0 {
		c.logger.Error("Corrupt cache entry", "bytes", len(raw))
		return nil, false
	}
	return decodeVector(raw), true
}

func (c *RedisCache) Set(ctx context.Context, text string, vector []float32) {
	if err := c.client.Set(ctx, cacheKey(text), encodeVector(vector), c.ttl).Err(); err != nil {
		c.logger.Error("Cache write failed", "error", err)
	}
}

func (c *RedisCache) Purge(ctx context.Context) {
	if err := c.client.FlushDB(ctx).Err(); err != nil {
		c.logger.Error("Cache flush failed", "error", err)
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return config.EmbeddingCachePrefix + hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(raw []byte) []float32 {
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec
}
