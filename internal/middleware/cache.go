package middleware

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// ResponseCache serves successful GET responses from Redis. Keys are
// scoped per collection and registered in a per-collection index set so
// mutations can flush exactly their collection. Redis faults degrade to
// pass-through.
type ResponseCache struct {
	client *redislib.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewResponseCache(client *redislib.Client, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{client: client, ttl: ttl, logger: logger}
}

// Serve caches 200 responses for GET routes of one collection.
func (c *ResponseCache) Serve(collection string) Middleware {
	if c == nil || c.client == nil {
		return None
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			key := c.key(collection, ctx)

			cached, err := c.client.Get(ctx, key).Bytes()
			if err == nil {
				ctx.Response.Header.SetContentType("application/json")
				ctx.SetStatusCode(http.StatusOK)
				ctx.SetBody(cached)
				return
			}
			if err != redislib.Nil {
				c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
			}

			next(ctx)

			if ctx.Response.StatusCode() != http.StatusOK {
				return
			}
			body := append([]byte(nil), ctx.Response.Body()...)
			if err := c.store(ctx, collection, key, body); err != nil {
				c.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

// Invalidate flushes the collection's cached responses after a
// successful mutation.
func (c *ResponseCache) Invalidate(collection string) Middleware {
	if c == nil || c.client == nil {
		return None
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			next(ctx)

			status := ctx.Response.StatusCode()
			if status < 200 || status >= 300 {
				return
			}
			if err := c.flush(ctx, collection); err != nil {
				c.logger.Debug("cache flush failed", zap.String("collection", collection), zap.Error(err))
			}
		}
	}
}

func (c *ResponseCache) store(ctx context.Context, collection, key string, body []byte) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, body, c.ttl)
	pipe.SAdd(ctx, c.indexKey(collection), key)
	pipe.Expire(ctx, c.indexKey(collection), c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *ResponseCache) flush(ctx context.Context, collection string) error {
	keys, err := c.client.SMembers(ctx, c.indexKey(collection)).Result()
	if err != nil {
		return err
	}
	keys = append(keys, c.indexKey(collection))
	return c.client.Del(ctx, keys...).Err()
}

func (c *ResponseCache) key(collection string, ctx *fasthttp.RequestCtx) string {
	sum := md5.Sum(ctx.URI().FullURI())
	return "cache:" + collection + ":" + hex.EncodeToString(sum[:])
}

func (c *ResponseCache) indexKey(collection string) string {
	return "cache:index:" + collection
}
