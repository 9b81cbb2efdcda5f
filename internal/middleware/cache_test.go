package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zaptest"
)

func newCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResponseCache(client, time.Minute, zaptest.NewLogger(t)), mr
}

func getCtx(path string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.SetRequestURI("http://test" + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func countingHandler(status int, body string, hits *int) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		*hits++
		ctx.Response.Header.SetContentType("application/json")
		ctx.SetStatusCode(status)
		ctx.SetBodyString(body)
	}
}

func TestServeReturnsStoredBodyOnHit(t *testing.T) {
	cache, _ := newCache(t)

	hits := 0
	handler := cache.Serve("categories")(countingHandler(http.StatusOK, `{"data":[]}`, &hits))

	first := getCtx("/api/v1/categories")
	handler(first)
	if hits != 1 {
		t.Fatalf("hits after miss = %d", hits)
	}

	second := getCtx("/api/v1/categories")
	handler(second)
	if hits != 1 {
		t.Fatalf("cache hit still reached the handler: hits = %d", hits)
	}
	if got := string(second.Response.Body()); got != `{"data":[]}` {
		t.Fatalf("cached body = %q", got)
	}
	if second.Response.StatusCode() != http.StatusOK {
		t.Fatalf("cached status = %d", second.Response.StatusCode())
	}

	// a different URI is a different key
	other := getCtx("/api/v1/categories?limit=5")
	handler(other)
	if hits != 2 {
		t.Fatalf("query variant served from the wrong key: hits = %d", hits)
	}
}

func TestServeNeverCachesFailures(t *testing.T) {
	cache, _ := newCache(t)

	hits := 0
	handler := cache.Serve("classes")(countingHandler(http.StatusNotFound, `{"data":{}}`, &hits))

	handler(getCtx("/api/v1/classes"))
	handler(getCtx("/api/v1/classes"))
	if hits != 2 {
		t.Fatalf("non-200 response was cached: hits = %d", hits)
	}
}

func TestInvalidateFlushesOnlyItsCollection(t *testing.T) {
	cache, _ := newCache(t)

	catHits, classHits := 0, 0
	serveCats := cache.Serve("categories")(countingHandler(http.StatusOK, `["cat"]`, &catHits))
	serveClasses := cache.Serve("classes")(countingHandler(http.StatusOK, `["class"]`, &classHits))

	serveCats(getCtx("/api/v1/categories"))
	serveClasses(getCtx("/api/v1/classes"))

	mutate := cache.Invalidate("categories")(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusOK)
	})
	post := getCtx("/api/v1/categories")
	post.Request.Header.SetMethod(fasthttp.MethodPost)
	mutate(post)

	serveCats(getCtx("/api/v1/categories"))
	if catHits != 2 {
		t.Fatalf("mutation did not flush its collection: hits = %d", catHits)
	}
	serveClasses(getCtx("/api/v1/classes"))
	if classHits != 1 {
		t.Fatalf("mutation flushed an unrelated collection: hits = %d", classHits)
	}
}

func TestInvalidateSkipsFailedMutations(t *testing.T) {
	cache, _ := newCache(t)

	hits := 0
	serve := cache.Serve("categories")(countingHandler(http.StatusOK, `["cat"]`, &hits))
	serve(getCtx("/api/v1/categories"))

	mutate := cache.Invalidate("categories")(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusUnprocessableEntity)
	})
	post := getCtx("/api/v1/categories")
	post.Request.Header.SetMethod(fasthttp.MethodPost)
	mutate(post)

	serve(getCtx("/api/v1/categories"))
	if hits != 1 {
		t.Fatalf("failed mutation flushed the cache: hits = %d", hits)
	}
}

func TestServeDegradesToPassThroughOnRedisFault(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	hits := 0
	handler := cache.Serve("categories")(countingHandler(http.StatusOK, `["cat"]`, &hits))

	handler(getCtx("/api/v1/categories"))
	handler(getCtx("/api/v1/categories"))
	if hits != 2 {
		t.Fatalf("expected pass-through on redis fault: hits = %d", hits)
	}
}

func TestNilClientDisablesCaching(t *testing.T) {
	cache := NewResponseCache(nil, time.Minute, nil)

	hits := 0
	handler := cache.Serve("categories")(countingHandler(http.StatusOK, `["cat"]`, &hits))
	handler(getCtx("/api/v1/categories"))
	handler(getCtx("/api/v1/categories"))
	if hits != 2 {
		t.Fatalf("nil client should disable caching: hits = %d", hits)
	}
}
