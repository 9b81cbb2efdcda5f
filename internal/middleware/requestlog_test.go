package middleware

import (
	"net/http"
	"testing"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogAssignsIDToShortCircuitedRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	// the handler fails before any context adaptation happens, the way the
	// auth and validation stages do
	handler := RequestLog(zap.New(core))(func(ctx *fasthttp.RequestCtx) {
		writeFailure(ctx, http.StatusUnauthorized, "missing authorization token")
	})

	ctx := getCtx("/api/v1/categories")
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	handler(ctx)

	entries := logs.FilterMessage("request handled").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	reqID, _ := fields["request_id"].(string)
	if reqID == "" {
		t.Fatal("request_id missing for a short-circuited request")
	}
	if got := string(ctx.Response.Header.Peek("X-Request-ID")); got != reqID {
		t.Fatalf("response header id %q does not match logged id %q", got, reqID)
	}
	if fields["status"] != int64(http.StatusUnauthorized) {
		t.Fatalf("status = %v", fields["status"])
	}
}

func TestRequestLogHonorsSuppliedID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestLog(zap.New(core))(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusOK)
	})

	ctx := getCtx("/health")
	ctx.Request.Header.Set("X-Request-ID", "req-abc123")
	handler(ctx)

	fields := logs.All()[0].ContextMap()
	if fields["request_id"] != "req-abc123" {
		t.Fatalf("request_id = %v, want the supplied one", fields["request_id"])
	}
	if got := string(ctx.Response.Header.Peek("X-Request-ID")); got != "req-abc123" {
		t.Fatalf("response header = %q", got)
	}
}
