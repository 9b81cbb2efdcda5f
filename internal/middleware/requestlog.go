package middleware

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestLog assigns the request id and emits one structured line per
// request after the handler ran. The id is attached here, at the outer
// edge of the chain, so requests short-circuited by validation, auth or
// the cache still carry one; the context adapter downstream reuses it.
func RequestLog(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			reqID := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader)))
			if reqID == "" {
				reqID = uuid.NewString()
				ctx.Request.Header.Set(requestIDHeader, reqID)
			}
			ctx.Response.Header.Set(requestIDHeader, reqID)

			start := time.Now()
			next(ctx)

			logger.Info("request handled",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", ctx.RemoteAddr().String()),
				zap.String("request_id", reqID))
		}
	}
}
