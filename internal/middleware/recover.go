package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Recover converts a panic anywhere down the chain into a generic 500
// envelope. The panic value is logged with full context; the response
// never leaks it.
func Recover(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						zap.Any("panic", r),
						zap.ByteString("method", ctx.Method()),
						zap.ByteString("path", ctx.Path()),
						zap.Stack("stack"))
					writeFailure(ctx, http.StatusInternalServerError, "internal server error")
				}
			}()
			next(ctx)
		}
	}
}
