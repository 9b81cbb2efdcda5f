package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/montasim/school-management-backend-sub003/api/transport"
	"github.com/montasim/school-management-backend-sub003/schema"
)

// Validate parses the request body (JSON or multipart), normalizes it to
// canonical types and checks it against the resource's schema. Every
// violation is collected and returned as the 400 envelope's message
// array. On success the parsed body and file are attached to the request
// so the handler never re-parses.
func Validate(s schema.Schema, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			fields, blob, err := transport.ParseBody(ctx)
			if err != nil {
				logger.Debug("unparseable request body", zap.Error(err))
				writeFailure(ctx, http.StatusBadRequest, "invalid request body")
				return
			}

			normalized := s.Normalize(fields)
			result := s.Validate(normalized)
			if !result.Valid {
				writeFailure(ctx, http.StatusBadRequest, result.Errors)
				return
			}

			ctx.SetUserValue(transport.CtxKeyBody, normalized)
			if blob != nil {
				ctx.SetUserValue(transport.CtxKeyFile, blob)
			}
			next(ctx)
		}
	}
}
