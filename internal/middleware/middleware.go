package middleware

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/montasim/school-management-backend-sub003/api/transport"
)

// Middleware wraps a fasthttp handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// None is the identity middleware, used when a stage is disabled.
func None(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return next
}

func writeEnvelope(ctx *fasthttp.RequestCtx, envelope transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(envelope.Status)
	body, _ := json.Marshal(envelope)
	ctx.SetBody(body)
}

func writeFailure(ctx *fasthttp.RequestCtx, status int, message interface{}) {
	writeEnvelope(ctx, transport.Failure(status, message))
}
