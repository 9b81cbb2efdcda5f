package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/montasim/school-management-backend-sub003/api/handler"
	"github.com/montasim/school-management-backend-sub003/catalog"
	"github.com/montasim/school-management-backend-sub003/internal/middleware"
)

// Options bundles the handlers and middleware stages the route table is
// assembled from. Cache may be nil (caching disabled).
type Options struct {
	Resources map[string]*apiHandler.ResourceHandler // keyed by definition name
	Health    *apiHandler.HealthHandler
	Files     *apiHandler.FileHandler

	Auth       middleware.Middleware
	Validate   func(catalog.Definition) middleware.Middleware
	Cache      *middleware.ResponseCache
	Recover    middleware.Middleware
	RequestLog middleware.Middleware
}

// New builds the full route table from the catalog. Per-route chains
// follow the pipeline order: recover → request log → [GET: cache] /
// [mutations: validate → auth → cache invalidation] → handler.
func New(defs []catalog.Definition, opts Options) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", opts.Health.Check)
	r.GET("/files/{id}", opts.Files.Get)

	for _, def := range defs {
		h, ok := opts.Resources[def.Name]
		if !ok {
			continue
		}

		serve := middleware.None
		bust := middleware.None
		if opts.Cache != nil {
			serve = opts.Cache.Serve(def.Collection)
			bust = opts.Cache.Invalidate(def.Collection)
		}
		validate := opts.Validate(def)

		base := "/api/v1/" + def.Route
		r.GET(base, serve(h.List))
		r.GET(base+"/{id}", serve(h.Get))
		r.POST(base, chain(h.Create, validate, opts.Auth, bust))
		r.PUT(base+"/{id}", chain(h.Update, validate, opts.Auth, bust))
		r.DELETE(base+"/{id}", chain(h.Delete, opts.Auth, bust))
	}

	handler := r.Handler
	if opts.RequestLog != nil {
		handler = opts.RequestLog(handler)
	}
	if opts.Recover != nil {
		handler = opts.Recover(handler)
	}
	return handler
}

// chain applies middleware outermost-first.
func chain(h fasthttp.RequestHandler, mws ...middleware.Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
