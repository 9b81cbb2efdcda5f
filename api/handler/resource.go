package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/montasim/school-management-backend-sub003/api/transport"
	"github.com/montasim/school-management-backend-sub003/catalog"
	"github.com/montasim/school-management-backend-sub003/domain"
	"github.com/montasim/school-management-backend-sub003/pkg/httpcontext"
	resourceUC "github.com/montasim/school-management-backend-sub003/usecase/resource"
)

// ResourceHandler serves the five CRUD endpoints for one catalog
// definition. Mutating routes run behind the validation and auth
// middleware, so the body and principal id arrive pre-attached.
type ResourceHandler struct {
	baseHandler
	def catalog.Definition
	uc  *resourceUC.UseCase
}

func NewResourceHandler(uc *resourceUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{
		baseHandler: newBaseHandler(adapter, logger),
		def:         uc.Definition(),
		uc:          uc,
	}
}

// @Summary List records
// @Router /api/v1/{resource} [get]
func (h *ResourceHandler) List(ctx *fasthttp.RequestCtx) {
	var filterValues []string
	if h.def.FilterField != "" {
		raw := string(ctx.QueryArgs().Peek(h.def.FilterField))
		if raw != "" {
			filterValues = strings.Split(raw, ",")
		}
	}
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	records, err := h.uc.List(stdCtx, filterValues, limit, offset)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	out := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		out = append(out, records[i].Public())
	}
	h.respondSuccess(ctx, out, fmt.Sprintf("%s fetched successfully", h.def.Plural))
}

// @Summary Get one record
// @Router /api/v1/{resource}/{id} [get]
func (h *ResourceHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	record, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, record.Public(), fmt.Sprintf("%s fetched successfully", h.def.Label))
}

// @Summary Create record
// @Router /api/v1/{resource} [post]
func (h *ResourceHandler) Create(ctx *fasthttp.RequestCtx) {
	body := requestBody(ctx)
	blob, _ := ctx.UserValue(transport.CtxKeyFile).(*domain.Blob)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	record, err := h.uc.Create(stdCtx, transport.PrincipalID(ctx), body, blob)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, record.Public(), fmt.Sprintf("%s created successfully", h.def.Label))
}

// @Summary Update record
// @Router /api/v1/{resource}/{id} [put]
func (h *ResourceHandler) Update(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	body := requestBody(ctx)
	blob, _ := ctx.UserValue(transport.CtxKeyFile).(*domain.Blob)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	record, err := h.uc.Update(stdCtx, transport.PrincipalID(ctx), id, body, blob)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, record.Public(), fmt.Sprintf("%s updated successfully", h.def.Label))
}

// @Summary Delete record
// @Router /api/v1/{resource}/{id} [delete]
func (h *ResourceHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, transport.PrincipalID(ctx), id); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, nil, fmt.Sprintf("%s deleted successfully", h.def.Label))
}

func requestBody(ctx *fasthttp.RequestCtx) map[string]interface{} {
	if body, ok := ctx.UserValue(transport.CtxKeyBody).(map[string]interface{}); ok {
		return body
	}
	return map[string]interface{}{}
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
