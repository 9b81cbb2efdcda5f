package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/montasim/school-management-backend-sub003/api/transport"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/storage"
	"github.com/montasim/school-management-backend-sub003/pkg/httpcontext"
)

// FileHandler serves stored blobs by their internal id. The links records
// expose all point here.
type FileHandler struct {
	baseHandler
	store storage.Store
}

func NewFileHandler(store storage.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary Download a stored file
// @Router /files/{id} [get]
func (h *FileHandler) Get(ctx *fasthttp.RequestCtx) {
	fileID, _ := ctx.UserValue("id").(string)
	if fileID == "" {
		h.respondJSON(ctx, transport.Failure(http.StatusBadRequest, "missing file id"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	blob, err := h.store.Open(stdCtx, fileID)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	ctx.Response.Header.SetContentType(blob.ContentType)
	if ctx.QueryArgs().Has("download") {
		name := blob.Name
		if name == "" {
			name = fileID
		}
		ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(blob.Content)
}
