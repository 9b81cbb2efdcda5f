package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/montasim/school-management-backend-sub003/api/transport"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/monitor"
	"github.com/montasim/school-management-backend-sub003/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"postgresql": status.PostgreSQL,
			"redis":      status.Redis,
			"ledger": map[string]interface{}{
				"online":          status.Ledger,
				"pending_uploads": status.PendingUploads,
			},
		},
	}

	if status.PostgreSQL && status.Redis {
		h.respondSuccess(ctx, payload, "service healthy")
		return
	}
	// failure envelopes carry no data; the dependency detail rides in the
	// polymorphic message instead
	h.respondJSON(ctx, transport.Failure(http.StatusServiceUnavailable, payload))
}
