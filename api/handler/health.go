package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskkeeper/backend/api/transport"
	"github.com/taskkeeper/backend/internal/infrastructure/monitor"
	"github.com/taskkeeper/backend/pkg/httpcontext"
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

func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"store":     status.Store,
		"snapshot": map[string]interface{}{
			"online": status.Snapshot,
			"pages":  status.PageCount,
		},
	}

	if status.Snapshot {
		h.respondSuccess(ctx, http.StatusOK, payload, "")
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable,
		transport.NewError("DEGRADED", "snapshot storage unhealthy"))
}
