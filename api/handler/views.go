package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskkeeper/backend/pkg/httpcontext"
	"github.com/taskkeeper/backend/usecase/tasks"
	"github.com/taskkeeper/backend/usecase/views"
)

// ViewsHandler serves the derived read-only pages: the upcoming-by-date
// grouping and the dashboard summary.
type ViewsHandler struct {
	baseHandler
	store *tasks.Store
}

func NewViewsHandler(store *tasks.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *ViewsHandler {
	return &ViewsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

func (h *ViewsHandler) Upcoming(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}
	buckets := views.UpcomingBuckets(h.store.Tasks(), time.Now())
	h.respondSuccess(ctx, http.StatusOK, buckets, "")
}

func (h *ViewsHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}
	summary := views.BuildSummary(h.store.Tasks(), time.Now())
	h.respondSuccess(ctx, http.StatusOK, summary, "")
}
