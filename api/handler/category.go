package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskkeeper/backend/api/transport"
	"github.com/taskkeeper/backend/pkg/httpcontext"
	"github.com/taskkeeper/backend/usecase/tasks"
)

type CategoryHandler struct {
	baseHandler
	store *tasks.Store
}

func NewCategoryHandler(store *tasks.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

func (h *CategoryHandler) List(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.store.Categories(), "")
}

func (h *CategoryHandler) Create(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}

	var req transport.CategoryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	category, err := h.store.AddCategory(stdCtx, req.Name, req.Color)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, category, req.Name+" category has been created.")
}

func (h *CategoryHandler) Delete(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing category id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.store.DeleteCategory(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil, "The category has been removed.")
}
