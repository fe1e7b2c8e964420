package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskkeeper/backend/api/transport"
	"github.com/taskkeeper/backend/domain"
	"github.com/taskkeeper/backend/pkg/httpcontext"
	"github.com/taskkeeper/backend/usecase/tasks"
	"github.com/taskkeeper/backend/usecase/views"
)

type TaskHandler struct {
	baseHandler
	store *tasks.Store
}

func NewTaskHandler(store *tasks.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// List applies the list-view filters from query parameters: filter
// (all|completed|category), category_id, status, category, q, sort.
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}

	args := ctx.QueryArgs()
	query := views.ListQuery{
		Page:           views.PageFilter(string(args.Peek("filter"))),
		PageCategoryID: string(args.Peek("category_id")),
		Status:         views.StatusFilter(string(args.Peek("status"))),
		CategoryID:     string(args.Peek("category")),
		Search:         string(args.Peek("q")),
		Sort:           views.SortOrder(string(args.Peek("sort"))),
	}
	if query.Page == "" {
		query.Page = views.PageAll
	}

	result := views.ApplyList(h.store.Tasks(), query)
	h.respondSuccess(ctx, http.StatusOK, result, "")
}

func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	due, ok := parseDueDate(req.DueDate)
	if !ok {
		h.respondInvalid(ctx, "due_date must be RFC3339")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.store.AddTask(stdCtx, tasks.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    domain.Priority(req.Priority),
		CategoryID:  req.CategoryID,
		DueDate:     due,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, task, "Your new task has been created.")
}

func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	update := tasks.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		update.Priority = &p
	}
	if req.CategoryID != nil {
		update.CategoryID = req.CategoryID
	}
	if req.DueDate != nil {
		// an explicit empty string removes the due date
		if *req.DueDate == "" {
			update.ClearDueDate = true
		} else {
			due, ok := parseDueDate(*req.DueDate)
			if !ok {
				h.respondInvalid(ctx, "due_date must be RFC3339")
				return
			}
			update.DueDate = due
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.store.UpdateTask(stdCtx, id, update)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task, "Your task has been updated.")
}

func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.store.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil, "Your task has been removed.")
}

func (h *TaskHandler) Toggle(ctx *fasthttp.RequestCtx) {
	if !h.ensureActor(ctx, h.store) {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.store.ToggleTaskCompletion(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	message := "Task completed"
	if !task.Completed {
		message = "Task marked as incomplete"
	}
	h.respondSuccess(ctx, http.StatusOK, task, message)
}

func parseDueDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
