package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/usecase/filter"
	settingsUC "github.com/fastygo/taskflow/usecase/settings"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc       *taskUC.UseCase
	settings *settingsUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, settings *settingsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		settings:    settings,
	}
}

// @Summary List tasks
// @Description Filters by search/category/priority and sorts by the query or the saved preference.
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	criteria := filter.Criteria{
		Search:   strings.TrimSpace(string(args.Peek("search"))),
		Category: string(args.Peek("category")),
		Priority: string(args.Peek("priority")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order := string(args.Peek("sort"))
	if order == "" {
		prefs, err := h.settings.Get(stdCtx)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		order = prefs.Preferences.TaskSortOrder
	}

	tasks, err := h.uc.ListTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	visible := filter.Sort(filter.Apply(tasks, criteria), order)
	summary := filter.Summarize(visible)

	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(visible, transport.TaskListMeta{
		Total:     summary.Total,
		Completed: summary.Completed,
		Progress:  summary.Progress,
		Sort:      order,
	}))
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	fields, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if fields.Priority == "" {
		prefs, err := h.settings.Get(stdCtx)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		fields.Priority = prefs.Preferences.DefaultTaskPriority
	}

	created, err := h.uc.CreateTask(stdCtx, fields)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	fields, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, id, fields)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Toggle task completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	toggled, err := h.uc.ToggleCompletion(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, toggled)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (domain.TaskFields, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return domain.TaskFields{}, false
	}
	fields, err := req.Fields()
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return domain.TaskFields{}, false
	}
	return fields, true
}
