package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/usecase/calendar"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type CalendarHandler struct {
	baseHandler
	tasks *taskUC.UseCase
	now   func() time.Time
}

func NewCalendarHandler(tasks *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		now:         time.Now,
	}
}

// @Summary Month grid
// @Description 42 day cells for ?year=&month= (defaults to the current month), with
// @Description per-day indicators and the tasks due on ?selected=YYYY-MM-DD.
// @Tags calendar
// @Router /api/v1/calendar [get]
func (h *CalendarHandler) GetMonth(ctx *fasthttp.RequestCtx) {
	today := domain.DateOf(h.now())
	args := ctx.QueryArgs()

	year := parseInt(string(args.Peek("year")), today.Year)
	month := parseInt(string(args.Peek("month")), int(today.Month))
	if month < 1 || month > 12 || year < 1 {
		h.respondInvalid(ctx, "month must be 1-12 and year positive")
		return
	}

	opts := calendar.Options{Today: today}
	if raw := string(args.Peek("selected")); raw != "" {
		selected, err := domain.ParseDate(raw)
		if err != nil {
			h.respondInvalid(ctx, "selected must be YYYY-MM-DD")
			return
		}
		opts.Selected = &selected
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.tasks.ListTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, calendar.Build(year, time.Month(month), tasks, opts))
}
