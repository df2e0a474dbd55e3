package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/pkg/httpcontext"
	backupUC "github.com/fastygo/taskflow/usecase/backup"
)

type DataHandler struct {
	baseHandler
	uc *backupUC.UseCase
}

func NewDataHandler(uc *backupUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DataHandler {
	return &DataHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Export backup
// @Description Downloads tasks, settings, stats and owned items as one JSON file.
// @Tags data
// @Produce json
// @Router /api/v1/data/export [get]
func (h *DataHandler) Export(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	body, name, err := h.uc.Encode(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(body)
}

// @Summary Clear all data
// @Tags data
// @Router /api/v1/data [delete]
func (h *DataHandler) Clear(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Clear(stdCtx); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.logger.Warn("all documents cleared", zap.String("remote", httpcontext.RemoteIP(ctx)))
	ctx.SetStatusCode(http.StatusNoContent)
}
