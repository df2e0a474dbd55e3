package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/pkg/httpcontext"
	storeUC "github.com/fastygo/taskflow/usecase/store"
)

type StoreHandler struct {
	baseHandler
	uc *storeUC.UseCase
}

func NewStoreHandler(uc *storeUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Store catalog
// @Tags store
// @Router /api/v1/store [get]
func (h *StoreHandler) GetCatalog(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listing, err := h.uc.Listing(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, listing)
}

// @Summary Purchase item
// @Tags store
// @Failure 402 {object} transport.Envelope
// @Failure 409 {object} transport.Envelope
// @Router /api/v1/store/{id}/purchase [post]
func (h *StoreHandler) Purchase(ctx *fasthttp.RequestCtx) {
	itemID, _ := ctx.UserValue("id").(string)
	if itemID == "" {
		h.respondInvalid(ctx, "missing item id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	receipt, err := h.uc.Purchase(stdCtx, itemID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, receipt)
}
