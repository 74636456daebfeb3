package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/labstock/backend/internal/application/allocation"
)

// StoreRequestHandler exposes the store request queue
type StoreRequestHandler struct {
	BaseHandler
	storeService StoreRequestService
}

// NewStoreRequestHandler creates a new StoreRequestHandler
func NewStoreRequestHandler(storeService StoreRequestService) *StoreRequestHandler {
	return &StoreRequestHandler{storeService: storeService}
}

// List godoc
// @Summary      List store requests
// @Description  Returns store request history visible to the caller
// @Tags         store-requests
// @Produce      json
// @Param        department query string false "Department"
// @Param        status query string false "pending, done, rejected, redirected or a redirected_* status"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]allocation.StoreRequestResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-requests [get]
func (h *StoreRequestHandler) List(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var filter allocation.RequestListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	requests, err := h.storeService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessList(c, requests)
}

// Submit godoc
// @Summary      Submit store request
// @Description  Queues a department's request for the store
// @Tags         store-requests
// @Accept       json
// @Produce      json
// @Param        request body allocation.StoreRequestSubmit true "Need and quantity"
// @Success      201 {object} dto.Response{data=allocation.StoreRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-requests [post]
func (h *StoreRequestHandler) Submit(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var req allocation.StoreRequestSubmit
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.storeService.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Process godoc
// @Summary      Process store request
// @Description  Runs the issuance for a pending request and records its outcome
// @Tags         store-requests
// @Produce      json
// @Param        id path int true "Store request ID"
// @Success      200 {object} dto.Response{data=allocation.StoreRequestProcessResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-requests/{id}/process [post]
func (h *StoreRequestHandler) Process(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.storeService.Process(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reject godoc
// @Summary      Reject store request
// @Description  Closes a pending request. The reason is optional
// @Tags         store-requests
// @Accept       json
// @Produce      json
// @Param        id path int true "Store request ID"
// @Param        request body allocation.StoreRequestReject false "Optional reason"
// @Success      200 {object} dto.Response{data=allocation.StoreRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-requests/{id}/reject [post]
func (h *StoreRequestHandler) Reject(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req allocation.StoreRequestReject
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	rejected, err := h.storeService.Reject(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rejected)
}
