package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/labstock/backend/internal/application/allocation"
	"github.com/labstock/backend/internal/domain/identity"
)

// OverflowHandler exposes the overflow approval queue
type OverflowHandler struct {
	BaseHandler
	overflowService OverflowService
}

// NewOverflowHandler creates a new OverflowHandler
func NewOverflowHandler(overflowService OverflowService) *OverflowHandler {
	return &OverflowHandler{overflowService: overflowService}
}

// List godoc
// @Summary      List overflow requests
// @Description  Returns overflow requests visible to the caller
// @Tags         overflow-requests
// @Produce      json
// @Param        department query string false "Department"
// @Param        status query string false "pending, approved or rejected"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]allocation.OverflowRequestResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /overflow-requests [get]
func (h *OverflowHandler) List(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var filter allocation.RequestListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	requests, err := h.overflowService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessList(c, requests)
}

// Approve godoc
// @Summary      Approve overflow request
// @Description  Restores the excess to the need's remaining allocation. Nothing is issued; the department issues again against the extended plan
// @Tags         overflow-requests
// @Produce      json
// @Param        id path int true "Overflow request ID"
// @Success      200 {object} dto.Response{data=allocation.OverflowRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /overflow-requests/{id}/approve [post]
func (h *OverflowHandler) Approve(c *gin.Context) {
	h.resolve(c, func(ctx context.Context, actor identity.Principal, id int64) (*allocation.OverflowRequestResponse, error) {
		return h.overflowService.Approve(ctx, actor, id)
	})
}

// Reject godoc
// @Summary      Reject overflow request
// @Description  Closes the request and leaves the plan unchanged
// @Tags         overflow-requests
// @Produce      json
// @Param        id path int true "Overflow request ID"
// @Success      200 {object} dto.Response{data=allocation.OverflowRequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /overflow-requests/{id}/reject [post]
func (h *OverflowHandler) Reject(c *gin.Context) {
	h.resolve(c, func(ctx context.Context, actor identity.Principal, id int64) (*allocation.OverflowRequestResponse, error) {
		return h.overflowService.Reject(ctx, actor, id)
	})
}

type overflowResolution func(ctx context.Context, actor identity.Principal, id int64) (*allocation.OverflowRequestResponse, error)

func (h *OverflowHandler) resolve(c *gin.Context, fn overflowResolution) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	req, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}
