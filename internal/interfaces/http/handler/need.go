package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/labstock/backend/internal/application/allocation"
)

// NeedHandler exposes the yearly plan and its department needs
type NeedHandler struct {
	BaseHandler
	needService NeedService
}

// NewNeedHandler creates a new NeedHandler
func NewNeedHandler(needService NeedService) *NeedHandler {
	return &NeedHandler{needService: needService}
}

// GetPlan godoc
// @Summary      Get plan
// @Description  Returns the plan year and lock state
// @Tags         plan
// @Produce      json
// @Success      200 {object} dto.Response{data=allocation.PlanResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plan [get]
func (h *NeedHandler) GetPlan(c *gin.Context) {
	p, err := h.needService.GetPlan(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// LockPlan godoc
// @Summary      Lock plan
// @Description  Locks the plan. Locking is one-way
// @Tags         plan
// @Produce      json
// @Success      200 {object} dto.Response{data=allocation.PlanResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plan/lock [post]
func (h *NeedHandler) LockPlan(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	p, err := h.needService.LockPlan(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// List godoc
// @Summary      List needs
// @Description  Returns needs visible to the caller
// @Tags         needs
// @Produce      json
// @Param        department query string false "Department (administrators, quality and storage only)"
// @Param        search query string false "Item name substring"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]allocation.NeedResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /needs [get]
func (h *NeedHandler) List(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var filter allocation.NeedListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	needs, err := h.needService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessList(c, needs)
}

// Get godoc
// @Summary      Get need
// @Description  Returns one need
// @Tags         needs
// @Produce      json
// @Param        id path int true "Need ID"
// @Success      200 {object} dto.Response{data=allocation.NeedResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /needs/{id} [get]
func (h *NeedHandler) Get(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	need, err := h.needService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, need)
}

// Create godoc
// @Summary      Create need
// @Description  Adds a need to the caller's department
// @Tags         needs
// @Accept       json
// @Produce      json
// @Param        request body allocation.NeedRequest true "Need entry"
// @Success      201 {object} dto.Response{data=allocation.NeedResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /needs [post]
func (h *NeedHandler) Create(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var req allocation.NeedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	need, err := h.needService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, need)
}

// Update godoc
// @Summary      Update need
// @Description  Revises a need. A new plan quantity keeps what was already issued
// @Tags         needs
// @Accept       json
// @Produce      json
// @Param        id path int true "Need ID"
// @Param        request body allocation.NeedRequest true "Need entry"
// @Success      200 {object} dto.Response{data=allocation.NeedResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /needs/{id} [put]
func (h *NeedHandler) Update(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req allocation.NeedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	need, err := h.needService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, need)
}

// Delete godoc
// @Summary      Delete need
// @Description  Removes a need without pending requests
// @Tags         needs
// @Produce      json
// @Param        id path int true "Need ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /needs/{id} [delete]
func (h *NeedHandler) Delete(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.needService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
