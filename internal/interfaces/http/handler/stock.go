package handler

import (
	"github.com/gin-gonic/gin"
	stockapp "github.com/labstock/backend/internal/application/stock"
)

// StockHandler exposes the stock ledger
type StockHandler struct {
	BaseHandler
	stockService StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Search godoc
// @Summary      Search stock
// @Description  Lists stock items filtered by name substring, category and expiry
// @Tags         stock
// @Produce      json
// @Param        search query string false "Name substring, case-insensitive"
// @Param        category query string false "Category"
// @Param        expiry query string false "ok, expiring_soon, expired or unknown"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]stockapp.StockItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stock [get]
func (h *StockHandler) Search(c *gin.Context) {
	var filter stockapp.StockListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, err := h.stockService.Search(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessList(c, items)
}

// Get godoc
// @Summary      Get stock item
// @Description  Returns one stock item
// @Tags         stock
// @Produce      json
// @Param        id path int true "Stock item ID"
// @Success      200 {object} dto.Response{data=stockapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stock/{id} [get]
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.stockService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Receive godoc
// @Summary      Receive stock
// @Description  Records an incoming stock item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stockapp.StockItemRequest true "Stock item"
// @Success      201 {object} dto.Response{data=stockapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stock [post]
func (h *StockHandler) Receive(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var req stockapp.StockItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.stockService.Receive(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update godoc
// @Summary      Correct stock item
// @Description  Corrects a stock item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id path int true "Stock item ID"
// @Param        request body stockapp.StockItemRequest true "Stock item"
// @Success      200 {object} dto.Response{data=stockapp.StockItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stock/{id} [put]
func (h *StockHandler) Update(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req stockapp.StockItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.stockService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete stock item
// @Description  Removes a stock item
// @Tags         stock
// @Produce      json
// @Param        id path int true "Stock item ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stock/{id} [delete]
func (h *StockHandler) Delete(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.stockService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
