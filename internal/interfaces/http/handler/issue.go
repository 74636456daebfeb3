package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labstock/backend/internal/application/allocation"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/interfaces/http/dto"
)

// IssueHandler handles direct issuance and the issue ledger
type IssueHandler struct {
	BaseHandler
	issuer Issuer
	ledger IssueLedger
}

// NewIssueHandler creates a new IssueHandler
func NewIssueHandler(issuer Issuer, ledger IssueLedger) *IssueHandler {
	return &IssueHandler{issuer: issuer, ledger: ledger}
}

// Issue godoc
// @Summary      Issue stock
// @Description  Attempts a direct issuance. Issued answers 201, overflow 202 (pending approval) and the remaining outcomes 200 with nothing changed
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        request body allocation.IssueRequest true "Department, need and quantity"
// @Success      201 {object} dto.Response{data=allocation.IssuanceResult}
// @Success      202 {object} dto.Response{data=allocation.IssuanceResult}
// @Success      200 {object} dto.Response{data=allocation.IssuanceResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /issues [post]
func (h *IssueHandler) Issue(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var req allocation.IssueRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.issuer.Issue(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(outcomeStatus(result.Outcome), dto.NewSuccessResponse(result))
}

// List godoc
// @Summary      List issue ledger
// @Description  Returns the issue ledger
// @Tags         issues
// @Produce      json
// @Param        department query string false "Department"
// @Param        need_id query int false "Need ID"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]allocation.IssueRecordResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /issues [get]
func (h *IssueHandler) List(c *gin.Context) {
	actor, ok := h.principal(c)
	if !ok {
		return
	}

	var filter allocation.IssueListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	records, err := h.ledger.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessList(c, records)
}

func outcomeStatus(o plan.IssuanceOutcome) int {
	switch o {
	case plan.OutcomeIssued:
		return http.StatusCreated
	case plan.OutcomeOverflow:
		return http.StatusAccepted
	default:
		return http.StatusOK
	}
}
