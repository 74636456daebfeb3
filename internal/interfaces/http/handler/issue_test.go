package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstock/backend/internal/application/allocation"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func issueRouter(issuer *MockIssuer, ledger *MockIssueLedger) http.Handler {
	h := NewIssueHandler(issuer, ledger)
	r := newRouter(&storeStaff)
	r.POST("/issues", h.Issue)
	r.GET("/issues", h.List)
	return r
}

func issueBody(qty int64) map[string]any {
	return map[string]any{
		"department": plan.DepartmentWater,
		"need_id":    1,
		"quantity":   decimal.NewFromInt(qty),
	}
}

func TestIssueHandler_Outcomes(t *testing.T) {
	stockLeft := decimal.NewFromInt(3)
	tests := []struct {
		name       string
		result     allocation.IssuanceResult
		wantStatus int
		wantKey    string
	}{
		{
			name: "issued",
			result: allocation.IssuanceResult{
				Outcome: plan.OutcomeIssued,
				Issue:   &allocation.IssueRecordResponse{ID: 1},
			},
			wantStatus: http.StatusCreated,
			wantKey:    "issue",
		},
		{
			name: "overflow",
			result: allocation.IssuanceResult{
				Outcome:         plan.OutcomeOverflow,
				OverflowRequest: &allocation.OverflowRequestResponse{ID: 1, Status: plan.OverflowPending},
			},
			wantStatus: http.StatusAccepted,
			wantKey:    "overflow_request",
		},
		{
			name:       "insufficient stock",
			result:     allocation.IssuanceResult{Outcome: plan.OutcomeInsufficientStock, StockRemaining: &stockLeft},
			wantStatus: http.StatusOK,
			wantKey:    "stock_remaining",
		},
		{
			name:       "plan not found",
			result:     allocation.IssuanceResult{Outcome: plan.OutcomePlanNotFound},
			wantStatus: http.StatusOK,
		},
		{
			name:       "item not found",
			result:     allocation.IssuanceResult{Outcome: plan.OutcomeItemNotFound},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := new(MockIssuer)
			result := tt.result
			issuer.On("Issue", mock.Anything, storeStaff, mock.MatchedBy(func(req allocation.IssueRequest) bool {
				return req.Department == plan.DepartmentWater && req.NeedID == 1 && req.Quantity.Equal(decimal.NewFromInt(4))
			})).Return(&result, nil)

			w := do(issueRouter(issuer, new(MockIssueLedger)), http.MethodPost, "/issues", issueBody(4))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.True(t, resp.Success)
			data := resp.Data.(map[string]any)
			assert.Equal(t, tt.result.Outcome.String(), data["outcome"])
			if tt.wantKey != "" {
				assert.Contains(t, data, tt.wantKey)
			}
			issuer.AssertExpectations(t)
		})
	}
}

func TestIssueHandler_Errors(t *testing.T) {
	t.Run("missing department", func(t *testing.T) {
		body := issueBody(4)
		delete(body, "department")

		w := do(issueRouter(new(MockIssuer), new(MockIssueLedger)), http.MethodPost, "/issues", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		issuer := new(MockIssuer)
		issuer.On("Issue", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrForbidden)

		w := do(issueRouter(issuer, new(MockIssueLedger)), http.MethodPost, "/issues", issueBody(4))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		issuer := new(MockIssuer)
		issuer.On("Issue", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.NewPersistenceError("commit issuance", errors.New("database is locked")))

		w := do(issueRouter(issuer, new(MockIssueLedger)), http.MethodPost, "/issues", issueBody(4))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodePersistence, errorCode(t, w))
	})
}

func TestIssueHandler_List(t *testing.T) {
	ledger := new(MockIssueLedger)
	filter := allocation.IssueListFilter{NeedID: 1}
	ledger.On("List", mock.Anything, storeStaff, filter).Return([]allocation.IssueRecordResponse{
		{ID: 1, NeedID: 1, Quantity: decimal.NewFromInt(4)},
	}, nil)

	w := do(issueRouter(new(MockIssuer), ledger), http.MethodGet, "/issues?need_id=1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	ledger.AssertExpectations(t)
}
