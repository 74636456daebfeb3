package handler

import (
	"net/http"
	"testing"

	"github.com/labstock/backend/internal/application/allocation"
	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func overflowRouter(svc *MockOverflowService, p identity.Principal) http.Handler {
	h := NewOverflowHandler(svc)
	r := newRouter(&p)
	r.GET("/overflow-requests", h.List)
	r.POST("/overflow-requests/:id/approve", h.Approve)
	r.POST("/overflow-requests/:id/reject", h.Reject)
	return r
}

func storeRequestRouter(svc *MockStoreRequestService, p identity.Principal) http.Handler {
	h := NewStoreRequestHandler(svc)
	r := newRouter(&p)
	r.GET("/store-requests", h.List)
	r.POST("/store-requests", h.Submit)
	r.POST("/store-requests/:id/process", h.Process)
	r.POST("/store-requests/:id/reject", h.Reject)
	return r
}

func TestOverflowHandler_List(t *testing.T) {
	svc := new(MockOverflowService)
	filter := allocation.RequestListFilter{Status: string(plan.OverflowPending)}
	svc.On("List", mock.Anything, qaStaff, filter).Return([]allocation.OverflowRequestResponse{
		{ID: 1, Status: plan.OverflowPending, ExcessQty: decimal.NewFromInt(2)},
	}, nil)

	w := do(overflowRouter(svc, qaStaff), http.MethodGet, "/overflow-requests?status=pending", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Meta.Total)
	svc.AssertExpectations(t)
}

func TestOverflowHandler_Resolve(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		svc := new(MockOverflowService)
		svc.On("Approve", mock.Anything, qaStaff, int64(5)).
			Return(&allocation.OverflowRequestResponse{ID: 5, Status: plan.OverflowApproved, ResolvedBy: "okk"}, nil)

		w := do(overflowRouter(svc, qaStaff), http.MethodPost, "/overflow-requests/5/approve", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "approved", decode(t, w).Data.(map[string]any)["status"])
	})

	t.Run("reject", func(t *testing.T) {
		svc := new(MockOverflowService)
		svc.On("Reject", mock.Anything, qaStaff, int64(5)).
			Return(&allocation.OverflowRequestResponse{ID: 5, Status: plan.OverflowRejected}, nil)

		w := do(overflowRouter(svc, qaStaff), http.MethodPost, "/overflow-requests/5/reject", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("second resolution is a conflict", func(t *testing.T) {
		svc := new(MockOverflowService)
		svc.On("Approve", mock.Anything, qaStaff, int64(5)).Return(nil, shared.ErrAlreadyResolved)

		w := do(overflowRouter(svc, qaStaff), http.MethodPost, "/overflow-requests/5/approve", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyResolved, errorCode(t, w))
	})

	t.Run("approval without stock", func(t *testing.T) {
		svc := new(MockOverflowService)
		svc.On("Approve", mock.Anything, qaStaff, int64(5)).Return(nil, shared.ErrInsufficientStock)

		w := do(overflowRouter(svc, qaStaff), http.MethodPost, "/overflow-requests/5/approve", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := do(overflowRouter(new(MockOverflowService), qaStaff), http.MethodPost, "/overflow-requests/x/approve", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad id answers before the service is needed", func(t *testing.T) {
		h := NewOverflowHandler(nil)
		r := newRouter(&qaStaff)
		r.POST("/overflow-requests/:id/approve", h.Approve)
		r.POST("/overflow-requests/:id/reject", h.Reject)

		for _, path := range []string{"/overflow-requests/x/approve", "/overflow-requests/x/reject"} {
			assert.NotPanics(t, func() {
				w := do(r, http.MethodPost, path, nil)
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}, path)
		}
	})
}

func TestStoreRequestHandler_Submit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockStoreRequestService)
		svc.On("Submit", mock.Anything, waterStaff, mock.MatchedBy(func(req allocation.StoreRequestSubmit) bool {
			return req.NeedID == 1 && req.Quantity.Equal(decimal.NewFromInt(3))
		})).Return(&allocation.StoreRequestResponse{ID: 1, Status: plan.StoreRequestPending}, nil)

		w := do(storeRequestRouter(svc, waterStaff), http.MethodPost, "/store-requests",
			map[string]any{"need_id": 1, "quantity": "3"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "pending", decode(t, w).Data.(map[string]any)["status"])
	})

	t.Run("need id required", func(t *testing.T) {
		w := do(storeRequestRouter(new(MockStoreRequestService), waterStaff), http.MethodPost, "/store-requests",
			map[string]any{"quantity": "3"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoreRequestHandler_Process(t *testing.T) {
	tests := []struct {
		outcome plan.IssuanceOutcome
		status  string
	}{
		{plan.OutcomeIssued, "done"},
		{plan.OutcomeOverflow, "redirected_overflow"},
		{plan.OutcomeInsufficientStock, "redirected_insufficient_stock"},
		{plan.OutcomePlanNotFound, "redirected_plan_not_found"},
		{plan.OutcomeItemNotFound, "redirected_item_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			svc := new(MockStoreRequestService)
			outcome := tt.outcome
			svc.On("Process", mock.Anything, storeStaff, int64(9)).Return(&allocation.StoreRequestProcessResult{
				Request: allocation.StoreRequestResponse{
					ID:         9,
					Status:     outcome.StoreRequestStatus(),
					Redirected: outcome != plan.OutcomeIssued,
					Outcome:    &outcome,
				},
				Issuance: allocation.IssuanceResult{Outcome: outcome},
			}, nil)

			w := do(storeRequestRouter(svc, storeStaff), http.MethodPost, "/store-requests/9/process", nil)

			assert.Equal(t, http.StatusOK, w.Code)
			data := decode(t, w).Data.(map[string]any)
			request := data["request"].(map[string]any)
			assert.Equal(t, tt.status, request["status"])
			assert.Equal(t, tt.outcome.String(), request["outcome"])
			assert.Equal(t, tt.outcome.String(), data["issuance"].(map[string]any)["outcome"])
		})
	}

	t.Run("already processed", func(t *testing.T) {
		svc := new(MockStoreRequestService)
		svc.On("Process", mock.Anything, storeStaff, int64(9)).Return(nil, shared.ErrAlreadyResolved)

		w := do(storeRequestRouter(svc, storeStaff), http.MethodPost, "/store-requests/9/process", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestStoreRequestHandler_Reject(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		svc := new(MockStoreRequestService)
		svc.On("Reject", mock.Anything, storeStaff, int64(9), "нет в наличии").
			Return(&allocation.StoreRequestResponse{ID: 9, Status: plan.StoreRequestRejected, RejectReason: "нет в наличии"}, nil)

		w := do(storeRequestRouter(svc, storeStaff), http.MethodPost, "/store-requests/9/reject",
			allocation.StoreRequestReject{Reason: "нет в наличии"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("without body", func(t *testing.T) {
		svc := new(MockStoreRequestService)
		svc.On("Reject", mock.Anything, storeStaff, int64(9), "").
			Return(&allocation.StoreRequestResponse{ID: 9, Status: plan.StoreRequestRejected}, nil)

		w := do(storeRequestRouter(svc, storeStaff), http.MethodPost, "/store-requests/9/reject", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestStoreRequestHandler_List(t *testing.T) {
	svc := new(MockStoreRequestService)
	filter := allocation.RequestListFilter{OrderDir: "asc"}
	svc.On("List", mock.Anything, waterStaff, filter).Return(nil, nil)

	w := do(storeRequestRouter(svc, waterStaff), http.MethodGet, "/store-requests?order_dir=asc", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode(t, w).Meta.Total)

	w = do(storeRequestRouter(svc, waterStaff), http.MethodGet, "/store-requests?order_dir=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
