package handler

import (
	"context"

	"github.com/labstock/backend/internal/application/allocation"
	identityapp "github.com/labstock/backend/internal/application/identity"
	stockapp "github.com/labstock/backend/internal/application/stock"
	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/mock"
)

// typed returns args.Get(i) as *T, tolerating a nil return
func typed[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

func typedSlice[T any](args mock.Arguments, i int) []T {
	if v := args.Get(i); v != nil {
		return v.([]T)
	}
	return nil
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.TokenResponse, error) {
	args := m.Called(ctx, req)
	return typed[identityapp.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.TokenResponse, error) {
	args := m.Called(ctx, req)
	return typed[identityapp.TokenResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, access *auth.Claims, req identityapp.LogoutRequest) error {
	return m.Called(ctx, access, req).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, actor identity.Principal) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, actor)
	return typed[identityapp.UserResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor identity.Principal, req identityapp.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor identity.Principal) ([]identityapp.UserResponse, error) {
	args := m.Called(ctx, actor)
	return typedSlice[identityapp.UserResponse](args, 0), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, actor identity.Principal, req identityapp.CreateUserRequest) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return typed[identityapp.UserResponse](args, 0), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, actor identity.Principal, username string, req identityapp.ResetPasswordRequest) error {
	return m.Called(ctx, actor, username, req).Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, actor identity.Principal, username string) error {
	return m.Called(ctx, actor, username).Error(0)
}

type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Receive(ctx context.Context, actor identity.Principal, req stockapp.StockItemRequest) (*stockapp.StockItemResponse, error) {
	args := m.Called(ctx, actor, req)
	return typed[stockapp.StockItemResponse](args, 0), args.Error(1)
}

func (m *MockStockService) Update(ctx context.Context, actor identity.Principal, id int64, req stockapp.StockItemRequest) (*stockapp.StockItemResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return typed[stockapp.StockItemResponse](args, 0), args.Error(1)
}

func (m *MockStockService) Delete(ctx context.Context, actor identity.Principal, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockStockService) Get(ctx context.Context, id int64) (*stockapp.StockItemResponse, error) {
	args := m.Called(ctx, id)
	return typed[stockapp.StockItemResponse](args, 0), args.Error(1)
}

func (m *MockStockService) Search(ctx context.Context, filter stockapp.StockListFilter) ([]stockapp.StockItemResponse, error) {
	args := m.Called(ctx, filter)
	return typedSlice[stockapp.StockItemResponse](args, 0), args.Error(1)
}

type MockNeedService struct {
	mock.Mock
}

func (m *MockNeedService) GetPlan(ctx context.Context) (*allocation.PlanResponse, error) {
	args := m.Called(ctx)
	return typed[allocation.PlanResponse](args, 0), args.Error(1)
}

func (m *MockNeedService) LockPlan(ctx context.Context, actor identity.Principal) (*allocation.PlanResponse, error) {
	args := m.Called(ctx, actor)
	return typed[allocation.PlanResponse](args, 0), args.Error(1)
}

func (m *MockNeedService) Create(ctx context.Context, actor identity.Principal, req allocation.NeedRequest) (*allocation.NeedResponse, error) {
	args := m.Called(ctx, actor, req)
	return typed[allocation.NeedResponse](args, 0), args.Error(1)
}

func (m *MockNeedService) Update(ctx context.Context, actor identity.Principal, id int64, req allocation.NeedRequest) (*allocation.NeedResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return typed[allocation.NeedResponse](args, 0), args.Error(1)
}

func (m *MockNeedService) Delete(ctx context.Context, actor identity.Principal, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockNeedService) Get(ctx context.Context, actor identity.Principal, id int64) (*allocation.NeedResponse, error) {
	args := m.Called(ctx, actor, id)
	return typed[allocation.NeedResponse](args, 0), args.Error(1)
}

func (m *MockNeedService) List(ctx context.Context, actor identity.Principal, filter allocation.NeedListFilter) ([]allocation.NeedResponse, error) {
	args := m.Called(ctx, actor, filter)
	return typedSlice[allocation.NeedResponse](args, 0), args.Error(1)
}

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(ctx context.Context, actor identity.Principal, req allocation.IssueRequest) (*allocation.IssuanceResult, error) {
	args := m.Called(ctx, actor, req)
	return typed[allocation.IssuanceResult](args, 0), args.Error(1)
}

type MockIssueLedger struct {
	mock.Mock
}

func (m *MockIssueLedger) List(ctx context.Context, actor identity.Principal, filter allocation.IssueListFilter) ([]allocation.IssueRecordResponse, error) {
	args := m.Called(ctx, actor, filter)
	return typedSlice[allocation.IssueRecordResponse](args, 0), args.Error(1)
}

type MockOverflowService struct {
	mock.Mock
}

func (m *MockOverflowService) List(ctx context.Context, actor identity.Principal, filter allocation.RequestListFilter) ([]allocation.OverflowRequestResponse, error) {
	args := m.Called(ctx, actor, filter)
	return typedSlice[allocation.OverflowRequestResponse](args, 0), args.Error(1)
}

func (m *MockOverflowService) Approve(ctx context.Context, actor identity.Principal, id int64) (*allocation.OverflowRequestResponse, error) {
	args := m.Called(ctx, actor, id)
	return typed[allocation.OverflowRequestResponse](args, 0), args.Error(1)
}

func (m *MockOverflowService) Reject(ctx context.Context, actor identity.Principal, id int64) (*allocation.OverflowRequestResponse, error) {
	args := m.Called(ctx, actor, id)
	return typed[allocation.OverflowRequestResponse](args, 0), args.Error(1)
}

type MockStoreRequestService struct {
	mock.Mock
}

func (m *MockStoreRequestService) Submit(ctx context.Context, actor identity.Principal, req allocation.StoreRequestSubmit) (*allocation.StoreRequestResponse, error) {
	args := m.Called(ctx, actor, req)
	return typed[allocation.StoreRequestResponse](args, 0), args.Error(1)
}

func (m *MockStoreRequestService) Process(ctx context.Context, actor identity.Principal, id int64) (*allocation.StoreRequestProcessResult, error) {
	args := m.Called(ctx, actor, id)
	return typed[allocation.StoreRequestProcessResult](args, 0), args.Error(1)
}

func (m *MockStoreRequestService) Reject(ctx context.Context, actor identity.Principal, id int64, reason string) (*allocation.StoreRequestResponse, error) {
	args := m.Called(ctx, actor, id, reason)
	return typed[allocation.StoreRequestResponse](args, 0), args.Error(1)
}

func (m *MockStoreRequestService) List(ctx context.Context, actor identity.Principal, filter allocation.RequestListFilter) ([]allocation.StoreRequestResponse, error) {
	args := m.Called(ctx, actor, filter)
	return typedSlice[allocation.StoreRequestResponse](args, 0), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error {
	return p.err
}
