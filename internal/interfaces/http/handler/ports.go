package handler

import (
	"context"

	"github.com/labstock/backend/internal/application/allocation"
	identityapp "github.com/labstock/backend/internal/application/identity"
	stockapp "github.com/labstock/backend/internal/application/stock"
	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/infrastructure/auth"
)

// The interfaces below are the slices of the application services the
// handlers call. The concrete services satisfy them.

type AuthService interface {
	Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.TokenResponse, error)
	Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.TokenResponse, error)
	Logout(ctx context.Context, access *auth.Claims, req identityapp.LogoutRequest) error
	Me(ctx context.Context, actor identity.Principal) (*identityapp.UserResponse, error)
	ChangePassword(ctx context.Context, actor identity.Principal, req identityapp.ChangePasswordRequest) error
}

type UserService interface {
	List(ctx context.Context, actor identity.Principal) ([]identityapp.UserResponse, error)
	Create(ctx context.Context, actor identity.Principal, req identityapp.CreateUserRequest) (*identityapp.UserResponse, error)
	ResetPassword(ctx context.Context, actor identity.Principal, username string, req identityapp.ResetPasswordRequest) error
	Delete(ctx context.Context, actor identity.Principal, username string) error
}

type StockService interface {
	Receive(ctx context.Context, actor identity.Principal, req stockapp.StockItemRequest) (*stockapp.StockItemResponse, error)
	Update(ctx context.Context, actor identity.Principal, id int64, req stockapp.StockItemRequest) (*stockapp.StockItemResponse, error)
	Delete(ctx context.Context, actor identity.Principal, id int64) error
	Get(ctx context.Context, id int64) (*stockapp.StockItemResponse, error)
	Search(ctx context.Context, filter stockapp.StockListFilter) ([]stockapp.StockItemResponse, error)
}

type NeedService interface {
	GetPlan(ctx context.Context) (*allocation.PlanResponse, error)
	LockPlan(ctx context.Context, actor identity.Principal) (*allocation.PlanResponse, error)
	Create(ctx context.Context, actor identity.Principal, req allocation.NeedRequest) (*allocation.NeedResponse, error)
	Update(ctx context.Context, actor identity.Principal, id int64, req allocation.NeedRequest) (*allocation.NeedResponse, error)
	Delete(ctx context.Context, actor identity.Principal, id int64) error
	Get(ctx context.Context, actor identity.Principal, id int64) (*allocation.NeedResponse, error)
	List(ctx context.Context, actor identity.Principal, filter allocation.NeedListFilter) ([]allocation.NeedResponse, error)
}

type Issuer interface {
	Issue(ctx context.Context, actor identity.Principal, req allocation.IssueRequest) (*allocation.IssuanceResult, error)
}

type IssueLedger interface {
	List(ctx context.Context, actor identity.Principal, filter allocation.IssueListFilter) ([]allocation.IssueRecordResponse, error)
}

type OverflowService interface {
	List(ctx context.Context, actor identity.Principal, filter allocation.RequestListFilter) ([]allocation.OverflowRequestResponse, error)
	Approve(ctx context.Context, actor identity.Principal, id int64) (*allocation.OverflowRequestResponse, error)
	Reject(ctx context.Context, actor identity.Principal, id int64) (*allocation.OverflowRequestResponse, error)
}

type StoreRequestService interface {
	Submit(ctx context.Context, actor identity.Principal, req allocation.StoreRequestSubmit) (*allocation.StoreRequestResponse, error)
	Process(ctx context.Context, actor identity.Principal, id int64) (*allocation.StoreRequestProcessResult, error)
	Reject(ctx context.Context, actor identity.Principal, id int64, reason string) (*allocation.StoreRequestResponse, error)
	List(ctx context.Context, actor identity.Principal, filter allocation.RequestListFilter) ([]allocation.StoreRequestResponse, error)
}

var (
	_ AuthService         = (*identityapp.AuthService)(nil)
	_ UserService         = (*identityapp.UserService)(nil)
	_ StockService        = (*stockapp.StockService)(nil)
	_ NeedService         = (*allocation.NeedService)(nil)
	_ Issuer              = (*allocation.Coordinator)(nil)
	_ IssueLedger         = (*allocation.IssueService)(nil)
	_ OverflowService     = (*allocation.OverflowService)(nil)
	_ StoreRequestService = (*allocation.StoreRequestService)(nil)
)
