package router

import (
	"github.com/gin-gonic/gin"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/interfaces/http/handler"
	"github.com/labstock/backend/internal/interfaces/http/middleware"
)

// Handlers are the API handlers mounted under /api/<version>
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Stock        *handler.StockHandler
	Need         *handler.NeedHandler
	Issue        *handler.IssueHandler
	Overflow     *handler.OverflowHandler
	StoreRequest *handler.StoreRequestHandler
}

// Guards are the middleware chains placed in front of the routes
type Guards struct {
	// Authenticate runs on every route except login and refresh
	Authenticate []gin.HandlerFunc
	// Credentials runs on login and refresh only
	Credentials []gin.HandlerFunc
}

// APIGroups returns the route table of the allocation API.
// Role checks here mirror the ones the services enforce.
func APIGroups(h Handlers, g Guards) []RouteRegistrar {
	storage := middleware.RequireDepartment(plan.DepartmentStorage)
	quality := middleware.RequireDepartment(plan.DepartmentQuality)
	deptStaff := middleware.RequireDepartmentStaff()
	admin := middleware.RequireAdmin()

	login := NewDomainGroup("auth", "/auth").Use(g.Credentials...)
	login.POST("/login", h.Auth.Login)
	login.POST("/refresh", h.Auth.Refresh)

	session := NewDomainGroup("session", "/auth").Use(g.Authenticate...)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("users", "/users").Use(g.Authenticate...).Use(admin)
	users.GET("", h.User.List)
	users.POST("", h.User.Create)
	users.PUT("/:username/password", h.User.ResetPassword)
	users.DELETE("/:username", h.User.Delete)

	stock := NewDomainGroup("stock", "/stock").Use(g.Authenticate...)
	stock.GET("", h.Stock.Search)
	stock.GET("/:id", h.Stock.Get)
	stock.POST("", storage, h.Stock.Receive)
	stock.PUT("/:id", storage, h.Stock.Update)
	stock.DELETE("/:id", storage, h.Stock.Delete)

	planGroup := NewDomainGroup("plan", "/plan").Use(g.Authenticate...)
	planGroup.GET("", h.Need.GetPlan)
	planGroup.POST("/lock", admin, h.Need.LockPlan)

	needs := NewDomainGroup("needs", "/needs").Use(g.Authenticate...)
	needs.GET("", h.Need.List)
	needs.GET("/:id", h.Need.Get)
	needs.POST("", deptStaff, h.Need.Create)
	needs.PUT("/:id", deptStaff, h.Need.Update)
	needs.DELETE("/:id", deptStaff, h.Need.Delete)

	issues := NewDomainGroup("issues", "/issues").Use(g.Authenticate...)
	issues.GET("", h.Issue.List)
	issues.POST("", storage, h.Issue.Issue)

	overflow := NewDomainGroup("overflow", "/overflow-requests").Use(g.Authenticate...)
	overflow.GET("", h.Overflow.List)
	overflow.POST("/:id/approve", quality, h.Overflow.Approve)
	overflow.POST("/:id/reject", quality, h.Overflow.Reject)

	store := NewDomainGroup("store-requests", "/store-requests").Use(g.Authenticate...)
	store.GET("", h.StoreRequest.List)
	store.POST("", deptStaff, h.StoreRequest.Submit)
	store.POST("/:id/process", storage, h.StoreRequest.Process)
	store.POST("/:id/reject", storage, h.StoreRequest.Reject)

	return []RouteRegistrar{login, session, users, stock, planGroup, needs, issues, overflow, store}
}
