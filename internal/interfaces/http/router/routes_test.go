package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/auth"
	"github.com/labstock/backend/internal/interfaces/http/handler"
	"github.com/labstock/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
)

// tokenTable authenticates a bearer token by looking it up
type tokenTable map[string]identity.Principal

func (t tokenTable) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	p, ok := t[token]
	if !ok {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	}
	return &auth.Claims{Username: p.Username, Role: p.Role, Department: p.Department}, nil
}

var tokens = tokenTable{
	"water": {Username: "voda", Role: identity.RoleUser, Department: plan.DepartmentWater},
	"store": {Username: "sklad", Role: identity.RoleUser, Department: plan.DepartmentStorage},
	"qa":    {Username: "okk", Role: identity.RoleUser, Department: plan.DepartmentQuality},
	"admin": {Username: "admin", Role: identity.RoleAdmin, Department: plan.DepartmentStorage},
}

// apiEngine mounts the API with handlers that have no services behind them.
// Requests stopped by a guard never reach a handler; requests that get past
// the guards are built to fail request validation with 400.
func apiEngine() *gin.Engine {
	middleware.SetupValidator()
	engine := gin.New()
	h := Handlers{
		Auth:         handler.NewAuthHandler(nil),
		User:         handler.NewUserHandler(nil),
		Stock:        handler.NewStockHandler(nil),
		Need:         handler.NewNeedHandler(nil),
		Issue:        handler.NewIssueHandler(nil, nil),
		Overflow:     handler.NewOverflowHandler(nil),
		StoreRequest: handler.NewStoreRequestHandler(nil),
	}
	g := Guards{Authenticate: []gin.HandlerFunc{middleware.JWTAuthMiddleware(tokens)}}
	NewRouter(engine).Register(APIGroups(h, g)...).Setup()
	return engine
}

func call(engine *gin.Engine, method, path, token string) int {
	req := httptest.NewRequest(method, path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestAPIGroups_Guards(t *testing.T) {
	engine := apiEngine()

	tests := []struct {
		method  string
		path    string
		allowed []string
		denied  []string
	}{
		{http.MethodPost, "/api/v1/users", []string{"admin"}, []string{"water", "store", "qa"}},
		{http.MethodPut, "/api/v1/users/voda/password", []string{"admin"}, []string{"store"}},
		{http.MethodPost, "/api/v1/stock", []string{"store", "admin"}, []string{"water", "qa"}},
		{http.MethodPut, "/api/v1/stock/x", []string{"store", "admin"}, []string{"water"}},
		{http.MethodDelete, "/api/v1/stock/x", []string{"store", "admin"}, []string{"qa"}},
		{http.MethodPost, "/api/v1/needs", []string{"water", "qa"}, []string{"store", "admin"}},
		{http.MethodPut, "/api/v1/needs/x", []string{"water"}, []string{"store", "admin"}},
		{http.MethodDelete, "/api/v1/needs/x", []string{"water"}, []string{"admin"}},
		{http.MethodPost, "/api/v1/issues", []string{"store", "admin"}, []string{"water", "qa"}},
		{http.MethodPost, "/api/v1/overflow-requests/x/approve", []string{"qa", "admin"}, []string{"water", "store"}},
		{http.MethodPost, "/api/v1/overflow-requests/x/reject", []string{"qa", "admin"}, []string{"store"}},
		{http.MethodPost, "/api/v1/store-requests", []string{"water"}, []string{"store", "admin"}},
		{http.MethodPost, "/api/v1/store-requests/x/process", []string{"store", "admin"}, []string{"water", "qa"}},
		{http.MethodPost, "/api/v1/store-requests/x/reject", []string{"store", "admin"}, []string{"water"}},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, call(engine, tt.method, tt.path, ""), "anonymous")
			for _, token := range tt.allowed {
				assert.Equal(t, http.StatusBadRequest, call(engine, tt.method, tt.path, token), token)
			}
			for _, token := range tt.denied {
				assert.Equal(t, http.StatusForbidden, call(engine, tt.method, tt.path, token), token)
			}
		})
	}
}

func TestAPIGroups_Public(t *testing.T) {
	engine := apiEngine()

	// reach the handler without a token and fail on the malformed body
	assert.Equal(t, http.StatusBadRequest, call(engine, http.MethodPost, "/api/v1/auth/login", ""))
	assert.Equal(t, http.StatusBadRequest, call(engine, http.MethodPost, "/api/v1/auth/refresh", ""))

	assert.Equal(t, http.StatusUnauthorized, call(engine, http.MethodGet, "/api/v1/auth/me", ""))
	assert.Equal(t, http.StatusUnauthorized, call(engine, http.MethodGet, "/api/v1/stock", ""))
	assert.Equal(t, http.StatusUnauthorized, call(engine, http.MethodGet, "/api/v1/plan", "bogus"))
}
