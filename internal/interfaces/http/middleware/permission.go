package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/interfaces/http/dto"
)

// CheckPrincipalFunc decides whether the caller may use a route
type CheckPrincipalFunc func(identity.Principal) bool

// RequirePrincipal lets the request through when check accepts the caller.
// Application services repeat these checks; the middleware only rejects early.
func RequirePrincipal(check CheckPrincipalFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !check(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, message, getRequestID(c)))
			return
		}
		c.Next()
	}
}

// RequireAdmin allows administrators only
func RequireAdmin() gin.HandlerFunc {
	return RequirePrincipal(identity.Principal.IsAdmin, "Administrator role required")
}

// RequireDepartment allows administrators and members of the given departments
func RequireDepartment(departments ...string) gin.HandlerFunc {
	return RequirePrincipal(func(p identity.Principal) bool {
		return p.IsAdmin() || slices.Contains(departments, p.Department)
	}, "Not available for your department")
}

// RequireDepartmentStaff allows non-administrators of departments that hold needs
func RequireDepartmentStaff() gin.HandlerFunc {
	return RequirePrincipal(func(p identity.Principal) bool {
		return p.CanEditNeedsOf(p.Department)
	}, "Only department staff can do this")
}
