package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler("labstock", "1.0.0", stubPinger{})
		r := gin.New()
		r.GET("/health", h.Health)

		w := do(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, "healthy", data["status"])
		assert.Equal(t, "connected", data["database"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler("labstock", "1.0.0", stubPinger{err: errors.New("connection refused")})
		r := gin.New()
		r.GET("/health", h.Health)

		w := do(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "disconnected", resp.Data.(map[string]any)["database"])
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("labstock", "1.2.3", stubPinger{})
	r := gin.New()
	r.GET("/system/info", h.GetSystemInfo)

	w := do(r, http.MethodGet, "/system/info", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "labstock", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}
