package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type needPayload struct {
	Department string `json:"department" binding:"required,department"`
	Category   string `json:"category" binding:"required,category"`
	Unit       string `json:"unit" binding:"required,unit"`
	ItemName   string `json:"item_name" binding:"required,max=10"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/needs", func(c *gin.Context) {
		var req needPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NoError(t, v.Var(plan.DepartmentWater, "department"))
	assert.Error(t, v.Var("Бухгалтерия", "department"))
	assert.NoError(t, v.Var("мл", "unit"))
	assert.Error(t, v.Var("bottle", "unit"))
	assert.NoError(t, v.Var("Реактивы", "category"))
}

func TestHandleValidationError(t *testing.T) {
	router := validationRouter()

	t.Run("lists rejected fields by json name", func(t *testing.T) {
		w := postJSON(router, "/needs", `{"department":"Бухгалтерия","category":"Реактивы","unit":"bottle","item_name":"Гидроксид натрия"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Unknown department", fields["department"])
		assert.Equal(t, "Unknown unit of measure", fields["unit"])
		assert.Equal(t, "Must be at most 10 characters", fields["item_name"])
		assert.NotContains(t, fields, "category")
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(router, "/needs", `{"department":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("valid payload passes", func(t *testing.T) {
		w := postJSON(router, "/needs", `{"department":"`+plan.DepartmentAir+`","category":"Реактивы","unit":"г","item_name":"NaOH"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
