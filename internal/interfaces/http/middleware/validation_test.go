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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func newBindTestRouter() *gin.Engine {
	type adjustRequest struct {
		ItemID   string `json:"item_id" binding:"required,uuid"`
		Quantity int    `json:"quantity" binding:"required,gt=0"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/adjust", func(c *gin.Context) {
		var req adjustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})
	return router
}

func TestHandleValidationError_ReportsFieldDetails(t *testing.T) {
	router := newBindTestRouter()

	body := strings.NewReader(`{"item_id": "not-a-uuid", "quantity": -2}`)
	req := httptest.NewRequest(http.MethodPost, "/adjust", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	require.Len(t, resp.Error.Details, 2)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid UUID format", fields["item_id"])
	assert.Equal(t, "Must be greater than 0", fields["quantity"])
}

func TestHandleValidationError_ValidInputPasses(t *testing.T) {
	router := newBindTestRouter()

	body := strings.NewReader(`{"item_id": "b3aa63ff-9a51-4b72-8a34-1f2d1f0b8f77", "quantity": 3}`)
	req := httptest.NewRequest(http.MethodPost, "/adjust", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	router := newBindTestRouter()

	body := strings.NewReader(`{"item_id": `)
	req := httptest.NewRequest(http.MethodPost, "/adjust", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestFormatValidationErrors_MissingFields(t *testing.T) {
	type onboardRequest struct {
		Name string `json:"name" binding:"required,min=2"`
	}

	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(onboardRequest{Name: ""})
	require.Error(t, err)

	resp := FormatValidationErrors(err)
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
}
