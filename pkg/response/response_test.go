package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSuccess(t *testing.T) {
	w, resp := render(func(c *gin.Context) { Success(c, gin.H{"id": 1}) })

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Notification)
}

func TestSuccessWithNotice(t *testing.T) {
	_, resp := render(func(c *gin.Context) { SuccessWithNotice(c, nil, "Added to cart") })

	require.NotNil(t, resp.Notification)
	assert.Equal(t, LevelSuccess, resp.Notification.Level)
	assert.Equal(t, "Added to cart", resp.Notification.Message)
}

func TestError_CarriesNotification(t *testing.T) {
	w, resp := render(func(c *gin.Context) {
		Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "The email field is required.", "")
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	require.NotNil(t, resp.Notification)
	assert.Equal(t, LevelError, resp.Notification.Level)
}

func TestInternalError(t *testing.T) {
	w, resp := render(func(c *gin.Context) { InternalError(c, errors.New("boom")) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", resp.Error.Details)
}

func TestLoading(t *testing.T) {
	w, resp := render(Loading)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.False(t, resp.Success)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestValidationError(t *testing.T) {
	w, resp := render(func(c *gin.Context) {
		ValidationError(c, "The email field is required.", map[string][]string{"email": {"The email field is required."}})
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NotNil(t, resp.Data)
}

func TestRedirectWithNotice(t *testing.T) {
	w, resp := render(func(c *gin.Context) {
		RedirectWithNotice(c, "/cart", LevelInfo, "Your cart is empty. Redirecting...")
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))
	require.NotNil(t, resp.Notification)
	assert.Equal(t, LevelInfo, resp.Notification.Level)
}
