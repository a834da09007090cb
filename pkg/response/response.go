package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Notification levels
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

type Response struct {
	Success      bool          `json:"success"`
	Data         interface{}   `json:"data,omitempty"`
	Error        *ErrorData    `json:"error,omitempty"`
	Meta         interface{}   `json:"meta,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Notification is the user-visible toast attached to a view
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithNotice(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Success:      true,
		Data:         data,
		Notification: &Notification{Level: LevelSuccess, Message: message},
	})
}

func Paginated(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func Created(c *gin.Context, data interface{}, message string) {
	resp := Response{
		Success: true,
		Data:    data,
	}
	if message != "" {
		resp.Notification = &Notification{Level: LevelSuccess, Message: message}
	}
	c.JSON(http.StatusCreated, resp)
}

// Loading renders the neutral placeholder of a view that cannot decide yet
func Loading(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusAccepted, Response{
		Success: false,
		Data:    gin.H{"status": "loading"},
	})
}

func Error(c *gin.Context, status int, code, message string, details string) {
	c.JSON(status, Response{
		Success: false,
		Error: &ErrorData{
			Code:    code,
			Message: message,
			Details: details,
		},
		Notification: &Notification{Level: LevelError, Message: message},
	})
}

func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error", err.Error())
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message, "")
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message, "")
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message, "")
}

// ValidationError renders a 422 with the per-field messages in data
func ValidationError(c *gin.Context, message string, fields interface{}) {
	c.JSON(http.StatusUnprocessableEntity, Response{
		Success: false,
		Data:    fields,
		Error: &ErrorData{
			Code:    "VALIDATION_ERROR",
			Message: message,
		},
		Notification: &Notification{Level: LevelError, Message: message},
	})
}

// RedirectWithNotice sends a 302 to location whose body carries a notification
func RedirectWithNotice(c *gin.Context, location, level, message string) {
	c.Header("Location", location)
	c.AbortWithStatusJSON(http.StatusFound, Response{
		Success:      level != LevelError,
		Notification: &Notification{Level: level, Message: message},
	})
}
