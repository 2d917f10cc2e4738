package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/pkg/apperror"
)

// Response is the JSON envelope returned by every endpoint
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorData describes a failed request
type ErrorData struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Meta carries pagination info for list endpoints
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Paginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Page: page, Limit: limit, Total: total},
	})
}

func Error(c *gin.Context, status int, code, message string, details ...string) {
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorData{Code: code, Message: message, Details: details},
	})
}

func BadRequest(c *gin.Context, message string, details ...string) {
	Error(c, http.StatusBadRequest, string(apperror.KindValidation), message, details...)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, string(apperror.KindUnauthenticated), message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, string(apperror.KindForbidden), message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, string(apperror.KindNotFound), message)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, string(apperror.KindInternal), "Internal Server Error")
}

// statusByKind maps the error taxonomy to transport status codes
var statusByKind = map[apperror.Kind]int{
	apperror.KindUnauthenticated: http.StatusUnauthorized,
	apperror.KindForbidden:       http.StatusForbidden,
	apperror.KindConflict:        http.StatusConflict,
	apperror.KindNotFound:        http.StatusNotFound,
	apperror.KindValidation:      http.StatusBadRequest,
	apperror.KindInternal:        http.StatusInternalServerError,
}

// FromError writes the response for a service error. Internal causes are
// never leaked to the client.
func FromError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		InternalError(c)
		return
	}

	status, ok := statusByKind[appErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := appErr.Message
	if appErr.Kind == apperror.KindInternal {
		message = "Internal Server Error"
	}

	Error(c, status, string(appErr.Kind), message, appErr.Details...)
}
