package util

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError carries a machine-readable code of shape {type}:{surface}
// alongside the status and message. Fields holds per-field validation
// detail when available.
type HTTPError struct {
	Status  int               `json:"-"`
	Code    string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v: %v (statusCode=%v)", he.Code, he.Message, he.Status)
}

// BuildDbHTTPErr logs the datastore error server-side and returns a
// generic 500. Internal details are never forwarded to the client.
func BuildDbHTTPErr(err error) *HTTPError {
	log.Println("database error occurred", err)
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "server_error:api",
		Message: "database error",
	}
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request:api",
		Message: err.Error(),
	}
}

func BadRequestErr(surface, message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request:" + surface,
		Message: message,
	}
}

func BadRequestFieldErr(surface, field, message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request:" + surface,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

func UnauthorizedErr(surface string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized:" + surface,
		Message: "unauthorized",
	}
}

// ForbiddenErr deliberately carries a generic message so the response
// never leaks which specific check failed.
func ForbiddenErr(surface string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusForbidden,
		Code:    "forbidden:" + surface,
		Message: "insufficient permissions",
	}
}

func NotFoundErr(surface string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Code:    "not_found:" + surface,
		Message: "not found",
	}
}

type Handler func(c *gin.Context) (interface{}, *HTTPError)

type HandlerOpts struct {
}

// HandlerWrapper adapts a (payload, *HTTPError) handler to gin. A nil
// payload responds {"success": true}; otherwise the payload is the body.
func HandlerWrapper(handler Handler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		if res == nil {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

type errorRes struct {
	Success bool              `json:"success"`
	Code    string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HandleHTTPErrorRes writes the error response. Break the route after
// calling this function.
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, &errorRes{
		Code:    err.Code,
		Message: err.Message,
		Fields:  err.Fields,
	})
}
