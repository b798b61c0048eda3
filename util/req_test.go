package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorBuilders(t *testing.T) {
	httpErr := BadRequestErr("space", "_action must be \"join\" or \"leave\"")
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "bad_request:space", httpErr.Code)
	assert.Nil(t, httpErr.Fields)

	httpErr = BadRequestFieldErr("post", "severity", "unknown severity")
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "bad_request:post", httpErr.Code)
	assert.Equal(t, map[string]string{"severity": "unknown severity"}, httpErr.Fields)

	assert.Equal(t, "unauthorized:api", UnauthorizedErr("api").Code)
	assert.Equal(t, http.StatusUnauthorized, UnauthorizedErr("api").Status)

	// the forbidden message never names the failed check
	forbidden := ForbiddenErr("post")
	assert.Equal(t, http.StatusForbidden, forbidden.Status)
	assert.Equal(t, "insufficient permissions", forbidden.Message)

	assert.Equal(t, http.StatusNotFound, NotFoundErr("post").Status)
	assert.Equal(t, "not_found:post", NotFoundErr("post").Code)
}
