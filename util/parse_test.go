package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	limit, httpErr := ParseLimit("", 20)
	require.Nil(t, httpErr)
	assert.Equal(t, 20, limit)

	limit, httpErr = ParseLimit("5", 20)
	require.Nil(t, httpErr)
	assert.Equal(t, 5, limit)

	for _, val := range []string{"abc", "0", "-3", "2.5"} {
		_, httpErr = ParseLimit(val, 20)
		require.NotNil(t, httpErr, "value %q", val)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "bad_request:api", httpErr.Code)
	}
}

func TestParseBoolParam(t *testing.T) {
	val, httpErr := ParseBoolParam("includeHidden", "")
	require.Nil(t, httpErr)
	assert.False(t, val)

	val, httpErr = ParseBoolParam("includeHidden", "false")
	require.Nil(t, httpErr)
	assert.False(t, val)

	val, httpErr = ParseBoolParam("includeHidden", "true")
	require.Nil(t, httpErr)
	assert.True(t, val)

	for _, bad := range []string{"TRUE", "1", "yes"} {
		_, httpErr = ParseBoolParam("includeHidden", bad)
		require.NotNil(t, httpErr, "value %q", bad)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	}
}
