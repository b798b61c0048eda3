package util

import (
	"strconv"
	"time"
)

func ParseTime(val string) (time.Time, error) {
	return time.Parse(time.RFC3339, val)
}

// ParseLimit parses a page size query param. An empty value falls back;
// non-numeric and non-positive values are rejected at the boundary.
func ParseLimit(val string, fallback int) (int, *HTTPError) {
	if val == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit <= 0 {
		return 0, BadRequestFieldErr("api", "limit", "limit must be a positive integer")
	}
	return limit, nil
}

// ParseBoolParam parses the literal "true"/"false" boolean query params.
// An absent param is false.
func ParseBoolParam(name, val string) (bool, *HTTPError) {
	switch val {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	}
	return false, BadRequestFieldErr("api", name, `must be "true" or "false"`)
}
