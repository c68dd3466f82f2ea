package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOptionalID parses a positive integer id. Empty input returns nil.
func ParseOptionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%q is not a positive integer id", raw)
	}
	return &id, nil
}

// ParseLimit parses a positive limit capped at max. Empty input returns 0.
func ParseLimit(raw string, max int) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive integer", raw)
	}
	if n > max {
		n = max
	}
	return n, nil
}

// ParseBool accepts the usual query-string spellings of true.
func ParseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// BearerToken strips an optional "Bearer " prefix.
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return header
}
