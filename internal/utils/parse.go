// Package utils provides small, domain-free parse helpers for the HTTP
// layer.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault returns the integer in s, or def when s is empty or not a
// valid int.
//
//	utils.AtoiDefault("42", 0) // 42
//	utils.AtoiDefault("x", 5)  // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParseID parses a positive decimal row ID such as a path parameter.
// Surrounding space is ignored; signs, zero and overflow are rejected.
func ParseID(s string) (uint, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '+' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
