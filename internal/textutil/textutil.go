package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes a SHA-256 hex hash of a string for cache keying.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Indentation returns the leading whitespace of a line.
func Indentation(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)]
}

// IsBlank reports whether a line contains only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
