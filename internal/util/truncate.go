package util

import "fmt"

// DefaultLogMaxLen is the default maximum length for truncated log output (1KB)
const DefaultLogMaxLen = 1024

// TruncateLog truncates long strings for verbose logging.
// Provider claims bags can be arbitrarily large; this keeps diagnostic log
// lines bounded without losing the fact that more content existed.
func TruncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}

// TruncateBytes is a convenience wrapper for TruncateLog that accepts []byte
// and uses DefaultLogMaxLen.
func TruncateBytes(b []byte) string {
	return TruncateLog(string(b), DefaultLogMaxLen)
}
