package logging

import (
	"regexp"
	"strings"
)

// redactor redacts sensitive values in log key-value pairs. The stream
// dial URL carries the access token as a query credential, so anything
// token-shaped must never reach the log file in clear text.
type redactor struct {
	sensitiveWords map[string]bool
}

func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "credential"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitiveWords: m}
}

// redact walks a flattened key-value slice and replaces values whose key
// contains a sensitive word as a separate segment with "[REDACTED]".
// Returns a new slice; the original is not modified.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			result[i+1] = "[REDACTED]"
		}
	}
	return result
}

var segmentSplit = regexp.MustCompile(`[^a-z0-9]+`)

func (r *redactor) isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, part := range segmentSplit.Split(key, -1) {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}
