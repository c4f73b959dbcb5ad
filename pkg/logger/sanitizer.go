package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	tokenPattern  = regexp.MustCompile(`(?i)(token|jwt|bearer|code_verifier|[?&]code)[\s:=]+[^\s&]+`)
	secretPattern = regexp.MustCompile(`(?i)(secret|client_secret|private[_-]?key)[\s:=]+[^\s&]+`)
	cookiePattern = regexp.MustCompile(`(?i)(portfolio_session|__oauth_state|__oauth_pkce)=[^\s;]+`)
	emailPattern  = regexp.MustCompile(`([a-zA-Z0-9._%+-])[a-zA-Z0-9._%+-]*@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"token", "jwt", "bearer",
	"secret", "private_key", "private-key",
	"cookie", "verifier", "state",
}

// SanitizeLogMessage removes credentials from free-form log text.
func SanitizeLogMessage(message string) string {
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = cookiePattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	return message
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(message string) string {
	return emailPattern.ReplaceAllString(message, "${1}***@${2}")
}

// SanitizeMap removes sensitive keys from a map
func SanitizeMap(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		lowerKey := strings.ToLower(k)
		isSensitive := false

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(lowerKey, sensitiveKey) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			sanitized[k] = redactedPlaceholder
			continue
		}
		if s, ok := v.(string); ok {
			sanitized[k] = SanitizeLogMessage(s)
			continue
		}
		sanitized[k] = v
	}

	return sanitized
}
