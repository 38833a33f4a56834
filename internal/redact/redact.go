// Package redact removes credentials and other sensitive fragments from strings
// before they are logged, aggregated into provider failure reports, or returned
// in error responses. Provider SDKs and HTTP clients routinely echo request URLs
// and headers in their errors, which may carry API keys.
package redact

import (
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; credential-bearing URLs go first so the key
// rules do not split them.
var rules = []rule{
	// Database connection strings with embedded user info
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|redis)://[^@\s]+@`), "$1://" + RedactedCredentialPlaceholder + "@"},
	// Authorization headers
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]{8,}`), "${1}" + RedactedKeyPlaceholder},
	// Query parameters carrying keys (Gemini REST uses ?key=)
	{regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|token)=)[^&\s"']+`), "${1}" + RedactedKeyPlaceholder},
	// Google API keys
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`), RedactedKeyPlaceholder},
	// OpenAI-compatible keys (OpenAI sk-, Groq gsk_)
	{regexp.MustCompile(`\b(?:sk|gsk)[-_][A-Za-z0-9_\-]{16,}`), RedactedKeyPlaceholder},
	// key=value style secrets
	{regexp.MustCompile(`(?i)\b(api[_-]?key|secret|password|passwd)(["'\s:=]+)[^"'\s&,]{6,}`), "${1}${2}" + RedactedCredentialPlaceholder},
	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	// Absolute filesystem paths
	{regexp.MustCompile(`(^|\s)(?:/[\w.-]+){3,}`), "${1}" + RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
