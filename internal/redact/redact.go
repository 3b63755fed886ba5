// Package redact scrubs secrets and internal detail from strings before they
// reach logs or error responses. Database URLs, bearer tokens, SQL and file
// paths all tend to end up inside driver error messages.
package redact

import (
	"regexp"
)

// Placeholders substituted for redacted text.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	PathPlaceholder       = "[REDACTED_PATH]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// Rules run in order. Earlier rules consume text that later, broader rules
// would otherwise match partially (a DSN contains a path, a JWT looks like a
// key=value run).
var rules = []rule{
	{
		re:          regexp.MustCompile(`(?i)\b(postgres(?:ql)?|pgx)://[^\s"']+`),
		replacement: CredentialPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s]+`),
		replacement: "$1=" + CredentialPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/]+=*`),
		replacement: "Bearer " + TokenPlaceholder,
	},
	{
		re:          regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: TokenPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token)\s*[=:]\s*['"]?[A-Za-z0-9_\-.~+/]{8,}`),
		replacement: "$1=" + TokenPlaceholder,
	},
	{
		re: regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[^;]*?\b(FROM|INTO|SET)\b\s+[\w."]+`,
		),
		replacement: SQLPlaceholder,
	},
	{
		re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: EmailPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: PathPlaceholder,
	},
	{
		re:          regexp.MustCompile(`goroutine \d+ \[[^\]]*\]:[\s\S]*`),
		replacement: Placeholder,
	},
}

// String returns s with every sensitive fragment replaced.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error returns the redacted message of err, or "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
