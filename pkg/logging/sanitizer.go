package logging

import (
	"regexp"
)

const (
	// MaxStatementLogLength is the maximum length of a SQL statement to log
	MaxStatementLogLength = 120
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches the user:pass@host part of a connection URL
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)

	// Matches a JSON/YAML password entry from the credentials file
	credentialEntryPattern = regexp.MustCompile(`(?i)("?password"?\s*:\s*)("[^"]*"|[^,\s}]+)`)
)

// SanitizeConnectionString removes sensitive data from connection strings.
// Use this before logging any DSN.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeError sanitizes error messages that might contain credentials.
// Use this before logging any error from connection setup.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := SanitizeConnectionString(err.Error())
	sanitized = credentialEntryPattern.ReplaceAllString(sanitized, "${1}"+RedactedText)

	return sanitized
}

// SanitizeStatement truncates a SQL statement for logging. Values are always
// bound as parameters, so only the statement text is ever logged.
func SanitizeStatement(stmt string) string {
	if len(stmt) > MaxStatementLogLength {
		return stmt[:MaxStatementLogLength] + "..."
	}
	return stmt
}
