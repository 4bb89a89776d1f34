package utils

import (
	"regexp"
	"strings"
)

// Patterns that indicate markup or script injection in fields that are
// supposed to be plain text.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*(script|img|svg|iframe|object|embed)[^>]*`),
	regexp.MustCompile(`(?i)on[a-zA-Z]+\s*=`),
	regexp.MustCompile(`(?i)javascript\s*:\s*`),
	regexp.MustCompile(`(?i)<\s*/\s*script\s*>`),
	regexp.MustCompile(`(?i)<[a-z][^>]*>`),
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	jsProtoPattern    = regexp.MustCompile(`(?i)javascript\s*:\s*`)
	eventAttrPattern  = regexp.MustCompile(`(?i)on([a-zA-Z]+)\s*=`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ContainsDangerousInput reports whether a value carries markup or a known
// XSS vector.
func ContainsDangerousInput(value string) bool {
	if value == "" {
		return false
	}
	for _, pat := range dangerousPatterns {
		if pat.MatchString(value) {
			return true
		}
	}
	return false
}

// SanitizePlainText converts any input into plain text safe to store and
// render: strips HTML tags, neutralizes javascript: and on*= leftovers, and
// normalizes whitespace.
func SanitizePlainText(value string) string {
	cleaned := tagPattern.ReplaceAllString(value, "")
	cleaned = jsProtoPattern.ReplaceAllString(cleaned, "")
	cleaned = eventAttrPattern.ReplaceAllString(cleaned, "on$1 =")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// SanitizeOptional sanitizes a value and returns nil when nothing is left,
// for nullable text columns.
func SanitizeOptional(value string) *string {
	s := SanitizePlainText(value)
	if s == "" {
		return nil
	}
	return &s
}
