package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for template fields.
const (
	maxTitleLen       = 200
	maxVersionLen     = 50
	maxDescriptionLen = 2_000
	maxRequestBytes   = 1 << 20
)

// validateTemplateFields checks template form inputs and returns the first
// error found.
func validateTemplateFields(title, version, description string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(version) > maxVersionLen {
		return "Version is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	return ""
}
