package services

import (
	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all markup from operator-entered free text
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips HTML from free-text input (notes, work done, comments)
// before it is persisted or echoed back to the UI
func SanitizeText(s string) string {
	return strictPolicy.Sanitize(s)
}

// SanitizeTextPtr sanitizes an optional free-text field in place
func SanitizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := strictPolicy.Sanitize(*s)
	return &clean
}
