package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer      = bluemonday.UGCPolicy()
	plainSanitizer = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizePlain strips every tag and returns the remaining text unescaped, for
// single-line fields such as titles that are stored and searched as plain text.
// Escaping is left to the JSON encoder.
func SanitizePlain(input string) string {
	return html.UnescapeString(plainSanitizer.Sanitize(input))
}
