package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDashboardName validates a dashboard name for safety and sanity.
// Names show up in logs, file names, and API paths, so the rules are
// intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 200 characters
func ValidateDashboardName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDashboard, "dashboard name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidDashboard, "dashboard name too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDashboard, "dashboard name contains control characters")
		}
	}

	return nil
}

// idRegex matches identifiers safe to embed in URLs and cache keys:
// letters, digits, dashes, underscores, and dots.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateID validates a dashboard or widget identifier. IDs are embedded
// in API routes and cache keys, so path separators, whitespace, and control
// characters are rejected outright.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "identifier too long (max 128 characters)")
	}

	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", id)
	}

	return nil
}

// ValidateWidgetType validates the opaque chart-type label attached to a
// widget. The layout engine never interprets it, but it flows into
// serialized documents and rendered previews, so it must stay printable
// and bounded.
func ValidateWidgetType(typ string) error {
	if typ == "" {
		// Type is optional; widgets without one render as plain boxes.
		return nil
	}

	if len(typ) > 64 {
		return New(ErrCodeInvalidInput, "widget type too long (max 64 characters)")
	}

	for _, r := range typ {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "widget type contains control characters")
		}
	}

	return nil
}
