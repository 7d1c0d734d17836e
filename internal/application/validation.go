package application

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength bounds snapshot titles in runes
const MaxTitleLength = 120

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateTitle checks an optional snapshot title. Blank is allowed and means
// the default title will be used.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		}
	}
	if strings.ContainsAny(title, "\n\r\t") {
		return &ValidationError{
			Field:   "title",
			Message: "title must be a single line",
		}
	}
	return nil
}

// ValidateIndex checks that a store-order index is not negative
func ValidateIndex(index int) error {
	if index < 0 {
		return &ValidationError{
			Field:   "index",
			Message: fmt.Sprintf("index must not be negative, got: %d", index),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "nodeID" -> "node ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"nodeID":   "node ID",
		"edgeID":   "edge ID",
		"sourceID": "source ID",
		"targetID": "target ID",
		"title":    "title",
		"query":    "query",
		"label":    "label",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
