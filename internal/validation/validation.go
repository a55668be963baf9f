package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Length records a violation unless minLen <= len(value) <= maxLen.
// Skips the check when another validator already flagged the field.
func Length(field, value string, minLen, maxLen int, v Violations) {
	if _, flagged := v[field]; flagged {
		return
	}
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		v[field] = fmt.Sprintf("must_be_%d_to_%d_chars", minLen, maxLen)
	}
}

// OneOf records a violation unless value matches one of the options.
func OneOf(field, value string, v Violations, options ...string) {
	for _, o := range options {
		if value == o {
			return
		}
	}
	v[field] = "invalid_choice"
}

// Match records a violation on field when the two values differ.
// Used for password confirmation.
func Match(field, value, confirm string, v Violations) {
	if value != confirm {
		v[field] = "does_not_match"
	}
}
