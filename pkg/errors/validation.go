package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field length caps for event text. Longer input cannot fit any layout and
// is almost always a paste mistake.
const (
	MaxTitleLength  = 200
	MaxDetailLength = 300
)

// MaxScale is the largest accepted output multiplier. A vertical story at 8x
// is already 8640x15360 pixels.
const MaxScale = 8

// ValidateEventField validates a single event text field.
// Control characters other than line breaks and tabs are rejected.
func ValidateEventField(name, value string, maxLen int, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", name)
	}
	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidInput, "%s is not valid UTF-8", name)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", name, maxLen)
	}
	for _, r := range value {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", name)
		}
	}
	return nil
}

// ValidateScale rejects non-positive or oversized output multipliers before
// any drawing work begins.
func ValidateScale(scale int) error {
	if scale <= 0 {
		return New(ErrCodeInvalidDimensions, "scale must be positive, got %d", scale)
	}
	if scale > MaxScale {
		return New(ErrCodeInvalidDimensions, "scale too large (max %d), got %d", MaxScale, scale)
	}
	return nil
}

// ValidatePrefix validates an output file prefix.
// It must be a simple basename without path components so that generated
// files always land in the configured output directory.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidPath, "output prefix cannot be empty")
	}
	if len(prefix) > 128 {
		return New(ErrCodeInvalidPath, "output prefix too long (max 128 characters)")
	}
	if strings.ContainsAny(prefix, "/\\") {
		return New(ErrCodeInvalidPath, "output prefix cannot contain path separators")
	}
	if strings.HasPrefix(prefix, ".") {
		return New(ErrCodeInvalidPath, "output prefix cannot start with a dot")
	}
	for _, r := range prefix {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output prefix contains invalid control characters")
		}
	}
	return nil
}

// ValidateEventType validates an illustration event-type key. Keys are used
// to build cached illustration file names.
func ValidateEventType(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "event type cannot be empty")
	}
	for _, r := range key {
		if !(r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return New(ErrCodeInvalidInput, "event type contains invalid character %q", r)
		}
	}
	return nil
}
