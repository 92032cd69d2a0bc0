package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input limits.
const (
	MaxTextRunes     = 10000
	MaxSymbols       = 500
	MaxSessionIDLen  = 128
	maxFilenameBytes = 255
)

// ValidateText validates free text arriving from a client. The interpreter
// itself accepts any string; this bounds what requests may send. Empty text
// is valid.
//
// The validation rules are:
//   - Valid UTF-8
//   - No null bytes
//   - At most MaxTextRunes runes
func ValidateText(text string) error {
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "text is not valid UTF-8")
	}
	if strings.ContainsRune(text, 0) {
		return New(ErrCodeInvalidInput, "text contains null bytes")
	}
	if n := utf8.RuneCountInString(text); n > MaxTextRunes {
		return New(ErrCodeInvalidInput, "text too long: %d runes (max %d)", n, MaxTextRunes)
	}
	return nil
}

// ValidateSymbols validates a client's emoji sequence for the river.
func ValidateSymbols(symbols []string) error {
	if len(symbols) > MaxSymbols {
		return New(ErrCodeInvalidInput, "too many symbols: %d (max %d)", len(symbols), MaxSymbols)
	}
	for _, s := range symbols {
		if err := ValidateText(s); err != nil {
			return err
		}
	}
	return nil
}

// sessionIDRegex matches opaque session identifiers, uuids included.
var sessionIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSessionID validates a diary session identifier. Session IDs become
// file names and redis keys, so they are restricted to a safe alphabet.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSession, "session id cannot be empty")
	}
	if len(id) > MaxSessionIDLen {
		return New(ErrCodeInvalidSession, "session id too long (max %d characters)", MaxSessionIDLen)
	}
	if strings.Contains(id, "..") || !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidSession, "invalid session id: %q", id)
	}
	return nil
}

// ValidateFilename validates a gallery image name.
// It ensures the name is a simple basename without path components.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}
	if len(name) > maxFilenameBytes {
		return New(ErrCodeInvalidFilename, "filename too long (max %d bytes)", maxFilenameBytes)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidFilename, "filename cannot be a hidden file")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
