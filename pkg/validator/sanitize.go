package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTextSize bounds the bytes of free text sent in one request.
const MaxTextSize = 4096

var (
	ErrInputTooLarge = errors.New("text is too long")
	ErrInvalidUTF8   = errors.New("text is not valid UTF-8")
)

// Sanitize trims a numeric parameter and drops every control character.
func Sanitize(raw string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw))
}

// SanitizeText prepares free text for the generator. Oversized or
// non-UTF-8 input is rejected; control characters other than tab, newline
// and carriage return are dropped.
func SanitizeText(input string) (string, error) {
	if len(input) > MaxTextSize {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(input), MaxTextSize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\t', '\r':
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input), nil
}
