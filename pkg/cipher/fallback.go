package cipher

import (
	"errors"
	"strings"
	"unicode/utf16"
)

// ErrTextAndKeyRequired is returned by the local cipher for empty input.
var ErrTextAndKeyRequired = errors.New("text and key are required")

// Shift derives the rotation from key: the sum of its UTF-16 code units mod 26.
func Shift(key string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(key)) {
		sum += int(u)
	}
	return sum % 26
}

// EncryptLocal applies the offline rotation cipher. ASCII letters are
// rotated by Shift(key) preserving case; everything else passes through.
func EncryptLocal(text, key string) (string, error) {
	if text == "" || key == "" {
		return "", ErrTextAndKeyRequired
	}
	return rotate(text, Shift(key)), nil
}

// DecryptLocal reverses EncryptLocal with the same key.
func DecryptLocal(text, key string) (string, error) {
	if text == "" || key == "" {
		return "", ErrTextAndKeyRequired
	}
	return rotate(text, (26-Shift(key))%26), nil
}

func rotate(text string, shift int) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune('a' + (r-'a'+rune(shift))%26)
		case r >= 'A' && r <= 'Z':
			b.WriteRune('A' + (r-'A'+rune(shift))%26)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
