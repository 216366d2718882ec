package validator

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/bbsdemo/pkg/domain"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrNotANumber   = errors.New("not a number")
	ErrNotPrime     = errors.New("not prime")
)

// Error reports the first violated rule and the field that violated it.
type Error struct {
	Rule  error  // One of ErrMissingField, ErrNotANumber, ErrNotPrime
	Field string // "p", "q" or "seed"
	Value string
}

func (e *Error) Error() string {
	switch e.Rule {
	case ErrMissingField:
		return "please enter P, Q and Seed values"
	case ErrNotANumber:
		return fmt.Sprintf("%s must be a number (got %q)", e.Field, e.Value)
	case ErrNotPrime:
		return fmt.Sprintf("%s must be a prime number (got %s)", e.Field, e.Value)
	}
	return fmt.Sprintf("field %q: %v", e.Field, e.Rule)
}

func (e *Error) Unwrap() error {
	return e.Rule
}

// Validate sanitizes raw and checks it against the parameter rules.
// On success the returned Params carry the sanitized text, with integral
// values ("7.0", "+61") rewritten as plain decimal integers.
func Validate(raw domain.Params) (domain.Params, error) {
	fields := []struct {
		name string
		val  string
	}{
		{"p", Sanitize(raw.P)},
		{"q", Sanitize(raw.Q)},
		{"seed", Sanitize(raw.Seed)},
	}

	for _, f := range fields {
		if f.val == "" {
			return domain.Params{}, &Error{Rule: ErrMissingField, Field: f.name}
		}
	}

	for _, f := range fields {
		if _, ok := parseFinite(f.val); !ok {
			return domain.Params{}, &Error{Rule: ErrNotANumber, Field: f.name, Value: f.val}
		}
	}

	for _, f := range fields[:2] {
		n, ok := parseInteger(f.val)
		if !ok || !IsPrime(n) {
			return domain.Params{}, &Error{Rule: ErrNotPrime, Field: f.name, Value: f.val}
		}
	}

	return domain.Params{
		P:    canonical(fields[0].val),
		Q:    canonical(fields[1].val),
		Seed: canonical(fields[2].val),
	}, nil
}

// canonical rewrites integral text in the form the generator parses.
// Non-integral text is returned as is.
func canonical(s string) string {
	if n, ok := parseInteger(s); ok {
		return strconv.FormatInt(n, 10)
	}
	return s
}

// IsPrime reports whether n is prime using 6k±1 trial division.
// It is exact for every int64.
func IsPrime(n int64) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	// i <= n/i is i*i <= n without overflow.
	for i := int64(5); i <= n/i; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseInteger accepts decimal integers exactly and integral floats ("7.0")
// that fit in an int64.
func parseInteger(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, ok := parseFinite(s)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
