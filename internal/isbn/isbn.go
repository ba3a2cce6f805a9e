// Package isbn normalizes user- and provider-supplied ISBN strings.
package isbn

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrInvalid is matched by every error returned from Normalize.
var ErrInvalid = errors.New("invalid isbn")

var digitsPattern = regexp.MustCompile(`^\d{10,13}$`)

// ISBN is a normalized ISBN: 10 to 13 decimal digits, no separators.
type ISBN string

func (i ISBN) String() string {
	return string(i)
}

// InvalidError carries the rejected input so it can be echoed back to the user.
type InvalidError struct {
	Input string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("ISBN must be 10-13 digits: %q", e.Input)
}

func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

// Normalize removes hyphens and whitespace from raw and checks the digit length.
func Normalize(raw string) (ISBN, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if !digitsPattern.MatchString(cleaned) {
		return "", &InvalidError{Input: raw}
	}
	return ISBN(cleaned), nil
}

// Valid reports whether s is already in normalized form.
func Valid(s string) bool {
	return digitsPattern.MatchString(s)
}
