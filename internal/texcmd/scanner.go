// Package texcmd locates backslash commands, their brace-delimited arguments
// and delimiter-bounded ranges in LaTeX-like source, and rewrites the source
// with caller supplied tag markers.
//
// All positions are byte offsets into the scanned string. Every function is
// pure: inputs are never modified and nothing is retained between calls.
package texcmd

import (
	"errors"
	"strings"

	"texprose/internal/types"
)

// ErrInvalidDelimiters is wrapped by every error returned for an unusable
// delimiter pair.
var ErrInvalidDelimiters = errors.New("invalid delimiters")

// Delimiters is an (open, close) delimiter pair such as {"{", "}"}.
type Delimiters struct {
	Open  string
	Close string
}

var (
	// DefaultDelimiters are TeX argument braces.
	DefaultDelimiters = Delimiters{Open: "{", Close: "}"}
	// OptionalDelimiters are the square brackets of optional arguments.
	OptionalDelimiters = Delimiters{Open: "[", Close: "]"}
)

// validate checks the pair. Nesting scanners additionally need distinct
// delimiters, otherwise an opener cannot be told apart from a closer.
func (d Delimiters) validate(nesting bool) error {
	if d.Open == "" || d.Close == "" {
		return types.NewAppErrorWithDetails(types.ErrInvalidDelimiters,
			"invalid delimiters", "open and close must be non-empty", ErrInvalidDelimiters)
	}
	if nesting && d.Open == d.Close {
		return types.NewAppErrorWithDetails(types.ErrInvalidDelimiters,
			"invalid delimiters", "open and close must differ for balanced scanning: "+d.Open, ErrInvalidDelimiters)
	}
	return nil
}

// IsEscaped reports whether the byte at s[i] is preceded by an odd number of
// backslashes.
func IsEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// FindClosing returns the index of the closing delimiter that balances an
// opener ending right before from. Escaped delimiters are literal text.
// It returns -1, false when the string ends before the depth reaches zero.
func FindClosing(s string, from int, d Delimiters) (int, bool) {
	depth := 1
	for i := from; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], d.Close) && !IsEscaped(s, i):
			depth--
			if depth == 0 {
				return i, true
			}
			i += len(d.Close)
		case strings.HasPrefix(s[i:], d.Open) && !IsEscaped(s, i):
			depth++
			i += len(d.Open)
		default:
			i++
		}
	}
	return -1, false
}
