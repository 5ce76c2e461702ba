package texcmd

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is an inclusive byte range [Start, End] of a scanned string.
type Span struct {
	Start int
	End   int
}

// Text returns the spanned substring of s.
func (sp Span) Text(s string) string {
	return s[sp.Start : sp.End+1]
}

// CommandMatch is a command immediately followed by a balanced argument.
//
//	\name{content}
//	^   ^^      ^^
//	|   ||      |End
//	|   ||      ArgEnd
//	|   |ArgStart (after the opener)
//	|   NameEnd
//	Start
//
// An empty argument has ArgEnd == ArgStart-1.
type CommandMatch struct {
	Start    int
	NameEnd  int
	ArgStart int
	ArgEnd   int
	End      int
}

// Name returns the command name without the backslash.
func (m CommandMatch) Name(s string) string {
	return s[m.Start+1 : m.NameEnd+1]
}

// Content returns the argument content without delimiters.
func (m CommandMatch) Content(s string) string {
	return s[m.ArgStart : m.ArgEnd+1]
}

// scanName returns the exclusive end of the letter run starting at i.
func scanName(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsLetter(r) {
			break
		}
		i += size
	}
	return i
}

// introducer skips a run of backslashes starting at i and returns the index
// of its last backslash, the only one that can start a control word.
func introducer(s string, i int) int {
	for i+1 < len(s) && s[i+1] == '\\' {
		i++
	}
	return i
}

// opensArgument reports whether an unescaped opener starts exactly at i.
func opensArgument(s string, i int, d Delimiters) bool {
	return strings.HasPrefix(s[i:], d.Open) && !IsEscaped(s, i)
}

// LocateCommands returns every command that is directly followed by a
// balanced argument, in source order. Commands nested inside a captured
// argument are part of its content and are not reported on their own.
//
// An argument whose closer is missing consumes the rest of the string, so
// nothing after it is reported either.
func LocateCommands(s string, d Delimiters) ([]CommandMatch, error) {
	if err := d.validate(true); err != nil {
		return nil, err
	}

	var matches []CommandMatch
	i := 0
	for i < len(s) {
		if s[i] != '\\' {
			i++
			continue
		}
		i = introducer(s, i)
		nameEnd := scanName(s, i+1)
		if nameEnd == i+1 {
			i++
			continue
		}
		if !opensArgument(s, nameEnd, d) {
			i = nameEnd
			continue
		}

		argStart := nameEnd + len(d.Open)
		closer, ok := FindClosing(s, argStart, d)
		if !ok {
			break
		}
		matches = append(matches, CommandMatch{
			Start:    i,
			NameEnd:  nameEnd - 1,
			ArgStart: argStart,
			ArgEnd:   closer - 1,
			End:      closer + len(d.Close) - 1,
		})
		i = closer + len(d.Close)
	}
	return matches, nil
}

// LocateBareCommands returns the spans of control words that carry no brace
// argument, including those nested inside other commands' arguments.
func LocateBareCommands(s string) []Span {
	spans, _ := LocateBareCommandsWith(s, DefaultDelimiters)
	return spans
}

// LocateBareCommandsWith is LocateBareCommands for an arbitrary argument
// delimiter pair.
//
// Control symbols (a backslash followed by one non-letter, e.g. \_ or \1)
// are never reported. An empty argument such as \a{} still counts as an
// argument.
func LocateBareCommandsWith(s string, d Delimiters) ([]Span, error) {
	if err := d.validate(true); err != nil {
		return nil, err
	}

	var spans []Span
	i := 0
	for i < len(s) {
		if s[i] != '\\' {
			i++
			continue
		}
		i = introducer(s, i)
		nameEnd := scanName(s, i+1)
		if nameEnd == i+1 {
			i++
			continue
		}
		if opensArgument(s, nameEnd, d) {
			argStart := nameEnd + len(d.Open)
			if _, ok := FindClosing(s, argStart, d); ok {
				// keep scanning inside the argument; its closer is skipped
				// like any other character
				i = argStart
				continue
			}
		}
		spans = append(spans, Span{Start: i, End: nameEnd - 1})
		i = nameEnd
	}
	return spans, nil
}
