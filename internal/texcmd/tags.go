package texcmd

import "strings"

// CommandTag holds the marker fragments inserted around a command with an
// argument:
//
//	BeforeCommand \name AfterName { BeforeArgContent content AfterArgContent } AfterArg
type CommandTag struct {
	BeforeCommand    string
	AfterName        string
	BeforeArgContent string
	AfterArgContent  string
	AfterArg         string
}

// UniformCommandTag uses the same marker at all five insertion points.
func UniformCommandTag(marker string) CommandTag {
	return CommandTag{marker, marker, marker, marker, marker}
}

// IsZero reports whether the tag inserts nothing.
func (t CommandTag) IsZero() bool {
	return t == CommandTag{}
}

// BareCommandTag holds the markers placed before and after a bare command.
type BareCommandTag struct {
	Before string
	After  string
}

// UniformBareCommandTag uses the same marker on both sides.
func UniformBareCommandTag(marker string) BareCommandTag {
	return BareCommandTag{Before: marker, After: marker}
}

// IsZero reports whether the tag inserts nothing.
func (t BareCommandTag) IsZero() bool {
	return t == BareCommandTag{}
}

// RangeTag holds the markers placed around both delimiters of a range:
//
//	BeforeOpen $ AfterOpen content BeforeClose $ AfterClose
type RangeTag struct {
	BeforeOpen  string
	AfterOpen   string
	BeforeClose string
	AfterClose  string
}

// UniformRangeTag uses the same marker at all four insertion points.
func UniformRangeTag(marker string) RangeTag {
	return RangeTag{marker, marker, marker, marker}
}

// IsZero reports whether the tag inserts nothing.
func (t RangeTag) IsZero() bool {
	return t == RangeTag{}
}

// insertion is a marker to be placed before the byte at pos of the original.
type insertion struct {
	pos  int
	text string
}

// applyInsertions builds the rewritten string in one pass. ins must be sorted
// by pos; insertions sharing a position keep their order.
func applyInsertions(s string, ins []insertion) string {
	if len(ins) == 0 {
		return s
	}

	extra := 0
	for _, in := range ins {
		extra += len(in.text)
	}

	var sb strings.Builder
	sb.Grow(len(s) + extra)
	last := 0
	for _, in := range ins {
		sb.WriteString(s[last:in.pos])
		sb.WriteString(in.text)
		last = in.pos
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// ApplyCommandTags wraps every brace-argument command of s with tag.
func ApplyCommandTags(s string, tag CommandTag) string {
	out, _ := ApplyCommandTagsWith(s, DefaultDelimiters, tag)
	return out
}

// ApplyCommandTagsWith is ApplyCommandTags for an arbitrary delimiter pair.
func ApplyCommandTagsWith(s string, d Delimiters, tag CommandTag) (string, error) {
	matches, err := LocateCommands(s, d)
	if err != nil {
		return "", err
	}
	if tag.IsZero() {
		return s, nil
	}

	ins := make([]insertion, 0, 5*len(matches))
	for _, m := range matches {
		ins = append(ins,
			insertion{m.Start, tag.BeforeCommand},
			insertion{m.NameEnd + 1, tag.AfterName},
			insertion{m.ArgStart, tag.BeforeArgContent},
			insertion{m.ArgEnd + 1, tag.AfterArgContent},
			insertion{m.End + 1, tag.AfterArg},
		)
	}
	return applyInsertions(s, ins), nil
}

// ApplyBareCommandTags wraps every command without an argument with tag,
// including commands nested inside arguments.
func ApplyBareCommandTags(s string, tag BareCommandTag) string {
	if tag.IsZero() {
		return s
	}

	spans := LocateBareCommands(s)
	ins := make([]insertion, 0, 2*len(spans))
	for _, sp := range spans {
		ins = append(ins,
			insertion{sp.Start, tag.Before},
			insertion{sp.End + 1, tag.After},
		)
	}
	return applyInsertions(s, ins)
}

// indexDelimiter finds the next occurrence of delim at or after from,
// skipping escaped occurrences when respectEscapes is set.
func indexDelimiter(s string, from int, delim string, respectEscapes bool) int {
	for from <= len(s) {
		k := strings.Index(s[from:], delim)
		if k < 0 {
			return -1
		}
		pos := from + k
		if !respectEscapes || !IsEscaped(s, pos) {
			return pos
		}
		from = pos + 1
	}
	return -1
}

// ApplyRangeTags wraps every d.Open ... d.Close range of s with tag. Ranges do
// not nest, so the delimiters may be identical (inline math "$" ... "$").
// With respectEscapes a delimiter preceded by an odd number of backslashes is
// plain text. An opener without a closer leaves the rest of s untouched.
func ApplyRangeTags(s string, d Delimiters, tag RangeTag, respectEscapes bool) (string, error) {
	if err := d.validate(false); err != nil {
		return "", err
	}
	if tag.IsZero() {
		return s, nil
	}

	var ins []insertion
	i := 0
	for i < len(s) {
		open := indexDelimiter(s, i, d.Open, respectEscapes)
		if open < 0 {
			break
		}
		contentStart := open + len(d.Open)
		closer := indexDelimiter(s, contentStart, d.Close, respectEscapes)
		if closer < 0 {
			break
		}
		ins = append(ins,
			insertion{open, tag.BeforeOpen},
			insertion{contentStart, tag.AfterOpen},
			insertion{closer, tag.BeforeClose},
			insertion{closer + len(d.Close), tag.AfterClose},
		)
		i = closer + len(d.Close)
	}
	return applyInsertions(s, ins), nil
}
