package texcmd

import (
	"errors"
	"strconv"
	"strings"

	"texprose/internal/types"
)

// ErrEmptyMarkerSet is wrapped by the error SplitTags returns for an empty
// marker set or an empty marker.
var ErrEmptyMarkerSet = errors.New("empty marker set")

// Segment is a run of text together with the marker that introduced it.
type Segment struct {
	Tag  string
	Text string
}

// matchMarker returns the longest marker that s starts with, or "".
func matchMarker(s string, markers []string) string {
	best := ""
	for _, m := range markers {
		if len(m) > len(best) && strings.HasPrefix(s, m) {
			best = m
		}
	}
	return best
}

// SplitTags cuts s at every marker occurrence and returns the text between
// markers tagged with the marker that precedes it. Empty slices are dropped
// and consecutive slices with the same tag are merged, so
// "[A]x[A]y" yields a single ("[A]", "xy") segment.
//
// Text before the first marker, or all of s when no marker occurs, is
// tagged with markers[0].
func SplitTags(s string, markers []string) ([]Segment, error) {
	if len(markers) == 0 {
		return nil, types.NewAppError(types.ErrEmptyMarkerSet, "no markers to split on", ErrEmptyMarkerSet)
	}
	for i, m := range markers {
		if m == "" {
			return nil, types.NewAppErrorWithDetails(types.ErrEmptyMarkerSet,
				"empty marker", "markers["+strconv.Itoa(i)+"] is empty", ErrEmptyMarkerSet)
		}
	}

	var segments []Segment
	tag := markers[0]
	emit := func(text string) {
		if text == "" {
			return
		}
		if n := len(segments); n > 0 && segments[n-1].Tag == tag {
			segments[n-1].Text += text
			return
		}
		segments = append(segments, Segment{Tag: tag, Text: text})
	}

	start := 0
	for i := 0; i < len(s); {
		m := matchMarker(s[i:], markers)
		if m == "" {
			i++
			continue
		}
		emit(s[start:i])
		tag = m
		i += len(m)
		start = i
	}
	emit(s[start:])

	if len(segments) == 0 {
		segments = append(segments, Segment{Tag: tag})
	}
	return segments, nil
}
