package texcmd

// HighlightMarkers are the font markers inserted by Highlight. Markers must
// not contain backslashes, braces or "$".
type HighlightMarkers struct {
	Normal   string
	Command  string
	Argument string
	Math     string
}

// DefaultHighlightMarkers are understood by the text-widget renderer.
var DefaultHighlightMarkers = HighlightMarkers{
	Normal:   "[FONT:NORMAL]",
	Command:  "[FONT:TEX_COMMAND]",
	Argument: "[FONT:TEX_ARGUMENT]",
	Math:     "[FONT:MATH]",
}

var mathDelimiters = Delimiters{Open: "$", Close: "$"}

// Highlight annotates s with font markers: command names switch to
// m.Command, argument content to m.Argument and inline math to m.Math; every
// region falls back to m.Normal when it ends. The result always starts with
// m.Normal.
func Highlight(s string, m HighlightMarkers) string {
	out := ApplyBareCommandTags(s, BareCommandTag{Before: m.Command, After: m.Normal})
	out = ApplyCommandTags(out, CommandTag{
		BeforeCommand:    m.Command,
		AfterName:        m.Normal,
		BeforeArgContent: m.Argument,
		AfterArgContent:  m.Normal,
	})
	if m.Math != "" {
		out, _ = ApplyRangeTags(out, mathDelimiters, RangeTag{BeforeOpen: m.Math, AfterClose: m.Normal}, true)
	}
	return m.Normal + out
}

// Markers lists the non-empty markers, for splitting highlighted text.
func (m HighlightMarkers) Markers() []string {
	var out []string
	for _, marker := range []string{m.Normal, m.Command, m.Argument, m.Math} {
		if marker != "" {
			out = append(out, marker)
		}
	}
	return out
}
