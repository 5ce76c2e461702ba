// Package langdetect classifies prose samples by language.
package langdetect

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"texprose/internal/logger"
)

// Unknown is returned when no language can be determined.
const Unknown = "unknown"

// Detector returns an ISO 639-1 code for text, or Unknown.
type Detector interface {
	Detect(text string) string
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(text string) string

// Detect calls f(text).
func (f DetectorFunc) Detect(text string) string {
	return f(text)
}

// TrigramDetector is backed by whatlanggo's trigram statistics.
type TrigramDetector struct {
	// MinConfidence rejects results whatlanggo is less sure about.
	// Zero accepts any result.
	MinConfidence float64
	// Options restricts the candidate languages.
	Options whatlanggo.Options
}

// Default is the detector used by Detect.
var Default Detector = &TrigramDetector{}

// Detect classifies text with the Default detector.
func Detect(text string) string {
	return Default.Detect(text)
}

// Detect implements Detector.
func (d *TrigramDetector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || isURL(text) || !hasLetter(text) {
		return Unknown
	}

	info := whatlanggo.DetectWithOptions(text, d.Options)
	if info.Confidence < d.MinConfidence {
		logger.Debug("language detection below confidence floor",
			logger.Any("confidence", info.Confidence))
		return Unknown
	}
	return normalizeCode(whatlanggo.LangToString(info.Lang))
}

// normalizeCode maps an ISO 639-3 code such as "spa" to its shortest BCP 47
// form ("es").
func normalizeCode(code string) string {
	if code == "" {
		return Unknown
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return Unknown
	}
	return base.String()
}

// isURL reports whether text is a single absolute URL or a bare www. host.
func isURL(text string) bool {
	if strings.ContainsAny(text, " \t\n") {
		return false
	}
	if strings.HasPrefix(strings.ToLower(text), "www.") {
		return true
	}
	u, err := url.Parse(text)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var languageNamer = display.Languages(language.English)

// Name returns the English name of a language code ("es" -> "Spanish"), or
// "Unknown".
func Name(code string) string {
	if code == "" || code == Unknown {
		return "Unknown"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "Unknown"
	}
	name := languageNamer.Name(tag)
	if name == "" {
		return "Unknown"
	}
	return name
}
