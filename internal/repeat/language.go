package repeat

import (
	"sort"
	"strings"

	"github.com/bbalet/stopwords"
	snowball "github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/danish"
	"github.com/blevesearch/snowballstem/dutch"
	"github.com/blevesearch/snowballstem/english"
	"github.com/blevesearch/snowballstem/finnish"
	"github.com/blevesearch/snowballstem/french"
	"github.com/blevesearch/snowballstem/german"
	"github.com/blevesearch/snowballstem/hungarian"
	"github.com/blevesearch/snowballstem/italian"
	"github.com/blevesearch/snowballstem/norwegian"
	"github.com/blevesearch/snowballstem/portuguese"
	"github.com/blevesearch/snowballstem/romanian"
	"github.com/blevesearch/snowballstem/russian"
	"github.com/blevesearch/snowballstem/spanish"
	"github.com/blevesearch/snowballstem/swedish"
	"github.com/blevesearch/snowballstem/turkish"
)

type stemFunc func(env *snowball.Env) bool

// language describes how words of one language are compared.
type language struct {
	// stopwords is the code understood by the stopword lists.
	stopwords string
	// stem is nil for languages compared without stemming.
	stem stemFunc
}

// Arabic is compared unstemmed, so فرنسية and الفرنسية stay different words.
var languages = map[string]language{
	"ar": {stopwords: "ar"},
	"da": {stopwords: "da", stem: danish.Stem},
	"de": {stopwords: "de", stem: german.Stem},
	"en": {stopwords: "en", stem: english.Stem},
	"es": {stopwords: "es", stem: spanish.Stem},
	"fi": {stopwords: "fi", stem: finnish.Stem},
	"fr": {stopwords: "fr", stem: french.Stem},
	"hu": {stopwords: "hu", stem: hungarian.Stem},
	"it": {stopwords: "it", stem: italian.Stem},
	"nl": {stopwords: "nl", stem: dutch.Stem},
	"no": {stopwords: "no", stem: norwegian.Stem},
	"nb": {stopwords: "no", stem: norwegian.Stem},
	"pt": {stopwords: "pt", stem: portuguese.Stem},
	"ro": {stopwords: "ro", stem: romanian.Stem},
	"ru": {stopwords: "ru", stem: russian.Stem},
	"sv": {stopwords: "sv", stem: swedish.Stem},
	"tr": {stopwords: "tr", stem: turkish.Stem},
}

func lookupLanguage(code string) (language, bool) {
	l, ok := languages[strings.ToLower(strings.TrimSpace(code))]
	return l, ok
}

// IsSupported reports whether words of the language can be checked.
func IsSupported(code string) bool {
	_, ok := lookupLanguage(code)
	return ok
}

// SupportedLanguages returns the supported ISO 639-1 codes, sorted.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (l language) stemWord(w string) string {
	if l.stem == nil {
		return w
	}
	env := snowball.NewEnv(w)
	l.stem(env)
	return env.Current()
}

// isStopword reports whether the stopword list drops w. The list also drops
// numbers.
func (l language) isStopword(w string) bool {
	return strings.TrimSpace(stopwords.CleanString(w, l.stopwords, false)) == ""
}
