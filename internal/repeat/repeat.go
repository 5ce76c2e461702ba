package repeat

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"texprose/internal/langdetect"
	"texprose/internal/logger"
	"texprose/internal/texcmd"
)

// Token is a whitespace-delimited word of the input, found after the remove
// tokens were deleted. Span and Text refer to the original input. Norm is the
// form used for comparison, empty when the word can never be flagged.
type Token struct {
	texcmd.Span
	Text string
	Norm string
}

// Repetition is a token whose normalized form was already seen Distance
// tokens earlier.
type Repetition struct {
	Token
	Distance int
}

// normalizer turns raw words into comparable forms. It is not safe for
// concurrent use.
type normalizer struct {
	lang   language
	opts   Options
	fold   cases.Caser
	ignore map[string]bool
}

func newNormalizer(lang language, opts Options) *normalizer {
	n := &normalizer{
		lang:   lang,
		opts:   opts,
		fold:   cases.Fold(),
		ignore: make(map[string]bool, len(opts.Ignore)),
	}
	for _, w := range opts.Ignore {
		if key := n.comparable(n.clean(w)); key != "" {
			n.ignore[key] = true
		}
	}
	return n
}

// clean keeps letters, marks and digits, then NFC-normalizes and folds case.
func (n *normalizer) clean(w string) string {
	w = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, w)
	return n.fold.String(norm.NFC.String(w))
}

func (n *normalizer) comparable(w string) string {
	if w == "" {
		return ""
	}
	if n.opts.Stemming {
		return n.lang.stemWord(w)
	}
	return w
}

// normalize returns the comparison key of a raw word, or "".
func (n *normalizer) normalize(word string) string {
	if strings.ContainsRune(word, '\\') {
		return ""
	}

	w := n.clean(word)
	if utf8.RuneCountInString(w) < n.opts.MinChars {
		return ""
	}
	if n.opts.Stopwords && n.lang.isStopword(w) {
		return ""
	}
	key := n.comparable(w)
	if n.ignore[key] {
		return ""
	}
	return key
}

// removeTokens deletes every occurrence of the tokens from s in a single
// left-to-right pass, trying them in order at each position. offsets maps each
// byte of the result to its index in s; it is nil when nothing was removed.
func removeTokens(s string, tokens []string) (string, []int) {
	if len(tokens) == 0 {
		return s, nil
	}

	var sb strings.Builder
	var offsets []int
	removed := false
	for i := 0; i < len(s); {
		matched := false
		for _, tok := range tokens {
			if tok != "" && strings.HasPrefix(s[i:], tok) {
				i += len(tok)
				matched = true
				removed = true
				break
			}
		}
		if matched {
			continue
		}
		sb.WriteByte(s[i])
		offsets = append(offsets, i)
		i++
	}
	if !removed {
		return s, nil
	}
	return sb.String(), offsets
}

// tokenize splits s on whitespace.
func tokenize(s string) []Token {
	var tokens []Token
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Span: texcmd.Span{Start: start, End: i - 1}, Text: s[start:i]})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Span: texcmd.Span{Start: start, End: len(s) - 1}, Text: s[start:]})
	}
	return tokens
}

// FindRepetitions returns the repeated words of s in source order. It returns
// nil for an unsupported language.
func FindRepetitions(s, lang string, opts Options) ([]Repetition, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	l, ok := lookupLanguage(lang)
	if !ok {
		logger.Debug("repeated word check skipped", logger.String("language", lang))
		return nil, nil
	}

	text, offsets := removeTokens(s, opts.RemoveTokens)
	tokens := tokenize(text)
	n := newNormalizer(l, opts)
	for i := range tokens {
		tokens[i].Norm = n.normalize(tokens[i].Text)
		if offsets != nil {
			tokens[i].Start = offsets[tokens[i].Start]
			tokens[i].End = offsets[tokens[i].End]
			tokens[i].Text = s[tokens[i].Start : tokens[i].End+1]
		}
	}

	var reps []Repetition
	for i, tok := range tokens {
		if tok.Norm == "" {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-opts.Window; j-- {
			if tokens[j].Norm == tok.Norm {
				reps = append(reps, Repetition{Token: tok, Distance: i - j})
				break
			}
		}
	}
	logger.Debug("repeated word check finished",
		logger.String("language", lang),
		logger.Int("words", len(tokens)),
		logger.Int("repeated", len(reps)))
	return reps, nil
}

// MarkRepeatedWords wraps every repeated word of s as
// <repeated:N>word</repeated>, N being the distance in words to its previous
// occurrence. Unsupported languages and invalid options leave s unchanged.
func MarkRepeatedWords(s, lang string, opts Options) string {
	out, err := markRepeated(s, lang, opts)
	if err != nil {
		logger.Warn("repeated word check failed", logger.Err(err))
		return s
	}
	return out
}

func markRepeated(s, lang string, opts Options) (string, error) {
	reps, err := FindRepetitions(s, lang, opts)
	if err != nil || len(reps) == 0 {
		return s, err
	}

	tag := opts.tag()
	var sb strings.Builder
	sb.Grow(len(s) + len(reps)*(2*len(tag)+16+len(opts.FontBefore)+len(opts.FontAfter)))
	last := 0
	for _, r := range reps {
		sb.WriteString(s[last:r.Start])
		sb.WriteString("<" + tag + ":" + strconv.Itoa(r.Distance) + ">")
		sb.WriteString(opts.FontBefore)
		sb.WriteString(r.Text)
		sb.WriteString(opts.FontAfter)
		sb.WriteString("</" + tag + ">")
		last = r.End + 1
	}
	sb.WriteString(s[last:])
	return sb.String(), nil
}

// AutoLanguage asks the Detector to pick the language.
const AutoLanguage = "auto"

// Detector marks repeated words with fixed options, detecting the language of
// each text when asked to.
type Detector struct {
	Options   Options
	Languages langdetect.Detector
}

// NewDetector creates a Detector backed by the default language detector.
func NewDetector(opts Options) *Detector {
	return &Detector{Options: opts, Languages: langdetect.Default}
}

// Language resolves lang, running detection for "" and "auto".
func (d *Detector) Language(s, lang string) string {
	if lang != "" && lang != AutoLanguage {
		return lang
	}
	detector := d.Languages
	if detector == nil {
		detector = langdetect.Default
	}
	return detector.Detect(s)
}

// Mark is MarkRepeatedWords with the detector's options. Invalid options are
// reported and s is returned unchanged.
func (d *Detector) Mark(s, lang string) (string, error) {
	if err := d.Options.Validate(); err != nil {
		return s, err
	}
	lang = d.Language(s, lang)
	logger.Debug("checking repeated words", logger.String("language", lang))
	return markRepeated(s, lang, d.Options)
}
