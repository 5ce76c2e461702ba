// Package repeat marks words that occur again within a short window of
// preceding words, after language-aware normalization.
package repeat

import (
	"errors"
	"fmt"

	"texprose/internal/types"
)

// ErrInvalidOptions is wrapped by the error Options.Validate returns.
var ErrInvalidOptions = errors.New("invalid repeat options")

const (
	// DefaultMinChars is the shortest word, in characters, that is checked
	DefaultMinChars = 3
	// DefaultWindow is the lookback in words
	DefaultWindow = 15
	// DefaultTag names the element wrapped around repeated words
	DefaultTag = "repeated"
)

// Options controls MarkRepeatedWords.
type Options struct {
	// MinChars is the shortest normalized word, in characters, that can be
	// flagged.
	MinChars int
	// Window is how many preceding words are searched for a previous
	// occurrence. Words that were blanked out still take up a slot.
	Window int
	// Stopwords drops the language's stopwords before comparison.
	Stopwords bool
	// Stemming compares snowball stems instead of whole words.
	Stemming bool
	// Ignore lists words that are never flagged. They are normalized the same
	// way as the text.
	Ignore []string
	// RemoveTokens are deleted from the text before it is split into words,
	// so a token may contain whitespace. Marked words keep their original
	// text, including tokens removed from inside them.
	RemoveTokens []string

	// Tag names the wrapping element, "repeated" when empty.
	Tag string
	// FontBefore and FontAfter are placed around the word inside the element.
	FontBefore string
	FontAfter  string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MinChars:  DefaultMinChars,
		Window:    DefaultWindow,
		Stopwords: true,
		Stemming:  true,
		Tag:       DefaultTag,
	}
}

// FromConfig builds Options from the application configuration.
func FromConfig(cfg *types.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.MinChars != 0 {
		opts.MinChars = cfg.MinChars
	}
	if cfg.Window != 0 {
		opts.Window = cfg.Window
	}
	if cfg.RepeatTag != "" {
		opts.Tag = cfg.RepeatTag
	}
	opts.Stopwords = cfg.Stopwords
	opts.Stemming = cfg.Stemming
	opts.Ignore = cfg.Ignore
	opts.RemoveTokens = cfg.RemoveTokens
	return opts
}

// Validate reports options that cannot produce a meaningful result.
func (o Options) Validate() error {
	if o.Window < 2 {
		return types.NewAppErrorWithDetails(types.ErrInvalidOptions, "invalid repeat options",
			fmt.Sprintf("window must be at least 2, got %d", o.Window), ErrInvalidOptions)
	}
	if o.MinChars < 1 {
		return types.NewAppErrorWithDetails(types.ErrInvalidOptions, "invalid repeat options",
			fmt.Sprintf("min chars must be at least 1, got %d", o.MinChars), ErrInvalidOptions)
	}
	for i, tok := range o.RemoveTokens {
		if tok == "" {
			return types.NewAppErrorWithDetails(types.ErrInvalidOptions, "invalid repeat options",
				fmt.Sprintf("remove_tokens[%d] is empty", i), ErrInvalidOptions)
		}
	}
	return nil
}

func (o Options) tag() string {
	if o.Tag == "" {
		return DefaultTag
	}
	return o.Tag
}
