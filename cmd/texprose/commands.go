package main

import (
	"fmt"
	"os"
	"strings"

	"texprose/internal/config"
	"texprose/internal/langdetect"
	"texprose/internal/logger"
	"texprose/internal/repeat"
	"texprose/internal/texcmd"
	"texprose/internal/types"
	"texprose/internal/validator"
)

// FileArgs is shared by every command that reads text.
type FileArgs struct {
	Files []string `arg:"" optional:"" help:"Input files or ** globs; - or nothing reads standard input"`
}

// DelimiterFlags selects the argument delimiters.
type DelimiterFlags struct {
	Open     string `default:"{" help:"Opening delimiter"`
	Close    string `default:"}" help:"Closing delimiter"`
	Brackets bool   `help:"Use optional-argument brackets [ ] instead of --open and --close"`
}

func (f DelimiterFlags) delimiters() texcmd.Delimiters {
	if f.Brackets {
		return texcmd.OptionalDelimiters
	}
	return texcmd.Delimiters{Open: f.Open, Close: f.Close}
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(s string, offset int) (int, int) {
	line := 1 + strings.Count(s[:offset], "\n")
	col := offset - strings.LastIndex(s[:offset], "\n")
	return line, col
}

// CommandsCmd lists commands that take an argument.
type CommandsCmd struct {
	FileArgs       `embed:""`
	DelimiterFlags `embed:""`
}

func (c *CommandsCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		matches, err := texcmd.LocateCommands(in.text, c.delimiters())
		if err != nil {
			return err
		}
		for _, m := range matches {
			line, col := lineCol(in.text, m.Start)
			fmt.Fprintf(e.stdout, "%s:%d:%d\t\\%s\t%q\n", in.name, line, col, m.Name(in.text), m.Content(in.text))
		}
	}
	return nil
}

// BareCmd lists commands without an argument.
type BareCmd struct {
	FileArgs       `embed:""`
	DelimiterFlags `embed:""`
}

func (c *BareCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		spans, err := texcmd.LocateBareCommandsWith(in.text, c.delimiters())
		if err != nil {
			return err
		}
		for _, sp := range spans {
			line, col := lineCol(in.text, sp.Start)
			fmt.Fprintf(e.stdout, "%s:%d:%d\t%s\n", in.name, line, col, sp.Text(in.text))
		}
	}
	return nil
}

// TagCmd wraps commands with markers.
type TagCmd struct {
	FileArgs       `embed:""`
	DelimiterFlags `embed:""`

	Uniform          string `help:"Marker used at every insertion point not set explicitly"`
	BeforeCommand    string `name:"before-command" help:"Marker before the backslash"`
	AfterName        string `name:"after-name" help:"Marker after the command name"`
	BeforeArgContent string `name:"before-arg-content" help:"Marker after the opening delimiter"`
	AfterArgContent  string `name:"after-arg-content" help:"Marker before the closing delimiter"`
	AfterArg         string `name:"after-arg" help:"Marker after the closing delimiter"`
	Bare             bool   `help:"Also wrap commands without an argument (brace delimiters only)"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *TagCmd) tag() texcmd.CommandTag {
	return texcmd.CommandTag{
		BeforeCommand:    orDefault(c.BeforeCommand, c.Uniform),
		AfterName:        orDefault(c.AfterName, c.Uniform),
		BeforeArgContent: orDefault(c.BeforeArgContent, c.Uniform),
		AfterArgContent:  orDefault(c.AfterArgContent, c.Uniform),
		AfterArg:         orDefault(c.AfterArg, c.Uniform),
	}
}

func (c *TagCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	tag := c.tag()
	for _, in := range inputs {
		text := in.text
		if c.Bare {
			text = texcmd.ApplyBareCommandTags(text, texcmd.BareCommandTag{Before: tag.BeforeCommand, After: tag.AfterName})
		}
		out, err := texcmd.ApplyCommandTagsWith(text, c.delimiters(), tag)
		if err != nil {
			return err
		}
		fmt.Fprint(e.stdout, out)
	}
	return nil
}

// RangeCmd wraps delimited ranges with markers.
type RangeCmd struct {
	FileArgs `embed:""`

	Open        string `default:"$" help:"Opening delimiter"`
	Close       string `default:"$" help:"Closing delimiter"`
	Uniform     string `help:"Marker used at every insertion point not set explicitly"`
	BeforeOpen  string `name:"before-open" help:"Marker before the opening delimiter"`
	AfterOpen   string `name:"after-open" help:"Marker after the opening delimiter"`
	BeforeClose string `name:"before-close" help:"Marker before the closing delimiter"`
	AfterClose  string `name:"after-close" help:"Marker after the closing delimiter"`
	Escapes     bool   `help:"Ignore delimiters escaped with a backslash"`
}

func (c *RangeCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	d := texcmd.Delimiters{Open: c.Open, Close: c.Close}
	tag := texcmd.RangeTag{
		BeforeOpen:  orDefault(c.BeforeOpen, c.Uniform),
		AfterOpen:   orDefault(c.AfterOpen, c.Uniform),
		BeforeClose: orDefault(c.BeforeClose, c.Uniform),
		AfterClose:  orDefault(c.AfterClose, c.Uniform),
	}
	for _, in := range inputs {
		out, err := texcmd.ApplyRangeTags(in.text, d, tag, c.Escapes)
		if err != nil {
			return err
		}
		fmt.Fprint(e.stdout, out)
	}
	return nil
}

// SplitCmd splits tagged text into segments.
type SplitCmd struct {
	FileArgs `embed:""`

	Marker []string `short:"m" help:"Marker to split on (repeatable); defaults to the configured or highlight markers"`
}

func (c *SplitCmd) markers(e *env) []string {
	if len(c.Marker) > 0 {
		return c.Marker
	}
	if m := e.config.GetMarkers(); len(m) > 0 {
		return m
	}
	return texcmd.DefaultHighlightMarkers.Markers()
}

func (c *SplitCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	markers := c.markers(e)
	for _, in := range inputs {
		segments, err := texcmd.SplitTags(in.text, markers)
		if err != nil {
			return err
		}
		for _, seg := range segments {
			fmt.Fprintf(e.stdout, "%s\t%q\n", seg.Tag, seg.Text)
		}
	}
	return nil
}

// LangCmd detects the language of each input.
type LangCmd struct {
	FileArgs `embed:""`

	List bool `help:"List the languages supported by the repeat command and exit"`
}

func (c *LangCmd) Run(e *env) error {
	if c.List {
		for _, code := range repeat.SupportedLanguages() {
			fmt.Fprintf(e.stdout, "%s\t%s\n", code, langdetect.Name(code))
		}
		return nil
	}
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		code := langdetect.Detect(in.text)
		fmt.Fprintf(e.stdout, "%s\t%s\t%s\n", in.name, code, langdetect.Name(code))
	}
	return nil
}

// RepeatCmd marks repeated words.
type RepeatCmd struct {
	FileArgs `embed:""`

	Lang      string   `help:"Language code, or auto to detect it per input; defaults to the configured language"`
	Window    int      `help:"Lookback in words; 0 uses the configured value"`
	MinChars  int      `name:"min-chars" help:"Shortest checked word; 0 uses the configured value"`
	Ignore    []string `help:"Words never marked (repeatable), added to the configured list"`
	Highlight bool     `help:"Highlight commands before marking"`
}

func (c *RepeatCmd) options(e *env) repeat.Options {
	opts := repeat.FromConfig(e.config.GetConfig())
	if c.Window != 0 {
		opts.Window = c.Window
	}
	if c.MinChars != 0 {
		opts.MinChars = c.MinChars
	}
	opts.Ignore = append(append([]string(nil), opts.Ignore...), c.Ignore...)
	if c.Highlight {
		opts.RemoveTokens = append(append([]string(nil), opts.RemoveTokens...), texcmd.DefaultHighlightMarkers.Markers()...)
	}
	return opts
}

func (c *RepeatCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	lang := c.Lang
	if lang == "" {
		lang = e.config.GetLanguage()
	}

	d := repeat.NewDetector(c.options(e))
	for _, in := range inputs {
		text := in.text
		if c.Highlight {
			text = texcmd.Highlight(text, texcmd.DefaultHighlightMarkers)
		}
		resolved := d.Language(in.text, lang)
		if !repeat.IsSupported(resolved) {
			logger.Warn("language not supported for repeated words",
				logger.String("input", in.name), logger.String("language", resolved))
		}
		out, err := d.Mark(text, resolved)
		if err != nil {
			return err
		}
		fmt.Fprint(e.stdout, out)
	}
	return nil
}

// HighlightCmd inserts font markers.
type HighlightCmd struct {
	FileArgs `embed:""`
}

func (c *HighlightCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		fmt.Fprint(e.stdout, texcmd.Highlight(in.text, texcmd.DefaultHighlightMarkers))
	}
	return nil
}

// CheckCmd validates markup structure.
type CheckCmd struct {
	FileArgs `embed:""`

	MaxDepth int `name:"max-depth" default:"100" help:"Brace depth that triggers a warning"`
}

func (c *CheckCmd) Run(e *env) error {
	inputs, err := readInputs(c.Files, e.stdin)
	if err != nil {
		return err
	}
	v := &validator.MarkupValidator{MaxDepth: c.MaxDepth}
	failed := 0
	for _, in := range inputs {
		result := v.Validate(in.name, in.text)
		if len(result.Issues) > 0 {
			fmt.Fprintln(e.stdout, validator.FormatIssues(result.Issues))
		}
		fmt.Fprintf(e.stdout, "%s: %s\n", in.name, result.Summary)
		if !result.Valid {
			failed++
		}
	}
	if failed > 0 {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "validation failed",
			fmt.Sprintf("%d of %d input(s) have errors", failed, len(inputs)), nil)
	}
	return nil
}

// ConfigCmd groups configuration file commands.
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write the default configuration to the config file"`
	Path ConfigPathCmd `cmd:"" help:"Print the config file path"`
}

// ConfigInitCmd writes the default configuration.
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file"`
}

func (c *ConfigInitCmd) Run(e *env) error {
	path := e.config.GetConfigPath()
	if _, err := os.Stat(path); err == nil && !c.Force {
		return types.NewAppErrorWithDetails(types.ErrConfig, "config file already exists", path, nil)
	}
	e.config.SetConfig(config.DefaultConfig())
	if err := e.config.Save(); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, path)
	return nil
}

// ConfigPathCmd prints the config file path.
type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(e *env) error {
	fmt.Fprintln(e.stdout, e.config.GetConfigPath())
	return nil
}
