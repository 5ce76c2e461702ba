// Command texprose inspects and annotates LaTeX-like prose: it lists
// commands, inserts tag markers, splits tagged text, detects the language and
// marks repeated words.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"texprose/internal/config"
	"texprose/internal/logger"
	"texprose/internal/types"
)

const version = "0.1.0"

// cli defines the command-line interface for texprose.
type cli struct {
	// Global flags
	ConfigFile string `name:"config" help:"Config file (.yaml, .yml or .json)" type:"path"`
	LogFile    string `name:"log-file" help:"Also write logs to this file" type:"path"`
	LogLevel   string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Minimum log level"`
	Verbose    bool   `short:"v" help:"Enable debug logging"`

	Commands  CommandsCmd  `cmd:"" help:"List commands followed by a delimited argument"`
	Bare      BareCmd      `cmd:"" help:"List commands without an argument"`
	Tag       TagCmd       `cmd:"" help:"Insert markers around commands with an argument"`
	Range     RangeCmd     `cmd:"" help:"Insert markers around delimited ranges such as inline math"`
	Split     SplitCmd     `cmd:"" help:"Split tagged text into (marker, text) segments"`
	Lang      LangCmd      `cmd:"" help:"Detect the language of each input"`
	Repeat    RepeatCmd    `cmd:"" help:"Mark repeated words"`
	Highlight HighlightCmd `cmd:"" help:"Insert font markers for commands, arguments and math"`
	Check     CheckCmd     `cmd:"" help:"Report unbalanced braces, environments and inline math"`
	Config    ConfigCmd    `cmd:"" help:"Manage the configuration file"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// env is bound into every command's Run method.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	config *config.ConfigManager
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintf(e.stdout, "texprose %s\n", version)
	return nil
}

// run parses args and executes the selected command.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("texprose"),
		kong.Description("LaTeX command scanner, tagger and repeated-word checker"),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to build command line parser", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logConfig := logger.DefaultConfig()
	logConfig.Level = logger.ParseLevel(c.LogLevel)
	if c.Verbose {
		logConfig.Level = logger.LevelDebug
	}
	logConfig.LogFilePath = c.LogFile
	logConfig.Console = stderr
	if err := logger.Init(logConfig); err != nil {
		return types.NewAppError(types.ErrInternal, "failed to initialize logger", err)
	}
	defer logger.Close()

	cm, err := config.NewConfigManager(c.ConfigFile)
	if err != nil {
		return err
	}
	if err := cm.Load(); err != nil {
		return err
	}

	return ctx.Run(&env{stdin: stdin, stdout: stdout, config: cm})
}

// exitCode maps an error returned by run to the process exit status.
func exitCode(err error) int {
	var parseErr *kong.ParseError
	if errors.As(err, &parseErr) {
		return 2
	}
	switch types.CodeOf(err) {
	case types.ErrInvalidInput, types.ErrInvalidDelimiters, types.ErrEmptyMarkerSet, types.ErrInvalidOptions:
		return 2
	case types.ErrFileNotFound:
		return 3
	case types.ErrConfig:
		return 4
	case types.ErrIO:
		return 5
	default:
		return 1
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "texprose: %v\n", err)
		os.Exit(exitCode(err))
	}
}
