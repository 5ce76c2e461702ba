package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texprose/internal/types"
)

// Test helper functions

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCLI runs texprose with an isolated config file and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "texprose.yaml")
	var stdout, stderr bytes.Buffer
	err := run(append([]string{"--config", configPath}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func TestCommandsCmd(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "doc.tex", "intro \\textbf{bold}\n\\emph{x} \\par")

	out, err := runCLI(t, "", "commands", path)
	require.NoError(t, err)
	assert.Equal(t, path+":1:7\t\\textbf\t\"bold\"\n"+path+":2:1\t\\emph\t\"x\"\n", out)
}

func TestCommandsCmd_Brackets(t *testing.T) {
	out, err := runCLI(t, `\item[one] \cite[p. 3]{key}`, "commands", "--open", "[", "--close", "]")
	require.NoError(t, err)
	assert.Equal(t, "-:1:1\t\\item\t\"one\"\n-:1:12\t\\cite\t\"p. 3\"\n", out)
}

func TestCommandsCmd_InvalidDelimiters(t *testing.T) {
	_, err := runCLI(t, `\a{b}`, "commands", "--open", "|", "--close", "|")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidDelimiters, types.CodeOf(err))
}

func TestBareCmd(t *testing.T) {
	out, err := runCLI(t, `This is \acommand{\no} and \LaTeX`, "bare")
	require.NoError(t, err)
	assert.Equal(t, "-:1:19\t\\no\n-:1:28\t\\LaTeX\n", out)
}

func TestTagCmd(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"uniform", `\a{b}`, []string{"--uniform", "|"}, `|\a|{|b|}|`},
		{"explicit points", `\a{b}`, []string{"--before-arg-content", "<", "--after-arg-content", ">"}, `\a{<b>}`},
		{"explicit overrides uniform", `\a{b}`, []string{"--uniform", "|", "--after-arg", "!"}, `|\a|{|b|}!`},
		{"bare commands too", `\a{b} \c`, []string{"--uniform", "|", "--bare"}, `|\a|{|b|}| |\c|`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.input, append([]string{"tag"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRangeCmd(t *testing.T) {
	out, err := runCLI(t, `a $x$ costs \$5 $y$`, "range", "--uniform", "|", "--escapes")
	require.NoError(t, err)
	assert.Equal(t, `a |$|x|$| costs \$5 |$|y|$|`, out)

	_, err = runCLI(t, "x", "range", "--open=", "--uniform", "|")
	assert.Error(t, err)
}

func TestSplitCmd(t *testing.T) {
	out, err := runCLI(t, "[TAG1]new line[TAG2]this is", "split", "-m", "[TAG1]", "-m", "[TAG2]")
	require.NoError(t, err)
	assert.Equal(t, "[TAG1]\t\"new line\"\n[TAG2]\t\"this is\"\n", out)
}

func TestSplitCmd_DefaultMarkers(t *testing.T) {
	out, err := runCLI(t, "[FONT:NORMAL]a [FONT:TEX_COMMAND]\\b[FONT:NORMAL]", "split")
	require.NoError(t, err)
	assert.Equal(t, "[FONT:NORMAL]\t\"a \"\n[FONT:TEX_COMMAND]\t\"\\\\b\"\n", out)
}

func TestSplitCmd_ConfiguredMarkers(t *testing.T) {
	dir := t.TempDir()
	configPath := createTestFile(t, dir, "texprose.json", `{"markers": ["<A>", "<B>"]}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", configPath, "split"}, strings.NewReader("<A>x<B>y"), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "<A>\t\"x\"\n<B>\t\"y\"\n", stdout.String())
}

func TestLangCmd(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "en.txt", "This sentence was written to check that the command reports the English language for a longer text.")

	out, err := runCLI(t, "", "lang", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\ten\tEnglish\n", out)

	out, err = runCLI(t, "https://epic.com", "lang")
	require.NoError(t, err)
	assert.Equal(t, "-\tunknown\tUnknown\n", out)
}

func TestRepeatCmd(t *testing.T) {
	out, err := runCLI(t, "Abierto abierto abierto", "repeat", "--lang", "es")
	require.NoError(t, err)
	assert.Equal(t, "Abierto <repeated:1>abierto</repeated> <repeated:1>abierto</repeated>", out)

	out, err = runCLI(t, "Abierto abierto abierto", "repeat", "--lang", "es", "--ignore", "abierto")
	require.NoError(t, err)
	assert.Equal(t, "Abierto abierto abierto", out)

	out, err = runCLI(t, "alpha beta gamma alpha", "repeat", "--lang", "en", "--window", "2")
	require.NoError(t, err)
	assert.Equal(t, "alpha beta gamma alpha", out)
}

func TestRepeatCmd_ConfigLanguage(t *testing.T) {
	dir := t.TempDir()
	configPath := createTestFile(t, dir, "texprose.yaml", "language: es\nrepeat_tag: dup\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", configPath, "repeat"}, strings.NewReader("Abierto abierto"), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "Abierto <dup:1>abierto</dup>", stdout.String())
}

func TestRepeatCmd_InvalidWindow(t *testing.T) {
	_, err := runCLI(t, "word word", "repeat", "--lang", "en", "--window", "1")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidOptions, types.CodeOf(err))
}

func TestHighlightCmd(t *testing.T) {
	out, err := runCLI(t, `nice \epic`, "highlight")
	require.NoError(t, err)
	assert.Equal(t, `[FONT:NORMAL]nice [FONT:TEX_COMMAND]\epic[FONT:NORMAL]`, out)
}

func TestCheckCmd(t *testing.T) {
	out, err := runCLI(t, `\textbf{ok} $x$`, "check")
	require.NoError(t, err)
	assert.Equal(t, "-: ✓ markup validation passed with no issues\n", out)

	out, err = runCLI(t, `\section{Intro`, "check")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidInput, types.CodeOf(err))
	assert.Contains(t, out, "Argument of \\section is never closed")
	assert.Contains(t, out, "-: ✗ Validation failed: 1 error(s), 0 warning(s)\n")
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "texprose "+version+"\n", out)
}

func TestCommandsCmd_BracketsFlag(t *testing.T) {
	out, err := runCLI(t, `\item[one] \par{x}`, "commands", "--brackets")
	require.NoError(t, err)
	assert.Equal(t, "-:1:1\t\\item\t\"one\"\n", out)
}

func TestLangCmd_List(t *testing.T) {
	out, err := runCLI(t, "", "lang", "--list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, "ar\tArabic", lines[0])
	assert.Contains(t, lines, "en\tEnglish")
	assert.Contains(t, lines, "ru\tRussian")
}

func TestConfigCmd(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "texprose.yaml")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"--config", configPath, "config", "path"}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, configPath+"\n", stdout.String())

	stdout.Reset()
	require.NoError(t, run([]string{"--config", configPath, "config", "init"}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, configPath+"\n", stdout.String())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "language: auto")
	assert.Contains(t, string(data), "window: 15")

	err = run([]string{"--config", configPath, "config", "init"}, strings.NewReader(""), &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, types.ErrConfig, types.CodeOf(err))

	require.NoError(t, os.WriteFile(configPath, []byte("window: 3\n"), 0644))
	require.NoError(t, run([]string{"--config", configPath, "config", "init", "--force"}, strings.NewReader(""), &stdout, &stderr))
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "window: 15")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("boom"), 1},
		{"invalid input", types.NewAppError(types.ErrInvalidInput, "bad", nil), 2},
		{"invalid options", types.NewAppError(types.ErrInvalidOptions, "bad", nil), 2},
		{"file not found", types.NewAppError(types.ErrFileNotFound, "missing", nil), 3},
		{"config", types.NewAppError(types.ErrConfig, "config", nil), 4},
		{"io", types.NewAppError(types.ErrIO, "io", nil), 5},
		{"internal", types.NewAppError(types.ErrInternal, "internal", nil), 1},
		{"wrapped", fmt.Errorf("reading: %w", types.NewAppError(types.ErrFileNotFound, "missing", nil)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExitCode_UsageError(t *testing.T) {
	_, err := runCLI(t, "", "no-such-command")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = runCLI(t, "", "commands", filepath.Join(t.TempDir(), "missing.tex"))
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "texprose.log")
	_, err := runCLI(t, "Abierto abierto", "--log-file", logPath, "--verbose", "repeat", "--lang", "es")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG]")
	assert.Contains(t, string(data), "language=es")
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	a := createTestFile(t, dir, "a.tex", "A")
	b := createTestFile(t, dir, "sub/deep/b.tex", "B")
	createTestFile(t, dir, "sub/notes.txt", "N")

	t.Run("doublestar glob", func(t *testing.T) {
		inputs, err := readInputs([]string{filepath.Join(dir, "**", "*.tex")}, strings.NewReader(""))
		require.NoError(t, err)
		require.Len(t, inputs, 2)
		assert.Equal(t, a, inputs[0].name)
		assert.Equal(t, b, inputs[1].name)
		assert.Equal(t, "B", inputs[1].text)
	})

	t.Run("duplicates removed", func(t *testing.T) {
		inputs, err := readInputs([]string{a, a, filepath.Join(dir, "*.tex")}, strings.NewReader(""))
		require.NoError(t, err)
		assert.Len(t, inputs, 1)
	})

	t.Run("stdin", func(t *testing.T) {
		inputs, err := readInputs(nil, strings.NewReader("from stdin"))
		require.NoError(t, err)
		require.Len(t, inputs, 1)
		assert.Equal(t, stdinName, inputs[0].name)
		assert.Equal(t, "from stdin", inputs[0].text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readInputs([]string{filepath.Join(dir, "missing.tex")}, strings.NewReader(""))
		require.Error(t, err)
		assert.Equal(t, types.ErrFileNotFound, types.CodeOf(err))
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := readInputs([]string{filepath.Join(dir, "[")}, strings.NewReader(""))
		require.Error(t, err)
		assert.Equal(t, types.ErrInvalidInput, types.CodeOf(err))
	})
}

func TestLineCol(t *testing.T) {
	s := "ab\ncd\n\nef"
	tests := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tt := range tests {
		line, col := lineCol(s, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}
