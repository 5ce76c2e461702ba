// Package validator reports structural problems in LaTeX-like markup:
// unbalanced braces, unclosed command arguments, environments that do not
// nest and inline math left open at the end of a paragraph.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"texprose/internal/logger"
	"texprose/internal/texcmd"
)

// Severity of a ValidationIssue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue represents a problem found in the markup
type ValidationIssue struct {
	Severity Severity
	File     string
	Line     int // 1-based, 0 when the issue concerns the whole input
	Column   int
	Message  string
	Details  string
}

// ValidationResult contains the results of a validation run
type ValidationResult struct {
	Valid   bool
	Issues  []ValidationIssue
	Summary string
}

// MarkupValidator checks markup fragments
type MarkupValidator struct {
	// MaxDepth is the brace nesting depth above which a warning is raised.
	MaxDepth int
}

// NewMarkupValidator creates a validator with default limits
func NewMarkupValidator() *MarkupValidator {
	return &MarkupValidator{MaxDepth: 100}
}

// Validate runs every check against content. name is only used in issues.
func (v *MarkupValidator) Validate(name, content string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	code := stripComments(content)

	v.checkBraceBalance(name, code, result)
	v.checkEnvironments(name, code, result)
	v.checkInlineMath(name, code, result)
	v.generateSummary(result)

	logger.Debug("validation completed",
		logger.String("file", name),
		logger.Bool("valid", result.Valid),
		logger.Int("issues", len(result.Issues)))
	return result
}

// stripComments blanks every unescaped % up to the end of its line, keeping
// offsets intact.
func stripComments(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] != '%' || texcmd.IsEscaped(s, i) {
			continue
		}
		for ; i < len(b) && b[i] != '\n'; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// position converts a byte offset into a 1-based line and column.
func position(s string, offset int) (int, int) {
	line := 1 + strings.Count(s[:offset], "\n")
	return line, offset - strings.LastIndex(s[:offset], "\n")
}

func (r *ValidationResult) add(severity Severity, file, content string, offset int, message, details string) {
	issue := ValidationIssue{Severity: severity, File: file, Message: message, Details: details}
	if offset >= 0 {
		issue.Line, issue.Column = position(content, offset)
	}
	if severity == SeverityError {
		r.Valid = false
	}
	r.Issues = append(r.Issues, issue)
}

// commandBefore returns the name of the command that ends right before i, or
// "".
func commandBefore(s string, i int) string {
	j := i
	for j > 0 && isASCIILetter(s[j-1]) {
		j--
	}
	if j == i || j == 0 || s[j-1] != '\\' || texcmd.IsEscaped(s, j-1) {
		return ""
	}
	return s[j:i]
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// checkBraceBalance checks that every unescaped brace is matched
func (v *MarkupValidator) checkBraceBalance(name, content string, result *ValidationResult) {
	var open []int
	maxDepth := 0
	warned := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		if (c != '{' && c != '}') || texcmd.IsEscaped(content, i) {
			continue
		}
		if c == '{' {
			open = append(open, i)
			if len(open) > maxDepth {
				maxDepth = len(open)
			}
			if v.MaxDepth > 0 && len(open) > v.MaxDepth && !warned {
				warned = true
				result.add(SeverityWarning, name, content, i, "Suspiciously deep brace nesting",
					fmt.Sprintf("Nesting depth: %d", len(open)))
			}
			continue
		}
		if len(open) == 0 {
			result.add(SeverityError, name, content, i, "Extra closing brace", "Found '}' without matching '{'")
			continue
		}
		open = open[:len(open)-1]
	}

	for _, pos := range open {
		if cmd := commandBefore(content, pos); cmd != "" {
			result.add(SeverityError, name, content, pos, "Unclosed argument",
				fmt.Sprintf("Argument of \\%s is never closed", cmd))
			continue
		}
		result.add(SeverityError, name, content, pos, "Unclosed brace", "Found '{' without matching '}'")
	}

	logger.Debug("brace balance check",
		logger.String("file", name),
		logger.Int("unclosed", len(open)),
		logger.Int("maxDepth", maxDepth))
}

// environmentCommands returns every \begin{name} and \end{name} of content,
// including those inside other commands' arguments or after an unclosed brace.
func environmentCommands(content string) []envCommand {
	var cmds []envCommand
	for i := 0; i < len(content); i++ {
		if content[i] != '\\' || texcmd.IsEscaped(content, i) {
			continue
		}
		j := i + 1
		for j < len(content) && isASCIILetter(content[j]) {
			j++
		}
		kind := content[i+1 : j]
		if (kind != "begin" && kind != "end") || j >= len(content) || content[j] != '{' {
			continue
		}
		closer, ok := texcmd.FindClosing(content, j+1, texcmd.DefaultDelimiters)
		if !ok {
			continue
		}
		cmds = append(cmds, envCommand{
			begin: kind == "begin",
			name:  strings.TrimSpace(content[j+1 : closer]),
			pos:   i,
		})
		i = closer
	}
	return cmds
}

type envCommand struct {
	begin bool
	name  string
	pos   int
}

// checkEnvironments checks that \begin{env} and \end{env} nest
func (v *MarkupValidator) checkEnvironments(name, content string, result *ValidationResult) {
	var stack []envCommand
	for _, c := range environmentCommands(content) {
		if c.begin {
			stack = append(stack, c)
			continue
		}
		if len(stack) == 0 {
			result.add(SeverityWarning, name, content, c.pos,
				fmt.Sprintf("\\end{%s} without matching \\begin{%s}", c.name, c.name), "")
			continue
		}
		last := stack[len(stack)-1]
		if last.name != c.name {
			result.add(SeverityWarning, name, content, c.pos, "Environment mismatch",
				fmt.Sprintf("expected \\end{%s}, found \\end{%s}", last.name, c.name))
		}
		stack = stack[:len(stack)-1]
	}

	for _, e := range stack {
		result.add(SeverityWarning, name, content, e.pos, "Unclosed environment",
			fmt.Sprintf("Missing \\end{%s}", e.name))
	}
}

// checkInlineMath checks that every paragraph closes its $ math
func (v *MarkupValidator) checkInlineMath(name, content string, result *ValidationResult) {
	start := 0
	for start < len(content) {
		end := strings.Index(content[start:], "\n\n")
		if end < 0 {
			end = len(content)
		} else {
			end += start
		}

		last := -1
		count := 0
		for i := start; i < end; i++ {
			if content[i] == '$' && !texcmd.IsEscaped(content, i) {
				count++
				last = i
			}
		}
		if count%2 != 0 {
			result.add(SeverityWarning, name, content, last, "Unmatched $ for inline math",
				truncate(strings.TrimSpace(content[start:end]), 60))
		}
		start = end + 2
	}
}

// generateSummary creates a human-readable summary of validation results
func (v *MarkupValidator) generateSummary(result *ValidationResult) {
	if result.Valid && len(result.Issues) == 0 {
		result.Summary = "✓ markup validation passed with no issues"
		return
	}

	errorCount := 0
	warningCount := 0
	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			errorCount++
		} else {
			warningCount++
		}
	}

	if errorCount > 0 {
		result.Summary = fmt.Sprintf("✗ Validation failed: %d error(s), %d warning(s)", errorCount, warningCount)
	} else {
		result.Summary = fmt.Sprintf("⚠ Validation passed with %d warning(s)", warningCount)
	}
}

// truncate cuts s to at most maxLen bytes without splitting a character
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// FormatIssues formats validation issues for display
func FormatIssues(issues []ValidationIssue) string {
	if len(issues) == 0 {
		return "No issues found"
	}

	var sb strings.Builder
	for i, issue := range issues {
		icon := "⚠"
		if issue.Severity == SeverityError {
			icon = "✗"
		}

		sb.WriteString(fmt.Sprintf("%s [%s] %s", icon, strings.ToUpper(string(issue.Severity)), issue.Message))
		if issue.File != "" {
			sb.WriteString(fmt.Sprintf(" (file: %s", issue.File))
			if issue.Line > 0 {
				sb.WriteString(fmt.Sprintf(", line: %d, column: %d", issue.Line, issue.Column))
			}
			sb.WriteString(")")
		}
		if issue.Details != "" {
			sb.WriteString(fmt.Sprintf("\n  Details: %s", issue.Details))
		}
		if i < len(issues)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
