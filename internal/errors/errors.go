// Package errors formats waslang diagnostics with source context: a
// line/column header and a caret pointing at the offending position
// (spec.md §7). Adapted from the teacher's CompilerError formatter.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/waslang/internal/token"
)

// Stage identifies which pipeline stage raised the diagnostic.
type Stage string

const (
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageCompile Stage = "compile"
)

// Diagnostic is a single compiler error with position and source context,
// matching the {line, column, message} shape required by spec.md §4.1/§4.2/§6.
type Diagnostic struct {
	Stage      Stage
	Message    string
	Source     string
	File       string
	Pos        token.Position
	TokenLen   int
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic with a single line of source context and
// a caret. If color is true, ANSI escapes highlight the caret and message.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", d.Pos.Line, d.Pos.Column)
	}

	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(prefix)+d.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		width := d.TokenLen
		if width < 1 {
			width = 1
		}
		sb.WriteString(strings.Repeat("^", width))
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// sourceContext returns the lines from (lineNum-before) to (lineNum+after),
// clamped to the source's bounds, and the 1-indexed line number of the
// first returned line. Adapted from the teacher's getSourceContext.
func sourceContext(source string, lineNum, before, after int) ([]string, int) {
	if source == "" || lineNum < 1 {
		return nil, 0
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return nil, 0
	}
	start := lineNum - before
	if start < 1 {
		start = 1
	}
	end := lineNum + after
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start-1 : end], start
}

// FormatWithContext is like Format but surrounds the offending line with up
// to contextLines of source on either side, dimming the non-error lines
// when color is enabled. Adapted from the teacher's CompilerError.FormatWithContext.
func (d *Diagnostic) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", d.Pos.Line, d.Pos.Column)
	}

	lines, startLine := sourceContext(d.Source, d.Pos.Line, contextLines, contextLines)
	if len(lines) == 0 {
		sb.WriteString(d.Message)
		return sb.String()
	}

	for i, line := range lines {
		currentLine := startLine + i
		prefix := fmt.Sprintf("%4d | ", currentLine)

		if currentLine == d.Pos.Line {
			if color {
				sb.WriteString("\033[1m")
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")

			sb.WriteString(strings.Repeat(" ", len(prefix)+d.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			width := d.TokenLen
			if width < 1 {
				width = 1
			}
			sb.WriteString(strings.Repeat("^", width))
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		} else {
			if color {
				sb.WriteString("\033[2m")
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// FormatAll renders a batch of diagnostics, numbering them when there is
// more than one (spec.md §7: "the first error in each stage terminates
// that stage", so in practice this compiler only ever surfaces one, but
// the formatter supports a batch for callers that collect several).
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Compilation failed with %d error(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
