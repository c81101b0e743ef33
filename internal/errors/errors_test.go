package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/waslang/internal/token"
)

func TestFormatPointsCaretAtColumn(t *testing.T) {
	d := &Diagnostic{
		Stage:    StageCompile,
		Message:  "Unknown identifier 'y'",
		Source:   "x := y + 1",
		Pos:      token.Position{Line: 1, Column: 6},
		TokenLen: 1,
	}
	out := d.Format(false)
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %q", out)
	}
	// line 0: "Error at line 1:6", line 1: source with "1 | " prefix,
	// line 2: caret line.
	caretLine := lines[2]
	idx := strings.Index(caretLine, "^")
	if idx == -1 {
		t.Fatalf("no caret found in %q", caretLine)
	}
	prefixLen := len("   1 | ")
	if idx != prefixLen+5 {
		t.Errorf("caret at column %d, want %d (source column 6, 0-indexed 5)", idx, prefixLen+5)
	}
}

func TestFormatWithFileName(t *testing.T) {
	d := &Diagnostic{Message: "boom", Source: "a", File: "script.wl", Pos: token.Position{Line: 1, Column: 1}}
	out := d.Format(false)
	if !strings.HasPrefix(out, "Error in script.wl:1:1") {
		t.Errorf("unexpected header: %q", out)
	}
}

func TestFormatAllNumbersMultipleErrors(t *testing.T) {
	diags := []*Diagnostic{
		{Message: "first", Pos: token.Position{Line: 1, Column: 1}},
		{Message: "second", Pos: token.Position{Line: 2, Column: 1}},
	}
	out := FormatAll(diags, false)
	if !strings.Contains(out, "[Error 1 of 2]") || !strings.Contains(out, "[Error 2 of 2]") {
		t.Errorf("expected numbered error headers, got %q", out)
	}
}

func TestFormatAllSingleErrorHasNoHeader(t *testing.T) {
	diags := []*Diagnostic{{Message: "only one", Pos: token.Position{Line: 1, Column: 1}}}
	out := FormatAll(diags, false)
	if strings.Contains(out, "[Error") {
		t.Errorf("single-error batch should not number itself, got %q", out)
	}
}

func TestFormatWithContextIncludesSurroundingLines(t *testing.T) {
	d := &Diagnostic{
		Message:  "Unknown identifier 'z'",
		Source:   "a := 1\nb := 2\nc := z\nd := 4\ne := 5",
		Pos:      token.Position{Line: 3, Column: 6},
		TokenLen: 1,
	}
	out := d.FormatWithContext(1, false)
	for _, want := range []string{"b := 2", "c := z", "d := 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected context to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "a := 1") || strings.Contains(out, "e := 5") {
		t.Errorf("expected context limited to one line on either side of the error, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret in %q", out)
	}
}

func TestFormatWithContextClampsAtSourceStart(t *testing.T) {
	d := &Diagnostic{
		Message: "boom",
		Source:  "only line",
		Pos:     token.Position{Line: 1, Column: 1},
	}
	out := d.FormatWithContext(3, false)
	if !strings.Contains(out, "only line") {
		t.Errorf("expected the single source line in %q", out)
	}
}
