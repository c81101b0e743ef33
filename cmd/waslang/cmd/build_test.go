package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

// resetBuildFlags restores build.go's package-level flag variables between
// test cases, since cobra normally resets them via flag parsing.
func resetBuildFlags() {
	buildOutput = ""
	buildDisassemble = false
	buildReport = ""
	buildMemoryPages = 0
	verbose = false
}

func TestRunBuildWritesWasmModule(t *testing.T) {
	resetBuildFlags()
	dir := t.TempDir()
	src := filepath.Join(dir, "script.wl")
	if err := os.WriteFile(src, []byte(`println "hi"`), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	if err := runBuild(nil, []string{src}); err != nil {
		t.Fatalf("runBuild failed: %v", err)
	}

	outPath := filepath.Join(dir, "script.wasm")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected output at %s: %v", outPath, err)
	}
	if len(data) < 8 || string(data[:4]) != "\x00asm" {
		n := len(data)
		if n > 8 {
			n = 8
		}
		t.Fatalf("output does not look like a wasm module: %v", data[:n])
	}
}

func TestRunBuildJSONReportFieldsReadableWithGjson(t *testing.T) {
	resetBuildFlags()
	dir := t.TempDir()
	src := filepath.Join(dir, "script.wl")
	script := `func square(x)
  ret x * x
end
println square(4)`
	if err := os.WriteFile(src, []byte(script), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	buildReport = "json"

	if err := runBuild(nil, []string{src}); err != nil {
		t.Fatalf("runBuild failed: %v", err)
	}

	reportPath := filepath.Join(dir, "script.report.json")
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("expected report at %s: %v", reportPath, err)
	}

	result := gjson.ParseBytes(data)
	if !result.Get("functionCount").Exists() {
		t.Fatal("expected functionCount field in report")
	}
	if fc := result.Get("functionCount").Int(); fc < 2 {
		t.Errorf("expected at least main + square, got functionCount=%d", fc)
	}
	if result.Get("stringTableBytes").Int() < 0 {
		t.Error("expected non-negative stringTableBytes")
	}
	names := result.Get("functions.#.name").Array()
	found := false
	for _, n := range names {
		if n.String() == "square" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a function named 'square' in the report, got %v", names)
	}
}

func TestRunBuildReportsCompileErrors(t *testing.T) {
	resetBuildFlags()
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.wl")
	if err := os.WriteFile(src, []byte(`println undefinedVar`), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	err := runBuild(nil, []string{src})
	if err == nil {
		t.Fatal("expected a compile error")
	}
}
