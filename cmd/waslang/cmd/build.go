package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/codegen"
	"github.com/cwbudde/waslang/internal/errors"
	"github.com/cwbudde/waslang/internal/parser"
	"github.com/cwbudde/waslang/internal/wasmbin"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var (
	buildOutput      string
	buildDisassemble bool
	buildReport      string
	buildMemoryPages int
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a script to a WebAssembly module",
	Long: `Compile a waslang script to a WebAssembly 1.0 binary module.

Examples:
  # Compile a script, writing script.wasm
  waslang build script.wl

  # Compile with a custom output path
  waslang build script.wl -o out.wasm

  # Compile and print the disassembled module
  waslang build script.wl --disassemble

  # Compile and write a JSON compile report alongside the module
  waslang build script.wl --report json`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file (default: <input> with a .wasm extension)")
	buildCmd.Flags().BoolVar(&buildDisassemble, "disassemble", false, "print the disassembled module to stderr after compiling")
	buildCmd.Flags().StringVar(&buildReport, "report", "", "emit a compile report: \"json\" or \"text\"")
	buildCmd.Flags().IntVar(&buildMemoryPages, "memory-pages", 0, "initial linear memory page count, min 1 (default: waslang.yaml's memoryPages, or 1)")
}

func runBuild(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	color := colorEnabled(cfg.Color)
	reportFormat := cfg.ReportFormat
	if buildReport != "" {
		reportFormat = buildReport
	}
	memoryPages := cfg.MemoryPages
	if buildMemoryPages != 0 {
		memoryPages = buildMemoryPages
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	program, err := parser.Parse(input)
	if err != nil {
		diag := diagnosticFromParseError(err, input, filename)
		printDiagnostic(diag, color)
		return fmt.Errorf("parsing failed")
	}

	module, stringData, err := codegen.CompileModule(program, codegen.CompileOptions{MemoryPages: memoryPages})
	if err != nil {
		diag := diagnosticFromCompileError(err, input, filename)
		printDiagnostic(diag, color)
		return fmt.Errorf("compilation failed")
	}
	data := module.Encode()

	if buildDisassemble {
		fmt.Fprintf(os.Stderr, "\n== Disassembled module (%s) ==\n", filename)
		fmt.Fprint(os.Stderr, wasmbin.Disassemble(module))
		fmt.Fprintln(os.Stderr)
	}

	outFile := resolveOutputPath(buildOutput, cfg.Output, filename)
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Written %s (%d bytes)\n", outFile, len(data))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}

	if reportFormat == "json" {
		report, err := buildJSONReport(filename, outFile, module, stringData, program, len(data))
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		reportFile := strings.TrimSuffix(outFile, filepath.Ext(outFile)) + ".report.json"
		if err := os.WriteFile(reportFile, []byte(report), 0o644); err != nil {
			return fmt.Errorf("failed to write report file %s: %w", reportFile, err)
		}
		fmt.Printf("Report written to %s\n", reportFile)
	} else if reportFormat == "text" && verbose {
		fmt.Fprintf(os.Stderr, "  functions: %d\n", len(module.Funcs))
		fmt.Fprintf(os.Stderr, "  string table bytes: %d\n", len(stringData))
	}

	return nil
}

// resolveOutputPath picks the output path from (in priority order) the
// --output flag, the config file's "output" field when it was explicitly
// overridden, and finally the input filename with its extension swapped
// for .wasm.
func resolveOutputPath(flagValue, configValue, inputFile string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" && configValue != defaultConfig().Output {
		return configValue
	}
	ext := filepath.Ext(inputFile)
	if ext != "" {
		return strings.TrimSuffix(inputFile, ext) + ".wasm"
	}
	return inputFile + ".wasm"
}

// buildJSONReport assembles the --report json document field by field with
// sjson, so each value is validated as it's set instead of relying on a
// single struct-to-JSON marshal (SPEC_FULL.md "DOMAIN STACK").
func buildJSONReport(input, output string, module *wasmbin.Module, stringData []byte, program *ast.Program, totalBytes int) (string, error) {
	var js string
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		js, err = sjson.Set(js, path, value)
	}

	set("input", input)
	set("output", output)
	set("totalBytes", totalBytes)
	set("stringTableBytes", len(stringData))
	set("functionCount", len(module.Funcs))
	set("heapSeed", 0)
	if len(module.Globals) > 0 {
		js, err = sjson.Set(js, "heapSeed", module.Globals[0].InitI32)
	}
	set("topLevelStatements", len(program.Body))

	for i, f := range module.Funcs {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("func_%d", module.FuncIndex(i))
		}
		localCount := uint32(0)
		for _, g := range f.Locals {
			localCount += g.Count
		}
		set(fmt.Sprintf("functions.%d.name", i), name)
		set(fmt.Sprintf("functions.%d.localCount", i), localCount)
		set(fmt.Sprintf("functions.%d.codeBytes", i), len(f.Body))
	}

	if err != nil {
		return "", err
	}
	return js, nil
}

func diagnosticFromCompileError(err error, source, file string) *errors.Diagnostic {
	if e, ok := err.(*codegen.Error); ok {
		return &errors.Diagnostic{Stage: errors.StageCompile, Message: e.Message, Source: source, File: file, Pos: e.Pos, TokenLen: e.TokenLen}
	}
	return &errors.Diagnostic{Stage: errors.StageCompile, Message: err.Error(), Source: source, File: file}
}
