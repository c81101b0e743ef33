// Package cmd implements the waslang CLI, grounded on the teacher's
// cmd/dwscript/cmd package: the same rootCmd/PersistentFlags("verbose")
// and Version/GitCommit/BuildDate ldflags pattern, adapted to a WebAssembly
// compiler's subcommands (lex, parse, build, version).
package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/waslang/internal/errors"
	"github.com/spf13/cobra"
)

// Version, GitCommit and BuildDate are overridden at link time via
// -ldflags "-X ...=...", matching the teacher's cmd/dwscript/cmd/version.go.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "waslang",
	Short:   "Compile a small imperative scripting language to WebAssembly",
	Version: Version,
	Long: `waslang compiles the scripting language described in its
specification directly to a WebAssembly 1.0 binary module: no interpreter,
no intermediate bytecode, a single pass from source to .wasm bytes.`,
}

func init() {
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("waslang version {{.Version}}\ngit commit: %s\nbuild date: %s\n", GitCommit, BuildDate),
	)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic progress to stderr")
}

// Execute runs the root command, exiting the process with status 1 on
// failure (spec.md's three error classes all surface as a non-zero exit).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// printDiagnostic prints diag to stderr. Under --verbose it expands two
// lines of surrounding source context instead of just the offending line,
// since a verbose run is exactly when the extra context earns its keep.
func printDiagnostic(diag *errors.Diagnostic, color bool) {
	if verbose {
		fmt.Fprintln(os.Stderr, diag.FormatWithContext(2, color))
		return
	}
	fmt.Fprintln(os.Stderr, diag.Format(color))
}
