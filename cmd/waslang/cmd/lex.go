package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/waslang/internal/errors"
	"github.com/cwbudde/waslang/internal/lexer"
	"github.com/cwbudde/waslang/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval     string
	lexShowPos  bool
	lexShowType bool
	lexOnlyErr  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a script and print its token stream",
	Long: `Tokenize a waslang script and print each token.

If no file is provided, reads from stdin. Use -e to lex a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "lex an inline snippet instead of a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's line:column")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show each token's type name")
	lexCmd.Flags().BoolVar(&lexOnlyErr, "only-errors", false, "suppress token output, print only lexical errors")
}

func runLex(_ *cobra.Command, args []string) error {
	input, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	color := colorEnabled(cfg.Color)

	l := lexer.New(input)
	count := 0
	for {
		tok, err := l.NextToken()
		if err != nil {
			diag := &errors.Diagnostic{Stage: errors.StageLex, Message: err.Error(), Source: input, TokenLen: 1}
			if lexErr, ok := err.(*lexer.Error); ok {
				diag.Message = lexErr.Message
				diag.Pos = lexErr.Pos
			}
			printDiagnostic(diag, color)
			return fmt.Errorf("lexing failed")
		}
		count++
		if !lexOnlyErr {
			printToken(tok)
		}
		if tok.Type == token.EOF {
			break
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%d token(s)\n", count)
	}
	return nil
}

func printToken(tok token.Token) {
	fmt.Printf("%-12s", tok.Type.String())
	if tok.Text != "" {
		fmt.Printf(" %q", tok.Text)
	}
	if lexShowPos {
		fmt.Printf(" @%d:%d", tok.Start.Line, tok.Start.Column)
	}
	if lexShowType {
		fmt.Printf(" (%d)", tok.Type)
	}
	fmt.Println()
}

// readSource resolves a subcommand's input from -e, a file argument, or
// stdin, in that priority order (matches the teacher's parse.go).
func readSource(inline string, args []string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}
