package cmd

import (
	"fmt"

	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/errors"
	"github.com/cwbudde/waslang/internal/lexer"
	"github.com/cwbudde/waslang/internal/parser"
	"github.com/cwbudde/waslang/internal/token"
	"github.com/spf13/cobra"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and print its AST",
	Long: `Parse a waslang script and print its Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line. Use --dump-ast for an indented node
tree instead of the default one-line-per-statement rendering.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse an inline snippet instead of a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full indented AST node tree")
}

func runParse(_ *cobra.Command, args []string) error {
	input, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	file := ""
	if len(args) > 0 && parseEval == "" {
		file = args[0]
	}

	cfg, cfgErr := loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	color := colorEnabled(cfg.Color)

	program, err := parser.Parse(input)
	if err != nil {
		diag := diagnosticFromParseError(err, input, file)
		printDiagnostic(diag, color)
		return fmt.Errorf("parsing failed")
	}

	if parseDumpAST {
		dumpASTNode(program, 0)
	} else {
		fmt.Println(program.String())
	}
	return nil
}

// diagnosticFromParseError normalizes the two error shapes Parse can
// return: a *lexer.Error (the lexer, which runs one token ahead of the
// parser, hit malformed input) or a *parser.Error (a grammar rule rejected
// the token stream).
func diagnosticFromParseError(err error, source, file string) *errors.Diagnostic {
	switch e := err.(type) {
	case *lexer.Error:
		return &errors.Diagnostic{Stage: errors.StageLex, Message: e.Message, Source: source, File: file, Pos: e.Pos, TokenLen: 1}
	case *parser.Error:
		return &errors.Diagnostic{Stage: errors.StageParse, Message: e.Message, Source: source, File: file, Pos: e.Pos, TokenLen: e.TokenLength}
	default:
		return &errors.Diagnostic{Stage: errors.StageParse, Message: err.Error(), Source: source, File: file, Pos: token.Position{Line: 1, Column: 1}, TokenLen: 1}
	}
}

func dumpASTNode(node ast.Node, indent int) {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", prefix, len(n.Body))
		for _, stmt := range n.Body {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.IfStmt:
		fmt.Printf("%sIfStmt\n", prefix)
		fmt.Printf("%s  Cond:\n", prefix)
		dumpASTNode(n.Condition, indent+2)
		fmt.Printf("%s  Then:\n", prefix)
		for _, s := range n.ThenBranch {
			dumpASTNode(s, indent+2)
		}
		for i, elif := range n.ElifBranches {
			fmt.Printf("%s  Elif %d:\n", prefix, i)
			dumpASTNode(elif.Condition, indent+2)
			for _, s := range elif.Body {
				dumpASTNode(s, indent+2)
			}
		}
		if len(n.ElseBranch) > 0 {
			fmt.Printf("%s  Else:\n", prefix)
			for _, s := range n.ElseBranch {
				dumpASTNode(s, indent+2)
			}
		}
	case *ast.WhileStmt:
		fmt.Printf("%sWhileStmt\n", prefix)
		dumpASTNode(n.Condition, indent+1)
		for _, s := range n.Body {
			dumpASTNode(s, indent+1)
		}
	case *ast.ForStmt:
		fmt.Printf("%sForStmt %s\n", prefix, n.Name)
		for _, s := range n.Body {
			dumpASTNode(s, indent+1)
		}
	case *ast.FunctionDecl:
		fmt.Printf("%sFunctionDecl %s(%v)\n", prefix, n.Name, n.Params)
		for _, s := range n.Body {
			dumpASTNode(s, indent+1)
		}
	case *ast.ReturnStmt:
		fmt.Printf("%sReturnStmt\n", prefix)
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *ast.PrintStmt:
		fmt.Printf("%sPrintStmt\n", prefix)
		dumpASTNode(n.Value, indent+1)
	case *ast.PrintlnStmt:
		fmt.Printf("%sPrintlnStmt\n", prefix)
		dumpASTNode(n.Value, indent+1)
	case *ast.AssignStmt:
		fmt.Printf("%sAssignStmt %s\n", prefix, n.Name)
		dumpASTNode(n.Value, indent+1)
	case *ast.LocalAssignStmt:
		fmt.Printf("%sLocalAssignStmt %s\n", prefix, n.Name)
		dumpASTNode(n.Value, indent+1)
	case *ast.ExpressionStmt:
		fmt.Printf("%sExpressionStmt\n", prefix)
		dumpASTNode(n.Expr, indent+1)
	case *ast.Binary:
		fmt.Printf("%sBinary (%s)\n", prefix, n.Op)
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.Unary:
		fmt.Printf("%sUnary (%s)\n", prefix, n.Op)
		dumpASTNode(n.Operand, indent+1)
	case *ast.Grouping:
		fmt.Printf("%sGrouping\n", prefix)
		dumpASTNode(n.Inner, indent+1)
	case *ast.FunctionCall:
		fmt.Printf("%sFunctionCall %s\n", prefix, n.Name)
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	case *ast.NumberLiteral:
		fmt.Printf("%sNumberLiteral: %g\n", prefix, n.Value)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", prefix, n.Value)
	case *ast.BooleanLiteral:
		fmt.Printf("%sBooleanLiteral: %v\n", prefix, n.Value)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", prefix, n.Name)
	default:
		fmt.Printf("%s%T\n", prefix, node)
	}
}
