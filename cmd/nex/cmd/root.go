// Package cmd is the NEX command-line entry point: no arguments starts the
// REPL, a single file argument runs that file once.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexlang/nex/internal/interp"
	"github.com/nexlang/nex/internal/lexer"
	"github.com/nexlang/nex/internal/parser"
	"github.com/nexlang/nex/internal/repl"
	"github.com/nexlang/nex/internal/resolver"
)

// Version is set at build time via -ldflags.
var Version = "0.1.0-dev"

var (
	dumpTokens bool
	dumpAST    bool
)

var rootCmd = &cobra.Command{
	Use:     "nex [script]",
	Short:   "NEX language interpreter",
	Long:    "nex is a tree-walking interpreter for the NEX scripting language.\n\nRun with no arguments for an interactive REPL, or pass a single script\npath to execute it once.",
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	rootCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "print the token stream before running")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed statement count before running")
}

// Execute runs the root command and is the only symbol main calls.
func Execute() error {
	return rootCmd.Execute()
}

func run(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		repl.NewRepl(Version, "$ ").Start(os.Stdout)
		return nil
	}

	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nex: error: no such file %s\n", path)
		os.Exit(10)
	}

	os.Exit(runSource(string(src)))
	return nil
}

// runSource executes a whole program once and returns the process exit
// code: 65 for a lex/parse/resolve error, 70 for a runtime error, 0 on
// success.
func runSource(src string) int {
	lx := lexer.New(src)
	toks := lx.Scan()
	if dumpTokens {
		for _, t := range toks {
			fmt.Fprintln(os.Stdout, t.String())
		}
	}
	if lx.HadError() {
		for _, e := range lx.Errors() {
			fmt.Fprintln(os.Stderr, e)
		}
		return 65
	}

	p := parser.New(toks)
	stmts := p.Parse()
	if dumpAST {
		fmt.Fprintf(os.Stdout, "parsed %d top-level statement(s)\n", len(stmts))
	}
	if p.HadError() {
		for _, e := range p.Errors() {
			fmt.Fprintln(os.Stderr, e)
		}
		return 65
	}

	it := interp.New()
	res := resolver.New(it)
	res.Resolve(stmts)
	if res.HadError() {
		for _, e := range res.Errors() {
			fmt.Fprintln(os.Stderr, e)
		}
		return 65
	}

	if err := it.Interpret(stmts); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 70
	}

	return 0
}
