// Package repl implements NEX's interactive Read-Eval-Print Loop.
//
// Each line is lexed, parsed, and resolved fresh, but all lines share one
// Interpreter (and so one global Environment): a function or class defined
// on one line is callable from the next. Lex/parse/resolve errors are
// printed and the REPL keeps going; a resolver error that would abort a
// file run is, in the REPL, just another line to correct and retry.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/nexlang/nex/internal/interp"
	"github.com/nexlang/nex/internal/lexer"
	"github.com/nexlang/nex/internal/parser"
	"github.com/nexlang/nex/internal/resolver"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const banner = `
 _   _ _______  __
| \ | |  ___\ \/ /
|  \| | |__  \  /
| . \ |  __| /  \
| |\  | |___/ /\ \
\_| \_|____/_/  \_\
`

// Repl is a configured interactive session.
type Repl struct {
	Version string
	Prompt  string
}

// NewRepl creates a Repl ready to Start.
func NewRepl(version, prompt string) *Repl {
	return &Repl{Version: version, Prompt: prompt}
}

func (r *Repl) printBanner(w io.Writer) {
	line := strings.Repeat("-", 40)
	blueColor.Fprintln(w, line)
	greenColor.Fprintln(w, banner)
	blueColor.Fprintln(w, line)
	yellowColor.Fprintln(w, "nex "+r.Version)
	blueColor.Fprintln(w, line)
	cyanColor.Fprintln(w, "Type your code and press enter.")
	cyanColor.Fprintln(w, "Type '.exit' to quit.")
	blueColor.Fprintln(w, line)
}

// Start runs the loop until the user exits or EOF is reached. It panics only
// if the line editor cannot be created; otherwise it returns normally, and
// file-mode exit-code mapping does not apply to the REPL.
func (r *Repl) Start(w io.Writer) {
	r.printBanner(w)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	it := interp.New()
	it.SetOutput(w)

	for {
		line, err := rl.Readline()
		if err != nil {
			io.WriteString(w, "Good bye!\n")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			io.WriteString(w, "Good bye!\n")
			return
		}

		rl.SaveHistory(line)
		r.evalLine(w, it, line)
	}
}

func (r *Repl) evalLine(w io.Writer, it *interp.Interpreter, line string) {
	defer func() {
		if rec := recover(); rec != nil {
			redColor.Fprintf(w, "[RUNTIME ERROR] %v\n", rec)
		}
	}()

	lx := lexer.New(line)
	toks := lx.Scan()
	if lx.HadError() {
		for _, e := range lx.Errors() {
			redColor.Fprintln(w, e)
		}
		return
	}

	p := parser.New(toks)
	stmts := p.Parse()
	if p.HadError() {
		for _, e := range p.Errors() {
			redColor.Fprintln(w, e)
		}
		return
	}

	res := resolver.New(it)
	res.Resolve(stmts)
	if res.HadError() {
		for _, e := range res.Errors() {
			redColor.Fprintln(w, e)
		}
		return
	}

	if err := it.Interpret(stmts); err != nil {
		redColor.Fprintln(w, err.Error())
	}
}
