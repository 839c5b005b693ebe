package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"wisp/compiler"
	"wisp/disasm"
	"wisp/scanner"
	"wisp/token"
	"wisp/vm"
)

// replCmd hosts an interactive wisp session. Globals persist across
// accepted lines because every line runs against the same vm.VM; locals
// never do, since each Run call resets the evaluation stack.
type replCmd struct {
	trace bool
	dasm  bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive wisp session" }
func (*replCmd) Usage() string {
	return `repl [-t] [-d]:
  Start an interactive wisp session.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.trace, "t", false, "trace VM execution")
	f.BoolVar(&r.trace, "trace", false, "trace VM execution")
	f.BoolVar(&r.dasm, "d", false, "disassemble each submitted chunk before running it")
	f.BoolVar(&r.dasm, "dasm", false, "disassemble each submitted chunk before running it")
}

func (r *replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".wisp_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "wisp repl: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	m := vm.New()
	m.SetTrace(r.trace)

	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			rl.SetPrompt("> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if buf.Len() == 0 {
				continue
			}
			buf.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "wisp repl: %v\n", err)
			return subcommands.ExitFailure
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
		source := buf.String()

		if !balanced(source) {
			continue
		}

		chunk, err := compiler.Compile(source)
		buf.Reset()
		if err != nil {
			printCompileErrors(err)
			continue
		}

		if r.dasm {
			fmt.Print(disasm.Chunk("repl", chunk))
		}

		if err := m.Run(chunk); err != nil {
			fmt.Println(err)
		}
	}
}

// balanced reports whether source has no unclosed '{' or '(', so the
// REPL knows to keep reading continuation lines instead of submitting a
// fragment that is still mid-block or mid-expression.
func balanced(source string) bool {
	s := scanner.New(source)
	depth := 0
	for {
		tok, err := s.Next()
		if err != nil {
			continue
		}
		switch tok.TokenType {
		case token.LCUR, token.LPA:
			depth++
		case token.RCUR, token.RPA:
			depth--
		case token.EOF:
			return depth <= 0
		}
	}
}
