package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"wisp/compiler"
	"wisp/disasm"
	"wisp/vm"
)

// runCmd compiles and executes a single wisp source file.
type runCmd struct {
	trace bool
	dasm  bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and run a wisp source file" }
func (*runCmd) Usage() string {
	return `run [-t] [-d] <file>:
  Compile and execute a wisp source file.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.trace, "t", false, "trace VM execution")
	f.BoolVar(&r.trace, "trace", false, "trace VM execution")
	f.BoolVar(&r.dasm, "d", false, "disassemble the compiled chunk before running it")
	f.BoolVar(&r.dasm, "dasm", false, "disassemble the compiled chunk before running it")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "wisp run: no file provided")
		return subcommands.ExitUsageError
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "wisp run: %v\n", err)
		return subcommands.ExitFailure
	}

	chunk, err := compiler.Compile(string(source))
	if err != nil {
		printCompileErrors(err)
		return subcommands.ExitSuccess
	}

	if r.dasm {
		fmt.Print(disasm.Chunk(args[0], chunk))
	}

	m := vm.New()
	m.SetTrace(r.trace)
	if err := m.Run(chunk); err != nil {
		fmt.Println(err)
		return subcommands.ExitSuccess
	}
	return subcommands.ExitSuccess
}
