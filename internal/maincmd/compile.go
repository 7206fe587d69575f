package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/scarab/lang/compiler"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(ctx, stdio, args...)
}

// CompileFiles runs the lexer and compiler over each file and prints the
// resulting bytecode disassembly and constants pool.
func CompileFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		src, err := os.ReadFile(f)
		if err != nil {
			return printError(stdio, err)
		}

		prog, err := compiler.Compile(string(src))
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", f, err))
		}

		fmt.Fprintf(stdio.Stdout, "-- %s --\n", f)
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(prog))
	}
	return nil
}
