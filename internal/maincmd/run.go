package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/scarab/lang/compiler"
	"github.com/mna/scarab/lang/vm"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, c.Trace, args...)
}

// RunFiles compiles and executes each file in turn, writing PRINTed values
// to stdio.Stdout as they happen. A runtime error in one file aborts that
// file's execution and moves on to the next.
func RunFiles(ctx context.Context, stdio mainer.Stdio, trace bool, files ...string) error {
	var failed error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		src, err := os.ReadFile(f)
		if err != nil {
			failed = printError(stdio, err)
			continue
		}

		prog, err := compiler.Compile(string(src))
		if err != nil {
			failed = printError(stdio, fmt.Errorf("%s: %w", f, err))
			continue
		}

		_, err = vm.Run(prog, vm.Options{
			Trace:  trace,
			Stdout: stdio.Stdout,
			Stderr: stdio.Stderr,
		})
		if err != nil {
			failed = printError(stdio, fmt.Errorf("%s: %w", f, err))
		}
	}
	return failed
}
