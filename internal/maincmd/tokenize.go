package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/scarab/lang/scanner"
	"github.com/mna/scarab/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles runs the lexer alone over each file and prints its token
// stream, one token per line, stopping at the first file that fails to
// read or the first ILLEGAL token.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		src, err := os.ReadFile(f)
		if err != nil {
			return printError(stdio, err)
		}

		lex := scanner.New(string(src))
		for {
			tok := lex.Next()
			fmt.Fprintf(stdio.Stdout, "%s:%d: %s\n", f, tok.Line, tok)
			if tok.Kind == token.EOF {
				break
			}
			if tok.Kind == token.ILLEGAL {
				return printError(stdio, fmt.Errorf("%s:%d: %s", f, tok.Line, tok.Text))
			}
		}
	}
	return nil
}
