package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// dispatcher is the command surface the REPL drives. App implements it;
// tests use a stub.
type dispatcher interface {
	help() string
	dispatch(ctx context.Context, cmd string, args []string) error
}

// runREPL reads one line at a time, splits it into a command and arguments
// and hands it to d. "help" lists the commands, "exit" or "quit" leaves.
// Errors are printed and the loop continues. It returns on EOF or when ctx
// is done.
func runREPL(ctx context.Context, d dispatcher, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		fmt.Printf("dealer %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			printlnFn(d.help())
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			if err := d.dispatch(ctx, cmd, parts[1:]); err != nil {
				printlnFn("Error:", describe(err))
			}
		}
	}
}
