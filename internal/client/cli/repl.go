package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it;
// tests use a lightweight stub.
type execIface interface {
	signedIn(ctx context.Context) bool
	routes(signedIn bool) []string
	Navigate(ctx context.Context, route string) error
	SignOut(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it.
//
// Commands
//
//	help           show the commands available in the current state
//	<view name>    open a view (signin, dashboard, posts, ...)
//	signout        drop the stored token
//	exit | quit    leave the program
//
// View errors other than end of input are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("eco%s> ", prefixSpace(statusFn())))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			in := a.signedIn(ctx)
			cmds := append(a.routes(in), "exit")
			if in {
				cmds = append(cmds, "signout")
			}
			sort.Strings(cmds)
			printlnFn("Available commands:", strings.Join(cmds, ", "))

		case "signout", "logout":
			if err := a.SignOut(ctx); err != nil && errors.Is(err, io.EOF) {
				return
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			err := a.Navigate(ctx, cmd)
			switch {
			case err == nil:
			case errors.Is(err, errUnknownView):
				printlnFn("Unknown command:", cmd)
			case errors.Is(err, io.EOF):
				return
			default:
				printlnFn("Error:", err)
			}
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
