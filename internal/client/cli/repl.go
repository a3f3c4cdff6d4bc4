package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	Send(ctx context.Context) error
	Watch(ctx context.Context) error
	Quest(ctx context.Context) error
	Hint(ctx context.Context) error
	Hack(ctx context.Context) error
	Public(ctx context.Context) error
	Reroll(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Lumen CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers log
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("lumen> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, send, watch, quest, hint, hack, public, reroll, logout, exit")
			} else {
				printlnFn("Available commands: login, public, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "me":
			_ = a.Me(ctx)

		case "send":
			_ = a.Send(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "quest":
			_ = a.Quest(ctx)

		case "hint":
			_ = a.Hint(ctx)

		case "hack":
			_ = a.Hack(ctx)

		case "public":
			_ = a.Public(ctx)

		case "reroll":
			_ = a.Reroll(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
