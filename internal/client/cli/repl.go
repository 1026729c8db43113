package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Record(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context, name string) error
	Discard(ctx context.Context) error
	List(ctx context.Context) error
	Retry(ctx context.Context, id string) error
	Drop(ctx context.Context, id string) error
	Rename(ctx context.Context, id string, name string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the recordings CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	record                 start capturing
//	pause | resume         suspend / continue the active capture
//	stop [name...]         finish the capture and queue it for upload
//	cancel                 finish the capture and throw it away
//	(q)ueue                list recordings not yet fully uploaded
//	retry <id>             re-attempt a failed upload
//	drop <id>              remove a recording from the queue
//	rename <id> <name...>  rename a recording before it uploads
//	login | logout         store / clear the backend API token
//	exit | quit            leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rec %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: record, pause, resume, stop [name], cancel, (q)ueue, retry <id>, drop <id>, rename <id> <name>, login, logout, exit")
			if !a.isLoggedIn() {
				printlnFn("Not logged in: uploads are sent without an API token")
			}

		case "record":
			_ = a.Record(ctx)

		case "pause":
			_ = a.Pause(ctx)

		case "resume":
			_ = a.Resume(ctx)

		case "stop":
			_ = a.Stop(ctx, strings.Join(args, " "))

		case "cancel":
			_ = a.Discard(ctx)

		case "q", "queue":
			_ = a.List(ctx)

		case "retry":
			if len(args) == 0 {
				printlnFn("Usage: retry <id>")
				continue
			}
			_ = a.Retry(ctx, args[0])

		case "drop":
			if len(args) == 0 {
				printlnFn("Usage: drop <id>")
				continue
			}
			_ = a.Drop(ctx, args[0])

		case "rename":
			if len(args) < 2 {
				printlnFn("Usage: rename <id> <name>")
				continue
			}
			_ = a.Rename(ctx, args[0], strings.Join(args[1:], " "))

		case "login":
			_ = a.Login(ctx)

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
