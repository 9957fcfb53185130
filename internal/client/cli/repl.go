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
	explain(err error) string

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context, args []string) error

	Services(ctx context.Context) error
	FAQ(ctx context.Context) error
	Testimonials(ctx context.Context) error

	Book(ctx context.Context, args []string) error
	Accommodation(ctx context.Context) error
	Contact(ctx context.Context) error
	Chat(ctx context.Context) error

	SetLanguage(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	SetOnline(ctx context.Context, online bool) error
	Forget(ctx context.Context) error
}

const (
	helpGuest = "Available commands: signup, login, forgot, reset, services, faq, testimonials, book, accommodation, contact, chat, lang, status, online, offline, forget, exit"
	helpUser  = "Available commands: whoami, profile, logout, forgot, reset, services, faq, testimonials, book, accommodation, contact, chat, lang, status, online, offline, forget, exit"
)

// runREPL reads commands from reader and dispatches them to a until EOF,
// "exit"/"quit" or cancellation of ctx.
//
// The prompt shows the current status (from statusFn). Errors returned by
// command handlers are rendered through a.explain and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("relief %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "forgot":
			cmdErr = a.Forgot(ctx)
		case "reset":
			cmdErr = a.Reset(ctx, args)

		case "services", "s":
			cmdErr = a.Services(ctx)
		case "faq":
			cmdErr = a.FAQ(ctx)
		case "testimonials":
			cmdErr = a.Testimonials(ctx)

		case "book":
			cmdErr = a.Book(ctx, args)
		case "accommodation":
			cmdErr = a.Accommodation(ctx)
		case "contact":
			cmdErr = a.Contact(ctx)
		case "chat":
			cmdErr = a.Chat(ctx)

		case "lang":
			cmdErr = a.SetLanguage(ctx, args)
		case "status":
			cmdErr = a.Status(ctx)
		case "online":
			cmdErr = a.SetOnline(ctx, true)
		case "offline":
			cmdErr = a.SetOnline(ctx, false)
		case "forget":
			cmdErr = a.Forget(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(a.explain(cmdErr))
		}
	}
}
