package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errLoginRequired is reported by the REPL itself; handlers never see the call.
var errLoginRequired = errors.New("please log in first")

// usageError carries the correct invocation of a command.
type usageError string

func (u usageError) Error() string { return "Usage: " + string(u) }

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Status(ctx context.Context) error

	Courses(ctx context.Context) error
	MyCourses(ctx context.Context) error
	Outline(ctx context.Context, args []string) error
	Buy(ctx context.Context, args []string) error
	Quiz(ctx context.Context, args []string) error

	Chat(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error

	Jobs(ctx context.Context) error
	Competitions(ctx context.Context) error

	Rewards(ctx context.Context) error
	Redeem(ctx context.Context, args []string) error
	Referrals(ctx context.Context) error

	FAQ(ctx context.Context) error
	Ask(ctx context.Context, args []string) error
	Centers(ctx context.Context) error
	Match(ctx context.Context) error
	Path(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: register, login, status, exit"
	helpMember = "Available commands: whoami, profile, courses, mycourses, outline <pack>, buy <pack>, quiz <chapter>, " +
		"chat <user>, send <user> <text>, jobs, competitions, rewards, redeem <id>, referrals, faq, ask <question>, " +
		"centers, match, path [start], status, logout, exit"
)

// runREPL starts a read–eval–print loop for the Elite CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands other than help, register, login,
// status and exit require a session. Handler errors are printed and the loop
// continues. The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("elite %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			report(err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpMember)
		} else {
			printlnFn(helpGuest)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "status":
		return a.Status(ctx)
	}

	protected := map[string]func() error{
		"logout":       func() error { return a.Logout(ctx) },
		"whoami":       func() error { return a.WhoAmI(ctx) },
		"profile":      func() error { return a.Profile(ctx) },
		"courses":      func() error { return a.Courses(ctx) },
		"mycourses":    func() error { return a.MyCourses(ctx) },
		"outline":      func() error { return a.Outline(ctx, args) },
		"buy":          func() error { return a.Buy(ctx, args) },
		"quiz":         func() error { return a.Quiz(ctx, args) },
		"chat":         func() error { return a.Chat(ctx, args) },
		"send":         func() error { return a.Send(ctx, args) },
		"jobs":         func() error { return a.Jobs(ctx) },
		"competitions": func() error { return a.Competitions(ctx) },
		"rewards":      func() error { return a.Rewards(ctx) },
		"redeem":       func() error { return a.Redeem(ctx, args) },
		"referrals":    func() error { return a.Referrals(ctx) },
		"faq":          func() error { return a.FAQ(ctx) },
		"ask":          func() error { return a.Ask(ctx, args) },
		"centers":      func() error { return a.Centers(ctx) },
		"match":        func() error { return a.Match(ctx) },
		"path":         func() error { return a.Path(ctx, args) },
	}

	fn, ok := protected[cmd]
	if !ok {
		printlnFn("Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		return errLoginRequired
	}
	return fn()
}

func report(err error) {
	var usage usageError
	if errors.As(err, &usage) {
		printlnFn(usage.Error())
		return
	}
	printlnFn("Error:", err.Error())
}
