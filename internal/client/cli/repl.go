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

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Profile(ctx context.Context) error
	Seminar(ctx context.Context) error
	Webinar(ctx context.Context) error
	Internship(ctx context.Context) error
	Paper(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it until EOF, "exit" or
// "quit". Handler errors are printed and the loop continues.
//
//	Not logged in: help, register, login, forgot, reset, exit
//	Logged in:     help, profile, seminar, webinar, internship, paper, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cs (%s) > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, seminar, webinar, internship, paper, logout, exit")
			} else {
				printlnFn("Available commands: register, login, forgot, reset, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case "reset":
			cmdErr = a.ResetPassword(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "seminar":
			cmdErr = a.Seminar(ctx)

		case "webinar":
			cmdErr = a.Webinar(ctx)

		case "internship":
			cmdErr = a.Internship(ctx)

		case "paper":
			cmdErr = a.Paper(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
