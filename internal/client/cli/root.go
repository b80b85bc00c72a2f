package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.Username)
}

// Root runs the REPL until EOF or exit.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to GophAuth CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "gauth %s> ", a.getStatus())

		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Available commands: verify [token], whoami, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: register, login, verify <token>, exit")
			}
		case "register":
			a.report(a.Register(ctx))
		case "login":
			a.report(a.Login(ctx))
		case "verify":
			token := ""
			if len(args) > 0 {
				token = args[0]
			}
			a.report(a.Verify(ctx, token))
		case "whoami":
			a.WhoAmI()
		case "logout":
			a.session = nil
			fmt.Fprintln(a.out, "Logged out")
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
		}
	}
}

func (a *App) report(err error) {
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
