// Package cli provides the interactive GophAuth command-line client.
//
// The REPL is started via App.Run(ctx) and supports register, login, verify,
// whoami and logout. Passwords are read from the terminal without echo.
package cli
