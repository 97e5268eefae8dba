// Package cli provides the interactive cyberspace command-line client.
//
// It wires configuration, the local session store and the API services into
// a REPL. A background watcher pings the server and shows online or offline
// in the prompt.
//
// Commands:
//   - register, login, logout
//   - forgot, reset: request a reset code by email and redeem it
//   - profile: account details and registration counts
//   - seminar, webinar, internship, paper: sign-up forms
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
