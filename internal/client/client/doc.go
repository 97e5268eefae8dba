// Package client talks to the cyberspace HTTP API for the CLI.
//
// # Overview
//
//  1. Client is the transport contract: account calls (Register, Login,
//     ForgotPassword, ResetPassword), Profile, the sign-up forms and Ping.
//  2. HTTPClient implements it over net/http. Multipart bodies are built with
//     netx; JSON bodies with encoding/json.
//  3. InitDatabase and RunMigrations bootstrap the local SQLite file with
//     embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable, 401 replies wrap ErrUnauthorized and
// every other non-2xx reply is an *APIError with the server's detail text.
package client
