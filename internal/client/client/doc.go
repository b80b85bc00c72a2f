// Package client contains the client side of the GophAuth API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     Register, Login and Verify.
//  2. A concrete gRPC implementation (see GRPCClient) that manages the
//     connection, remembers the session token of the last successful
//     register or login, attaches it as a bearer token and tags every call
//     with an x-request-id.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrAlreadyExists, ErrInvalidInput.
// The server's message is kept in the wrapped error text.
package client
