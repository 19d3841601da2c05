// Package client is the typed REST client of the dealership API used by the
// terminal tools.
//
// Every call carries the bearer token of the current session, runs under the
// configured request timeout and is attempted exactly once. Failures are
// reported through sentinel errors callers match with errors.Is:
// ErrUnauthorized, ErrUnavailable and ErrTimeout. Other non-2xx answers come
// back as *APIError, which unwraps to the matching common sentinel.
//
// A 401 on an authenticated call clears the session, so the next command
// starts signed out.
package client
