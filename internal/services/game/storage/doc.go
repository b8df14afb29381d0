// Package storage defines persistence contracts for the game service.
//
// It covers characters, immutable story content, active sessions, and the
// append-only analytics log. Implementations (e.g., SQLite) live in
// subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
//   - ErrActiveGameExists: a second session was created for one character
package storage
