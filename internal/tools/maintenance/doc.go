// Package maintenance runs operational chores against the game service.
//
// The command removes sessions that have been idle longer than a retention
// window. By default it calls AdminService over gRPC so the running server's
// character locks apply; -direct opens the SQLite database instead, for use
// while the server is stopped.
package maintenance
