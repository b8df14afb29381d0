// Package server wires the game runtime: the SQLite store, the play engine,
// the analytics recorder and the gRPC services with their interceptors.
package server
