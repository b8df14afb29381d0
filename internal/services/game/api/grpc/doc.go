// Package grpc holds the gRPC surface of the game service: the GameService
// and AdminService handlers, play-token authentication, request metadata and
// the logging interceptor.
package grpc
