// Package api contains the game service API implementations.
//
// Subpackages:
//   - grpc/game: GameService and AdminService over Struct payloads
//   - grpc/auth: play-token verification and identity interceptor
//   - grpc/metadata: request metadata helpers and interceptors
//   - grpc/interceptors: cross-cutting gRPC middleware
//
// MCP tools call these gRPC services through internal/services/mcp/service.
package api
