// Package domain defines the MCP tools that drive the game over gRPC: their
// input and output schemas and the handlers that call GameService.
package domain
