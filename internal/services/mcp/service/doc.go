// Package service runs the MCP server that exposes the game tools over stdio.
package service
