// Package metadata defines the headers that carry request context across gRPC
// boundaries.
//
//   - RequestIDHeader: correlates logs and analytics events across calls.
//   - InvocationIDHeader: tracks MCP tool invocations.
//   - UserIDHeader/RoleHeader: development identity hints, honored only when no
//     play-token verifier is configured.
//   - LocaleHeader: preferred locale for error messages.
package metadata
