// Package game implements nightbus.game.v1.GameService and
// nightbus.game.v1.AdminService.
//
// Requests and responses are google.protobuf.Struct payloads; field names are
// snake_case. Handlers resolve the caller through the auth package, delegate
// to play.GameFlow, and map domain errors to localized gRPC statuses.
package game
