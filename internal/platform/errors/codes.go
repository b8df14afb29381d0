// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"

	// Session errors
	CodeActiveGameExists Code = "ACTIVE_GAME_EXISTS"

	// Choice errors
	CodeOptionNotOnPage Code = "OPTION_NOT_ON_PAGE"

	// Character errors
	CodeCharacterNotOwned Code = "CHARACTER_NOT_OWNED"
	CodeCharacterDead     Code = "CHARACTER_DEAD"

	// Request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeAdminRequired   Code = "ADMIN_REQUIRED"

	// Content errors
	CodeStoryDocumentInvalid Code = "STORY_DOCUMENT_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeOptionNotOnPage,
		CodeInvalidArgument,
		CodeStoryDocumentInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeCharacterDead:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - one active game per character
	case CodeActiveGameExists:
		return codes.AlreadyExists

	case CodeCharacterNotOwned,
		CodeAdminRequired:
		return codes.PermissionDenied

	case CodeUnauthenticated:
		return codes.Unauthenticated

	default:
		return codes.Internal
	}
}
