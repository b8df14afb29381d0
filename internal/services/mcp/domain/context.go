package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/nightbus/nightbus/internal/platform/id"
	grpcmeta "github.com/nightbus/nightbus/internal/services/game/api/grpc/metadata"
	"google.golang.org/grpc/metadata"
)

// Identity is how the bridge presents itself to the game service.
type Identity struct {
	// PlayToken is sent as a bearer token when set.
	PlayToken string
	// UserID is sent as the development identity header otherwise.
	UserID string
	// Locale selects the language of error messages.
	Locale string
}

// Validate reports whether the identity can authenticate a call.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.PlayToken) == "" && strings.TrimSpace(i.UserID) == "" {
		return fmt.Errorf("a play token or user id is required")
	}
	return nil
}

// NewInvocationID generates a correlation id for one tool call.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// NewOutgoingContext attaches identity and invocation metadata to ctx.
func NewOutgoingContext(ctx context.Context, identity Identity, invocationID string) context.Context {
	pairs := []string{grpcmeta.InvocationIDHeader, invocationID}
	if token := strings.TrimSpace(identity.PlayToken); token != "" {
		pairs = append(pairs, grpcmeta.AuthorizationHeader, "Bearer "+token)
	} else if userID := strings.TrimSpace(identity.UserID); userID != "" {
		pairs = append(pairs, grpcmeta.UserIDHeader, userID)
	}
	if locale := strings.TrimSpace(identity.Locale); locale != "" {
		pairs = append(pairs, grpcmeta.LocaleHeader, locale)
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}
