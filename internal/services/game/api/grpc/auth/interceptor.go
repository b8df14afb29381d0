package auth

import (
	"context"
	"strings"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/platform/requestctx"
	grpcmeta "github.com/nightbus/nightbus/internal/services/game/api/grpc/metadata"
	"google.golang.org/grpc"
)

// Authenticator attaches the caller's principal to the request context.
type Authenticator struct {
	cfg *Config
}

// NewAuthenticator builds an Authenticator. A nil cfg selects development
// mode.
func NewAuthenticator(cfg *Config) *Authenticator {
	return &Authenticator{cfg: cfg}
}

// DevelopmentMode reports whether identity comes from plain headers.
func (a *Authenticator) DevelopmentMode() bool {
	return a == nil || a.cfg == nil
}

// Authenticate resolves the principal for ctx. A call with no credentials
// yields ok=false; handlers decide whether that is acceptable.
func (a *Authenticator) Authenticate(ctx context.Context) (principal requestctx.Principal, ok bool, err error) {
	if a.DevelopmentMode() {
		userID := strings.TrimSpace(grpcmeta.UserIDFromIncoming(ctx))
		if userID == "" {
			return requestctx.Principal{}, false, nil
		}
		role := strings.TrimSpace(grpcmeta.RoleFromIncoming(ctx))
		return requestctx.Principal{UserID: userID, Admin: role == RoleAdmin}, true, nil
	}

	token := grpcmeta.BearerTokenFromIncoming(ctx)
	if token == "" {
		return requestctx.Principal{}, false, nil
	}
	claims, err := ValidatePlayToken(token, *a.cfg)
	if err != nil {
		return requestctx.Principal{}, false, err
	}
	return requestctx.Principal{UserID: claims.UserID, Admin: claims.Admin()}, true, nil
}

// UnaryServerInterceptor authenticates every unary call. Invalid credentials
// are rejected here; missing credentials are left to the handler.
func (a *Authenticator) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		principal, ok, err := a.Authenticate(ctx)
		if err != nil {
			return nil, apperrors.HandleError(err, grpcmeta.LocaleFromIncoming(ctx))
		}
		if ok {
			ctx = requestctx.WithPrincipal(ctx, principal)
		}
		return handler(ctx, req)
	}
}

// RequireUser returns the authenticated user id.
func RequireUser(ctx context.Context) (string, error) {
	principal, ok := requestctx.PrincipalFromContext(ctx)
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "caller is not authenticated")
	}
	return principal.UserID, nil
}

// RequireAdmin returns the authenticated admin principal.
func RequireAdmin(ctx context.Context) (requestctx.Principal, error) {
	principal, ok := requestctx.PrincipalFromContext(ctx)
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		return requestctx.Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "caller is not authenticated")
	}
	if !principal.Admin {
		return requestctx.Principal{}, apperrors.New(apperrors.CodeAdminRequired, "admin role required")
	}
	return principal, nil
}
