package metadata

import (
	"context"
	"strings"

	"github.com/nightbus/nightbus/internal/platform/id"
	"github.com/nightbus/nightbus/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader is the gRPC metadata key for request correlation IDs.
const RequestIDHeader = "x-nightbus-request-id"

// InvocationIDHeader is the gRPC metadata key for MCP tool invocation IDs.
const InvocationIDHeader = "x-nightbus-invocation-id"

// UserIDHeader is the gRPC metadata key for the development user id hint.
const UserIDHeader = "x-nightbus-user-id"

// RoleHeader is the gRPC metadata key for the development role hint.
const RoleHeader = "x-nightbus-role"

// LocaleHeader is the gRPC metadata key for the caller's preferred locale.
const LocaleHeader = "x-nightbus-locale"

// AuthorizationHeader carries "Bearer <play token>".
const AuthorizationHeader = "authorization"

type contextKey string

const invocationIDContextKey contextKey = "nightbus-invocation-id"

// RequestIDFromContext returns the request ID stored in context.
func RequestIDFromContext(ctx context.Context) string {
	return requestctx.RequestIDFromContext(ctx)
}

// InvocationIDFromContext returns the invocation ID stored in context.
func InvocationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(invocationIDContextKey).(string)
	return value
}

// WithInvocationID stores the invocation ID in context.
func WithInvocationID(ctx context.Context, invocationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, invocationIDContextKey, invocationID)
}

// UserIDFromIncoming returns the user id hint from incoming metadata.
func UserIDFromIncoming(ctx context.Context) string {
	return valueFromIncoming(ctx, UserIDHeader)
}

// RoleFromIncoming returns the role hint from incoming metadata.
func RoleFromIncoming(ctx context.Context) string {
	return valueFromIncoming(ctx, RoleHeader)
}

// LocaleFromIncoming returns the preferred locale from incoming metadata.
func LocaleFromIncoming(ctx context.Context) string {
	return valueFromIncoming(ctx, LocaleHeader)
}

// BearerTokenFromIncoming returns the bearer token from the authorization
// header, or "" when there is none.
func BearerTokenFromIncoming(ctx context.Context) string {
	value := valueFromIncoming(ctx, AuthorizationHeader)
	scheme, token, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable value for key. Keys match
// case-insensitively.
func FirstMetadataValue(md metadata.MD, key string) string {
	if len(md) == 0 {
		return ""
	}
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// UnaryServerInterceptor guarantees every unary call carries a request id,
// generating one when the client sent none, and echoes it in response headers.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		updatedCtx, requestID, invocationID, err := ensureRequestMetadata(ctx, idGenerator)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := grpc.SetHeader(updatedCtx, responseHeaders(requestID, invocationID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(updatedCtx, req)
	}
}

func ensureRequestMetadata(ctx context.Context, idGenerator func() (string, error)) (context.Context, string, string, error) {
	requestID := valueFromIncoming(ctx, RequestIDHeader)
	invocationID := valueFromIncoming(ctx, InvocationIDHeader)
	if requestID == "" {
		generated, err := idGenerator()
		if err != nil {
			return nil, "", "", err
		}
		requestID = generated
	}

	updatedCtx := requestctx.WithRequestID(ctx, requestID)
	if invocationID != "" {
		updatedCtx = WithInvocationID(updatedCtx, invocationID)
	}
	return updatedCtx, requestID, invocationID, nil
}

func valueFromIncoming(ctx context.Context, header string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, header)
}

func responseHeaders(requestID, invocationID string) metadata.MD {
	headers := metadata.Pairs(RequestIDHeader, requestID)
	if invocationID != "" {
		headers.Append(InvocationIDHeader, invocationID)
	}
	return headers
}
