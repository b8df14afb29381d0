package metadata

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestInvocationIDContextHelpers(t *testing.T) {
	if InvocationIDFromContext(nil) != "" {
		t.Fatal("expected empty invocation id for nil context")
	}

	ctx := WithInvocationID(nil, "inv-1")
	if InvocationIDFromContext(ctx) != "inv-1" {
		t.Fatalf("expected invocation id inv-1, got %s", InvocationIDFromContext(ctx))
	}
}

func TestIsPrintableASCII(t *testing.T) {
	if IsPrintableASCII("") {
		t.Fatal("expected empty string to be non-printable")
	}
	if !IsPrintableASCII("hello") {
		t.Fatal("expected printable ascii to be accepted")
	}
	if IsPrintableASCII("line\n") {
		t.Fatal("expected newline to be non-printable")
	}
	if IsPrintableASCII(string([]byte{0x7f})) {
		t.Fatal("expected DEL to be non-printable")
	}
}

func TestFirstMetadataValue(t *testing.T) {
	md := metadata.MD{
		"X-Nightbus-Request-Id": {"\n", "req-1"},
	}
	if value := FirstMetadataValue(md, RequestIDHeader); value != "req-1" {
		t.Fatalf("expected printable request id, got %q", value)
	}
	if FirstMetadataValue(metadata.MD{}, RequestIDHeader) != "" {
		t.Fatal("expected empty value for empty metadata")
	}
}

func TestIncomingAccessors(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		UserIDHeader, "user-1",
		RoleHeader, "admin",
		LocaleHeader, "pt-BR",
		AuthorizationHeader, "Bearer tok.en.sig",
	))

	if UserIDFromIncoming(ctx) != "user-1" {
		t.Fatal("expected user id from metadata")
	}
	if RoleFromIncoming(ctx) != "admin" {
		t.Fatal("expected role from metadata")
	}
	if LocaleFromIncoming(ctx) != "pt-BR" {
		t.Fatal("expected locale from metadata")
	}
	if BearerTokenFromIncoming(ctx) != "tok.en.sig" {
		t.Fatalf("bearer token = %q", BearerTokenFromIncoming(ctx))
	}
	if UserIDFromIncoming(context.Background()) != "" {
		t.Fatal("expected empty user id without metadata")
	}
}

func TestBearerTokenRequiresScheme(t *testing.T) {
	for _, value := range []string{"tok", "Basic abc", "Bearer"} {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(AuthorizationHeader, value))
		if got := BearerTokenFromIncoming(ctx); got != "" {
			t.Fatalf("%q: bearer token = %q, want empty", value, got)
		}
	}
}

func TestEnsureRequestMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		RequestIDHeader, "req-1",
		InvocationIDHeader, "inv-1",
	))

	updated, requestID, invocationID, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request metadata: %v", err)
	}
	if requestID != "req-1" || invocationID != "inv-1" {
		t.Fatalf("expected ids from metadata, got %s/%s", requestID, invocationID)
	}
	if RequestIDFromContext(updated) != "req-1" {
		t.Fatal("expected request id stored in context")
	}
	if InvocationIDFromContext(updated) != "inv-1" {
		t.Fatal("expected invocation id stored in context")
	}
}

func TestEnsureRequestMetadataGeneratesID(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})

	updated, requestID, invocationID, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request metadata: %v", err)
	}
	if requestID != "generated" || invocationID != "" {
		t.Fatalf("expected generated request id, got %s/%s", requestID, invocationID)
	}
	if RequestIDFromContext(updated) != "generated" {
		t.Fatal("expected generated request id stored in context")
	}
}

func TestEnsureRequestMetadataGeneratorFailure(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})

	_, _, _, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "", errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected generator error")
	}
}

func TestResponseHeaders(t *testing.T) {
	md := responseHeaders("req-1", "")
	if FirstMetadataValue(md, RequestIDHeader) != "req-1" {
		t.Fatal("expected request id in response headers")
	}
	if FirstMetadataValue(md, InvocationIDHeader) != "" {
		t.Fatal("expected empty invocation id when missing")
	}

	md = responseHeaders("req-1", "inv-1")
	if FirstMetadataValue(md, InvocationIDHeader) != "inv-1" {
		t.Fatal("expected invocation id in response headers")
	}
}
