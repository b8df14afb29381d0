// Package interceptors holds cross-cutting gRPC server interceptors for the
// game service.
package interceptors

import (
	"context"
	"log"
	"time"

	grpcmeta "github.com/nightbus/nightbus/internal/services/game/api/grpc/metadata"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Logf is the logging sink used by LoggingInterceptor.
type Logf func(format string, args ...any)

// LoggingInterceptor logs one line per unary call with its method, status
// code, duration, request id and trace id.
func LoggingInterceptor(logf Logf, clock func() time.Time) grpc.UnaryServerInterceptor {
	if logf == nil {
		logf = log.Printf
	}
	if clock == nil {
		clock = time.Now
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := clock()
		resp, err := handler(ctx, req)
		elapsed := clock().Sub(started)

		traceID := ""
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
		}
		logf("grpc %s code=%s duration=%s request_id=%s trace_id=%s",
			info.FullMethod,
			status.Code(err),
			elapsed,
			grpcmeta.RequestIDFromContext(ctx),
			traceID,
		)
		return resp, err
	}
}
