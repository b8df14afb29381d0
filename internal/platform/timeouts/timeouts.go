// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing a gRPC peer.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single outbound gRPC request.
const GRPCRequest = 5 * time.Second

// AnalyticsWrite caps one best-effort analytics write.
const AnalyticsWrite = 2 * time.Second

// Maintenance caps a maintenance command run.
const Maintenance = time.Minute
