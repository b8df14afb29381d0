package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"testing"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"server"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfgRef.Address)
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestLogPrefix(t *testing.T) {
	if got := LogPrefix(ServiceMaintenance); got != "[MAINTENANCE] " {
		t.Fatalf("prefix = %q", got)
	}
	if got := LogPrefix(" mcp "); got != "[MCP] " {
		t.Fatalf("prefix = %q", got)
	}
}

func TestExecutePassesArgs(t *testing.T) {
	var got []string
	err := Execute(context.Background(), func(_ context.Context, args []string) error {
		got = args
		return nil
	}, []string{"-db-path", "game.db"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(got) != 2 || got[1] != "game.db" {
		t.Fatalf("args = %v", got)
	}
}

func TestExecuteTreatsCancelAsShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Execute(ctx, func(ctx context.Context, _ []string) error {
		return fmt.Errorf("serve: %w", ctx.Err())
	}, nil)
	if err != nil {
		t.Fatalf("execute after cancel = %v, want nil", err)
	}
}

func TestExecuteReturnsRunError(t *testing.T) {
	want := errors.New("boom")
	if err := Execute(context.Background(), func(context.Context, []string) error { return want }, nil); !errors.Is(err, want) {
		t.Fatalf("execute error = %v", err)
	}
	if err := Execute(context.Background(), nil, nil); err == nil {
		t.Fatal("expected missing run function error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Execute(ctx, func(context.Context, []string) error { return want }, nil); !errors.Is(err, want) {
		t.Fatalf("unrelated error after cancel = %v", err)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceGame, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("NIGHTBUS_OTEL_ENDPOINT", "")
	want := errors.New("boom")
	err := RunWithTelemetry(context.Background(), ServiceGame, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("run error = %v, want %v", err, want)
	}
}
