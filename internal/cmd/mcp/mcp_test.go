package mcp

import (
	"context"
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(flag.NewFlagSet("mcp", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GRPCAddr != "localhost:8082" {
		t.Fatalf("expected default addr, got %q", cfg.GRPCAddr)
	}
	if cfg.PlayToken != "" || cfg.UserID != "" {
		t.Fatalf("expected empty identity, got %+v", cfg)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("NIGHTBUS_MCP_PLAY_TOKEN", "token")
	t.Setenv("NIGHTBUS_GAME_GRPC_ADDR", "game:9000")

	cfg, err := ParseConfig(flag.NewFlagSet("mcp", flag.ContinueOnError), []string{"-user-id", "user-1", "-locale", "pt-BR"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	serviceCfg := cfg.serviceConfig()
	if serviceCfg.GRPCAddr != "game:9000" {
		t.Fatalf("addr = %q", serviceCfg.GRPCAddr)
	}
	if serviceCfg.Identity.PlayToken != "token" || serviceCfg.Identity.UserID != "user-1" || serviceCfg.Identity.Locale != "pt-BR" {
		t.Fatalf("identity = %+v", serviceCfg.Identity)
	}
}

func TestRunRequiresIdentity(t *testing.T) {
	if err := Run(context.Background(), Config{GRPCAddr: "127.0.0.1:1"}); err == nil {
		t.Fatal("expected identity error")
	}
}
