package gateway

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stakeboard/stakeboard/internal/betting"
	"github.com/stakeboard/stakeboard/internal/core"
	"gopkg.in/yaml.v3"
)

func TestGateway_ModuleInfo(t *testing.T) {
	t.Parallel()
	g := &Gateway{}
	info := g.ModuleInfo()
	if info.ID != "gateway.http" {
		t.Errorf("ID = %q, want %q", info.ID, "gateway.http")
	}
	if info.New == nil || info.New() == nil {
		t.Error("New must return a fresh instance")
	}
}

func TestGateway_ConfigureDefaults(t *testing.T) {
	t.Parallel()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte("{}"), &node); err != nil {
		t.Fatal(err)
	}
	g := &Gateway{}
	if err := g.Configure(&node); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if g.config.Bind != "127.0.0.1:8001" {
		t.Errorf("bind = %q, want 127.0.0.1:8001", g.config.Bind)
	}
	if g.config.ReadTimeout != 10*time.Second {
		t.Errorf("read_timeout = %v, want 10s", g.config.ReadTimeout)
	}
}

func TestGateway_ValidateBadBind(t *testing.T) {
	t.Parallel()
	g := &Gateway{config: Config{Bind: "not-a-valid-bind:::"}}
	if err := g.Validate(); err == nil {
		t.Error("expected error for invalid bind address")
	}
}

func TestGateway_StartWithoutServices(t *testing.T) {
	t.Parallel()
	g := &Gateway{}
	ctx := core.NewAppContext(slog.Default())
	if err := g.Provision(ctx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := g.Start(); err == nil {
		t.Error("expected error when betting services are missing")
	}
}

func TestGateway_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := core.NewAppContext(slog.Default())

	eng := &betting.Engine{}
	if err := eng.Provision(ctx); err != nil {
		t.Fatalf("engine Provision: %v", err)
	}

	g := &Gateway{config: Config{Bind: "127.0.0.1:0"}}
	g.config.defaults()
	if err := g.Provision(ctx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
