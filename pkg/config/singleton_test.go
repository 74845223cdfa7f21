package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitialize(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
upstream:
  token: "test-token"
`)

	if err := Initialize(path); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("expected listen address %q, got %q", "127.0.0.1:8080", cfg.Server.ListenAddress)
	}
}

func TestInitialize_MultipleCallsIgnored(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	first := writeConfig(t, "upstream:\n  token: \"one\"\n")
	second := writeConfig(t, "upstream:\n  token: \"two\"\n")
	t.Setenv(TokenEnvVar, "")

	if err := Initialize(first); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if err := Initialize(second); err != nil {
		t.Fatalf("second Initialize returned error: %v", err)
	}

	if got := GetConfig().Upstream.Token; got != "one" {
		t.Errorf("token = %q, second Initialize should be ignored", got)
	}
}

func TestReloadConfig(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)
	t.Setenv(TokenEnvVar, "")

	path := writeConfig(t, "upstream:\n  token: \"one\"\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var hooked *Config
	OnReload(func(cfg *Config) { hooked = cfg })

	if err := os.WriteFile(path, []byte("upstream:\n  token: \"two\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig failed: %v", err)
	}

	if got := GetConfig().Upstream.Token; got != "two" {
		t.Errorf("token = %q, want two", got)
	}
	if hooked == nil || hooked.Upstream.Token != "two" {
		t.Error("reload hook was not called with the new configuration")
	}
}

func TestReloadConfig_InvalidKeepsPrevious(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)
	t.Setenv(TokenEnvVar, "")

	path := writeConfig(t, "upstream:\n  token: \"one\"\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	bad := filepath.Join(filepath.Dir(path), "bad.yaml")
	if err := os.WriteFile(bad, []byte("telemetry:\n  logging:\n    level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(bad); err == nil {
		t.Fatal("expected reload of invalid config to fail")
	}

	if got := GetConfig().Upstream.Token; got != "one" {
		t.Errorf("token = %q, previous configuration should remain", got)
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	defer func() {
		if recover() == nil {
			t.Error("expected MustGetConfig to panic before Initialize")
		}
	}()
	_ = MustGetConfig()
}

func TestSetConfig(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	cfg := MinimalConfig()
	SetConfig(cfg)

	if GetConfig() != cfg {
		t.Error("GetConfig should return the instance passed to SetConfig")
	}
}
