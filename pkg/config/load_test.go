package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:8080"
  read_timeout: 10s
upstream:
  token: "file-token"
  timeout: 5s
history:
  enabled: true
  backend: memory
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("listen address = %q, want %q", cfg.Server.ListenAddress, "0.0.0.0:8080")
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Upstream.Token != "file-token" {
		t.Errorf("token = %q, want %q", cfg.Upstream.Token, "file-token")
	}
	if cfg.Upstream.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Upstream.Timeout)
	}
	if !cfg.History.Enabled || cfg.History.Backend != "memory" {
		t.Errorf("history = %+v, want enabled memory backend", cfg.History)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Telemetry.Logging.Level)
	}
	// Unset values fall back to defaults.
	if cfg.Upstream.BaseURL != DefaultUpstreamBaseURL {
		t.Errorf("base URL = %q, want default", cfg.Upstream.BaseURL)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should stay enabled when the key is absent")
	}
}

func TestLoadConfig_ExplicitFalseOverridesDefault(t *testing.T) {
	path := writeConfig(t, `
upstream:
  token: "t"
server:
  cors:
    enabled: false
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.CORS.Enabled {
		t.Error("explicit cors.enabled=false was ignored")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled=false was ignored")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected validation error for missing token")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !verr.HasField("upstream.token") {
		t.Errorf("expected upstream.token error, got %v", verr)
	}
	if len(verr.Errors) != 1 {
		t.Errorf("defaults should only be missing the token, got %d errors: %v", len(verr.Errors), verr)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:3000"
upstream:
  token: "file-token"
`)

	t.Setenv(TokenEnvVar, "env-token")
	t.Setenv("YAPROXY_SERVER_LISTEN_ADDRESS", "0.0.0.0:9000")
	t.Setenv("YAPROXY_UPSTREAM_TIMEOUT", "7s")
	t.Setenv("YAPROXY_HISTORY_ENABLED", "true")
	t.Setenv("YAPROXY_HISTORY_BACKEND", "memory")
	t.Setenv("YAPROXY_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("YAPROXY_SERVER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Upstream.Token != "env-token" {
		t.Errorf("token = %q, want env-token", cfg.Upstream.Token)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("listen address = %q, want 0.0.0.0:9000", cfg.Server.ListenAddress)
	}
	if cfg.Upstream.Timeout != 7*time.Second {
		t.Errorf("timeout = %v, want 7s", cfg.Upstream.Timeout)
	}
	if !cfg.History.Enabled || cfg.History.Backend != "memory" {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
	if got := cfg.Server.CORS.AllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("allowed origins = %v", got)
	}
}

func TestLoadConfigWithEnvOverrides_Port(t *testing.T) {
	t.Setenv(TokenEnvVar, "env-token")
	t.Setenv("YAPROXY_SERVER_LISTEN_ADDRESS", "")
	t.Setenv("PORT", "8081")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:8081" {
		t.Errorf("listen address = %q, want 0.0.0.0:8081", cfg.Server.ListenAddress)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValueIgnored(t *testing.T) {
	t.Setenv(TokenEnvVar, "env-token")
	t.Setenv("YAPROXY_UPSTREAM_TIMEOUT", "soon")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Upstream.Timeout != DefaultUpstreamTimeout {
		t.Errorf("timeout = %v, want default", cfg.Upstream.Timeout)
	}
}
