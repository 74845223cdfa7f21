package config

import "sync"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg *Config
}

// NewTestConfig creates a new ConfigBuilder whose configuration is valid
// and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	cfg := Default()
	cfg.Upstream.Token = "test-token"
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithListenAddress sets the server listen address.
func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Server.ListenAddress = addr
	return b
}

// WithToken sets the upstream OAuth token.
func (b *ConfigBuilder) WithToken(token string) *ConfigBuilder {
	b.cfg.Upstream.Token = token
	return b
}

// WithHistory enables history with the given backend.
func (b *ConfigBuilder) WithHistory(backend string) *ConfigBuilder {
	b.cfg.History.Enabled = true
	b.cfg.History.Backend = backend
	return b
}

// WithTracing enables tracing against endpoint.
func (b *ConfigBuilder) WithTracing(endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = true
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}

// resetSingleton clears the package-level configuration state.
func resetSingleton() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = nil
	reloadHooks = nil
	initOnce = sync.Once{}
}
