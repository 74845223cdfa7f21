// Package config provides configuration management for yaproxy.
//
// This package handles loading, validating, and managing configuration from
// YAML files, an optional .env file, and environment variable overrides. Every
// field has a default, so the gateway can run with nothing but an OAuth token
// in the environment.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with .env and environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// A missing file is treated as an empty one.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention YAPROXY_SECTION_FIELD.
// For example:
//
//   - YAPROXY_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - YAPROXY_HISTORY_ENABLED overrides history.enabled
//   - YAPROXY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// The OAuth token is read from YANDEX_MUSIC_TOKEN (or YAPROXY_UPSTREAM_TOKEN),
// and PORT sets the listen address to 0.0.0.0:$PORT when no explicit address
// is given.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton and Hot Reload
//
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// Watcher observes the file with fsnotify and calls ReloadConfig after a
// debounce interval. Hooks registered with OnReload receive each new
// configuration; a configuration that fails validation is never installed.
package config
