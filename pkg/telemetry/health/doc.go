// Package health implements the liveness and readiness probes.
//
// Liveness (/health by default) only reports that the process is serving.
// Readiness (/ready) runs the registered component checks concurrently, each
// bounded by the configured timeout:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout, version)
//	checker.RegisterCheck("upstream", client.Ready)
//	checker.RegisterCheck("history", store.Ping)
//
// A failing check turns the overall status to "degraded" and the probe
// answers 503.
package health
