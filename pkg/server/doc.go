// Package server assembles and runs the yaproxy HTTP gateway.
//
// NewApp builds the Yandex Music client, the download link resolver and,
// when enabled, the history storage, recorder and retention scheduler, then
// registers the readiness checks:
//
//   - upstream: fails after repeated upstream errors, or probes
//     /account/status when telemetry.health.probe_upstream is set
//   - history: pings the history storage
//
// # Routes
//
// Every route accepts GET and HEAD only:
//
//	/                                          account status
//	/yandex-music/account/status               account status
//	/yandex-music/track/{trackId}              track metadata
//	/yandex-music/track/{trackId}/download     signed download link
//	/yandex-music/users/{userId}/likes/tracks  liked tracks
//	/yandex-music/tracks/{trackId}/supplement  supplement
//	/yandex-music/tracks/{trackId}/lyrics      lyrics
//	/health, /ready                            probes
//	/history                                   recent resolutions
//	/metrics                                   Prometheus exposition
//
// # Middleware
//
// From the outside in: route lookup, panic recovery, access logging,
// request ID, tracing, metrics, CORS and the per-request timeout.
//
// # Lifecycle
//
//	app, err := server.NewApp(cfg, tel)
//	if err != nil {
//	    return err
//	}
//	defer app.Close(context.Background())
//	return app.Run(ctx) // returns after ctx is cancelled and requests drain
package server
