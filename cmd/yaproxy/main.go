// yaproxy is an HTTP gateway in front of the Yandex Music API.
//
// It relays account, track, liked tracks, supplement and lyrics JSON with the
// server-side OAuth token, and resolves signed MP3 download links.
//
// Usage:
//
//	# Start the gateway (token from YANDEX_MUSIC_TOKEN or .env)
//	yaproxy run
//
//	# Start with a configuration file
//	yaproxy run --config /etc/yaproxy/config.yaml
//
//	# Resolve download links without starting the server
//	yaproxy resolve 38634572 12345
//
//	# Check configuration
//	yaproxy validate
//
//	# Show recent resolutions
//	yaproxy history --limit 20
package main

import (
	"fmt"
	"os"

	"yaproxy-hq/yaproxy/pkg/cli"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
