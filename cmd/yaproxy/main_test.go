package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yaproxy-hq/yaproxy/pkg/cli"
)

const wantLink = "https://example.net/get-mp3/62e5a55231da29565f06442b9ff6b1e1/111/1/2/abc123"

func fakeYandex(t *testing.T) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tracks/111/download-info", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":[{"codec":"mp3","preview":false,"downloadInfoUrl":"`+ts.URL+`/sign"}]}`)
	})
	mux.HandleFunc("GET /tracks/222/download-info", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":[]}`)
	})
	mux.HandleFunc("GET /sign", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"abc","ts":"111","path":"/1/2/abc123","host":"example.net"}`)
	})

	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile = "config.yaml"
	verbose = false
	runFlags.listenAddress, runFlags.logLevel = "", ""
	runFlags.dryRun, runFlags.watch = false, true
	resolveFlags.output = "text"
	historyFlags.limit, historyFlags.output = 50, "text"
	historyPruneFlags.days = 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "yaproxy "+Version) {
		t.Errorf("output = %q, want version line", out)
	}
}

func TestValidateCommand(t *testing.T) {
	t.Setenv("YANDEX_MUSIC_TOKEN", "secret-token-value")
	path := writeConfig(t, "server:\n  listen_address: 127.0.0.1:4000\n")

	out, err := execute(t, "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "127.0.0.1:4000") {
		t.Errorf("output missing listen address: %q", out)
	}
	if strings.Contains(out, "secret-token-value") {
		t.Errorf("output leaks token: %q", out)
	}
	if !strings.Contains(out, "secr***") {
		t.Errorf("output missing redacted token: %q", out)
	}
}

func TestValidateCommand_MissingToken(t *testing.T) {
	t.Setenv("YANDEX_MUSIC_TOKEN", "")
	t.Setenv("YAPROXY_UPSTREAM_TOKEN", "")
	path := writeConfig(t, "server:\n  listen_address: 127.0.0.1:4000\n")

	_, err := execute(t, "validate", "--config", path)
	if err == nil {
		t.Fatal("validate succeeded without a token")
	}
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d", code, cli.ExitConfig)
	}
}

func TestRunCommand_DryRun(t *testing.T) {
	t.Setenv("YANDEX_MUSIC_TOKEN", "test-token")
	path := writeConfig(t, "")

	out, err := execute(t, "run", "--config", path, "--dry-run", "--listen", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("run --dry-run error = %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("output = %q", out)
	}

	if _, err := execute(t, "run", "--config", path, "--dry-run", "--log-level", "loud"); err == nil {
		t.Error("run --dry-run accepted an invalid log level")
	}
}

func TestResolveCommand(t *testing.T) {
	t.Setenv("YANDEX_MUSIC_TOKEN", "test-token")
	upstream := fakeYandex(t)
	path := writeConfig(t, "upstream:\n  base_url: "+upstream.URL+"\n")

	out, err := execute(t, "resolve", "--config", path, "--output", "json", "111")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	var got []resolution
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(got) != 1 || got[0].DownloadLink != wantLink {
		t.Errorf("resolve output = %+v", got)
	}
}

func TestResolveCommand_PartialFailure(t *testing.T) {
	t.Setenv("YANDEX_MUSIC_TOKEN", "test-token")
	upstream := fakeYandex(t)
	path := writeConfig(t, "upstream:\n  base_url: "+upstream.URL+"\n")

	out, err := execute(t, "resolve", "--config", path, "--output", "csv", "111", "222")
	if err == nil {
		t.Fatal("resolve succeeded with a failing track")
	}
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("error type = %T, want *cli.CommandError", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d, want 3: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], wantLink) {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Track download information not found") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestHistoryCommands(t *testing.T) {
	t.Setenv("YANDEX_MUSIC_TOKEN", "test-token")
	upstream := fakeYandex(t)
	db := filepath.Join(t.TempDir(), "history.db")
	path := writeConfig(t, "upstream:\n  base_url: "+upstream.URL+"\n"+
		"history:\n  enabled: true\n  backend: sqlite\n  sqlite:\n    path: "+db+"\n  retention:\n    schedule: \"off\"\n")

	execute(t, "resolve", "--config", path, "111", "222")

	out, err := execute(t, "history", "--config", path, "--output", "json")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}

	var records []struct {
		TrackID string `json:"track_id"`
		Outcome string `json:"outcome"`
	}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	outcomes := map[string]string{}
	for _, r := range records {
		outcomes[r.TrackID] = r.Outcome
	}
	if outcomes["111"] != "success" || outcomes["222"] != "not_found" {
		t.Errorf("outcomes = %v", outcomes)
	}

	out, err = execute(t, "history", "prune", "--config", path)
	if err != nil {
		t.Fatalf("history prune error = %v", err)
	}
	if !strings.Contains(out, "Deleted 0 records") {
		t.Errorf("prune output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(out, "yaproxy") {
		t.Errorf("bash completion does not mention yaproxy")
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion accepted an unsupported shell")
	}
}
