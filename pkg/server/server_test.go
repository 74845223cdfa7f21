package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/proxy/types"
	"yaproxy-hq/yaproxy/pkg/telemetry"
)

const wantLink = "https://example.net/get-mp3/62e5a55231da29565f06442b9ff6b1e1/111/1/2/abc123"

// fakeYandex serves the upstream endpoints the gateway calls.
func fakeYandex(t *testing.T) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("GET /account/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "OAuth test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"result":{"account":{"login":"listener"}}}`)
	})
	mux.HandleFunc("GET /tracks/111/download-info", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":[
			{"codec":"aac","preview":false,"downloadInfoUrl":"`+ts.URL+`/aac"},
			{"codec":"mp3","preview":false,"downloadInfoUrl":"`+ts.URL+`/sign?x=1"}
		]}`)
	})
	mux.HandleFunc("GET /tracks/222/download-info", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":[]}`)
	})
	mux.HandleFunc("GET /sign", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{"s":"abc","ts":"111","path":"/1/2/abc123","host":"example.net"}`)
	})
	mux.HandleFunc("GET /tracks/111/lyrics", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestApp(t *testing.T, historyEnabled bool) *App {
	t.Helper()
	upstream := fakeYandex(t)

	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Upstream.BaseURL = upstream.URL
	cfg.Upstream.Token = "test-token"
	cfg.History.Enabled = historyEnabled
	cfg.History.Backend = "memory"
	cfg.History.Retention.Schedule = config.RetentionScheduleOff

	tel, err := telemetry.New(&cfg.Telemetry, telemetry.Options{
		Version:   "test",
		Secrets:   []string{cfg.Upstream.Token},
		LogWriter: io.Discard,
	})
	if err != nil {
		t.Fatalf("telemetry.New() error = %v", err)
	}

	app, err := NewApp(cfg, tel)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })
	return app
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestGateway_Routes(t *testing.T) {
	app := newTestApp(t, false)
	h := app.Server.Handler()

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
		wantMsg    string
	}{
		{"root account status", "GET", "/", 200, `{"result":{"account":{"login":"listener"}}}`, ""},
		{"account status", "GET", "/yandex-music/account/status", 200, `{"result":{"account":{"login":"listener"}}}`, ""},
		{"download", "GET", "/yandex-music/track/111/download", 200, `{"downloadLink":"` + wantLink + `"}`, ""},
		{"download not found", "GET", "/yandex-music/track/222/download", 404, "", "Track download information not found"},
		{"lyrics failure", "GET", "/yandex-music/tracks/111/lyrics", 500, "",
			"Error fetching track lyrics from Yandex Music API: Request failed with status code 404"},
		{"method not allowed", "POST", "/yandex-music/track/111/download", 405, "", "Method POST not allowed"},
		{"unknown path", "GET", "/nope", 404, "", "Cannot GET /nope"},
		{"history disabled", "GET", "/history", 404, "", "Cannot GET /history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.method, tt.target)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
			if tt.wantMsg != "" {
				var env types.ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
					t.Fatalf("body is not an error envelope: %s", rec.Body.String())
				}
				if env.Message != tt.wantMsg || env.StatusCode != tt.wantStatus || env.Error != http.StatusText(tt.wantStatus) {
					t.Errorf("envelope = %+v", env)
				}
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("X-Request-ID not set")
			}
		})
	}
}

func TestGateway_HealthAndMetrics(t *testing.T) {
	app := newTestApp(t, true)
	h := app.Server.Handler()

	if rec := serve(h, "GET", "/health"); rec.Code != 200 {
		t.Errorf("/health status = %d", rec.Code)
	}

	rec := serve(h, "GET", "/ready")
	if rec.Code != 200 {
		t.Fatalf("/ready status = %d (%s)", rec.Code, rec.Body.String())
	}
	for _, check := range []string{CheckUpstream, CheckHistory} {
		if !strings.Contains(rec.Body.String(), `"`+check+`"`) {
			t.Errorf("/ready body lacks %s check: %s", check, rec.Body.String())
		}
	}

	serve(h, "GET", "/yandex-music/track/111/download")

	rec = serve(h, "GET", "/metrics")
	if rec.Code != 200 {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`yaproxy_resolutions_total{outcome="success"} 1`,
		`yaproxy_http_requests_total`,
		`route="/yandex-music/track/{trackId}/download"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics lacks %q", want)
		}
	}
	if strings.Contains(body, "test-token") {
		t.Error("token leaked into metrics")
	}
}

func TestGateway_History(t *testing.T) {
	app := newTestApp(t, true)
	h := app.Server.Handler()

	serve(h, "GET", "/yandex-music/track/111/download")
	serve(h, "GET", "/yandex-music/track/222/download")

	// Flush queued records.
	app.Recorder.Close()

	rec := serve(h, "GET", "/history?limit=10")
	if rec.Code != 200 {
		t.Fatalf("/history status = %d (%s)", rec.Code, rec.Body.String())
	}

	var resp types.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Records) != 2 {
		t.Fatalf("history = %+v", resp)
	}

	outcomes := map[string]string{}
	for _, r := range resp.Records {
		outcomes[r.TrackID] = r.Outcome
		if r.RequestID == "" {
			t.Errorf("record %s has no request ID", r.ID)
		}
	}
	if outcomes["111"] != "success" || outcomes["222"] != "not_found" {
		t.Errorf("outcomes = %v", outcomes)
	}
	if strings.Contains(rec.Body.String(), "get-mp3") {
		t.Error("signed link must not be stored in history")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	app := newTestApp(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for app.Server.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + app.Server.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("GET /health status = %d", resp.StatusCode)
	}
	if !app.Server.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	if app.Server.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServer_StartTwice(t *testing.T) {
	app := newTestApp(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.Server.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for !app.Server.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := app.Server.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}
}
