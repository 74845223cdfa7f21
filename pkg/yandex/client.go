package yandex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
	"yaproxy-hq/yaproxy/pkg/telemetry/tracing"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 10 << 20

// maxErrorBodyBytes caps how much of an error body is kept in an error.
const maxErrorBodyBytes = 512

// Options holds the optional collaborators of a Client.
type Options struct {
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *slog.Logger

	// HTTPClient replaces the pooled client built from the configuration
	HTTPClient *http.Client
}

// Client is an authenticated Yandex Music API client. It never retries;
// every method makes exactly one HTTP request.
type Client struct {
	baseURL  string
	token    string
	language string

	httpClient *http.Client
	metrics    *metrics.Collector
	tracer     *tracing.Tracer
	logger     *slog.Logger

	health   Health
	healthMu sync.RWMutex
}

// New creates a client for the configured upstream.
func New(cfg *config.UpstreamConfig, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConns,
			IdleConnTimeout:     cfg.IdleConnTimeout,
			ForceAttemptHTTP2:   true,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		language:   cfg.Language,
		httpClient: httpClient,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		logger:     logger.With("component", "yandex.client"),
		health: Health{
			IsHealthy:             true,
			LastCheck:             time.Now(),
			LastSuccessfulRequest: time.Now(),
		},
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// apiURL joins the base URL with path segments, escaping each one.
func (c *Client) apiURL(segments ...string) string {
	var sb strings.Builder
	sb.WriteString(c.baseURL)
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}

// get performs one authenticated GET and returns the body of a 2xx
// response. Accept-Language is only sent when withLanguage is set; the
// storage host answering downloadInfoUrl does not receive it.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, withLanguage bool) ([]byte, error) {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "yandex."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrEndpoint, endpoint))

	body, err := c.doGet(ctx, endpoint, rawURL, withLanguage, span)

	errType := ErrorType(err)
	c.metrics.RecordUpstreamCall(endpoint, errType, time.Since(start))
	c.updateHealth(countsAsAvailable(err), err)
	tracing.SetErrorAttributes(span, err, errType)

	if err != nil {
		c.logger.DebugContext(ctx, "upstream call failed",
			"endpoint", endpoint,
			"error_type", errType,
			"error", err,
		)
	}
	return body, err
}

func (c *Client) doGet(ctx context.Context, endpoint, rawURL string, withLanguage bool, span trace.Span) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	span.SetAttributes(attribute.String(tracing.AttrURLHost, req.URL.Host))

	req.Header.Set("Authorization", "OAuth "+c.token)
	if withLanguage && c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int(tracing.AttrHTTPStatus, resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	message := truncate(string(body), maxErrorBodyBytes)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &AuthError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: message}
	case http.StatusNotFound:
		return nil, &NotFoundError{Endpoint: endpoint, Message: message}
	case http.StatusTooManyRequests:
		return nil, &RateLimitError{
			Endpoint:   endpoint,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    message,
		}
	default:
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: message}
	}
}

// getJSON performs get and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, withLanguage bool, out any) error {
	body, err := c.get(ctx, endpoint, rawURL, withLanguage)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{
			Endpoint:    endpoint,
			RawResponse: truncate(string(body), maxErrorBodyBytes),
			Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}
	return nil
}

// getRaw performs get and checks that the body is JSON, returning it
// unchanged.
func (c *Client) getRaw(ctx context.Context, endpoint, rawURL string) (json.RawMessage, error) {
	body, err := c.get(ctx, endpoint, rawURL, true)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &ParseError{
			Endpoint:    endpoint,
			RawResponse: truncate(string(body), maxErrorBodyBytes),
			Cause:       errors.New("response is not valid JSON"),
		}
	}
	return json.RawMessage(body), nil
}

// countsAsAvailable reports whether err still proves the upstream is up.
func countsAsAvailable(err error) bool {
	if err == nil {
		return true
	}
	var notFound *NotFoundError
	var rateLimit *RateLimitError
	var parseErr *ParseError
	return errors.As(err, &notFound) || errors.As(err, &rateLimit) || errors.As(err, &parseErr) ||
		errors.Is(err, context.Canceled)
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
