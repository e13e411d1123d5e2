package prober

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/rathix/command-center/internal/settings"
	"github.com/rathix/command-center/internal/status"
)

// TLSOption configures client TLS for an HTTP Prober. Only what an
// outbound probe client needs: a trusted CA bundle and, for tests against
// self-signed endpoints, an insecure-skip-verify escape hatch.
type TLSOption struct {
	CAFile             string
	InsecureSkipVerify bool
}

// CircuitBreakerOption enables an optional breaker around the client's
// Do call, tripping after consecutive failures to stop hammering a
// target that is already known to be down.
type CircuitBreakerOption struct {
	MaxFailures uint32
	Timeout     time.Duration
}

// HTTPConfig is the user-facing configuration for one HTTP probe, prior
// to normalization against global settings.
type HTTPConfig struct {
	Name         string
	Tag          string
	URL          string
	Method       string
	ContentType  string
	Body         string
	Headers      map[string]string
	SuccessCodes []codeRange
	Timeout      time.Duration
	ProxyURL     string
	TLS          *TLSOption
	Breaker      *CircuitBreakerOption
	Channels     []string
	Threshold    status.Threshold
	Strategy     status.Strategy

	StrategyFactor   int
	StrategyMaxTimes int
	CounterLen       int
}

// codeRange is an inclusive [Low, High] HTTP status code range.
type codeRange struct {
	Low, High int
}

// ParseCodeRange parses "200-299" or a single "200" into a codeRange.
func ParseCodeRange(s string) (codeRange, error) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		var low, high int
		if _, err := fmt.Sscanf(s, "%d-%d", &low, &high); err != nil {
			return codeRange{}, fmt.Errorf("prober: invalid status code range %q: %w", s, err)
		}
		return codeRange{Low: low, High: high}, nil
	}
	var code int
	if _, err := fmt.Sscanf(s, "%d", &code); err != nil {
		return codeRange{}, fmt.Errorf("prober: invalid status code %q: %w", s, err)
	}
	return codeRange{Low: code, High: code}, nil
}

func (r codeRange) contains(code int) bool {
	return code >= r.Low && code <= r.High
}

// ParseSuccessCodes parses a set of "low-high"/"code" strings into the
// success-code ranges an HTTPConfig expects. Callers outside this
// package cannot name codeRange directly; this is the entry point for
// building HTTPConfig.SuccessCodes from configuration text.
func ParseSuccessCodes(raws []string) ([]codeRange, error) {
	out := make([]codeRange, 0, len(raws))
	for _, raw := range raws {
		r, err := ParseCodeRange(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

var defaultSuccessCodes = []codeRange{{Low: 0, High: 499}}

// HTTP is the reference Prober implementation: a single outbound HTTP
// request per cycle, judged by a configurable success status-code set.
type HTTP struct {
	*Base

	cfg     HTTPConfig
	client  *http.Client
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

var _ Prober = (*HTTP)(nil)

// NewHTTP builds an HTTP prober from cfg, normalizing against global
// settings and constructing the http.Client (proxy, TLS, timeout) once.
func NewHTTP(cfg HTTPConfig, global settings.ProbeSettings, logger *slog.Logger) (*HTTP, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	if len(cfg.SuccessCodes) == 0 {
		cfg.SuccessCodes = defaultSuccessCodes
	}
	cfg.Timeout = global.NormalizeTimeout(cfg.Timeout)
	cfg.Threshold = global.NormalizeThreshold(cfg.Threshold)
	cfg.StrategyFactor = global.NormalizeStrategyFactor(cfg.StrategyFactor)
	cfg.StrategyMaxTimes = global.NormalizeStrategyMaxTimes(cfg.StrategyMaxTimes)
	if cfg.CounterLen <= 0 {
		cfg.CounterLen = 10
	}

	transport := &http.Transport{}
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("prober %s: invalid proxy url: %w", cfg.Name, err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}
	if cfg.TLS != nil {
		tlsCfg, err := buildTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("prober %s: %w", cfg.Name, err)
		}
		transport.TLSClientConfig = tlsCfg
	}

	h := &HTTP{
		Base: NewBase(cfg.Name, "http", cfg.Tag, cfg.Channels, cfg.Threshold, cfg.CounterLen,
			status.NewStrategyData(cfg.Strategy, cfg.StrategyFactor, cfg.StrategyMaxTimes)),
		cfg:    cfg,
		client: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		logger: logger,
	}

	if cfg.Breaker != nil {
		h.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: 1,
			Timeout:     cfg.Breaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.Breaker.MaxFailures
			},
		})
	}

	return h, nil
}

// buildTLSConfig constructs a client tls.Config from a CA file path and
// the insecure-skip-verify flag: the part of cert handling an outbound
// probe client actually needs, distinct from server certificate issuance.
func buildTLSConfig(opt *TLSOption) (*tls.Config, error) {
	cfg := &tls.Config{InsecureSkipVerify: opt.InsecureSkipVerify} //nolint:gosec
	if opt.CAFile == "" {
		return cfg, nil
	}
	pem, err := os.ReadFile(opt.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from %s", opt.CAFile)
	}
	cfg.RootCAs = pool
	return cfg, nil
}

// Probe performs one HTTP request, judges the response against the
// configured success status-code ranges, and folds the outcome into the
// shared status-transition bookkeeping.
func (h *HTTP) Probe(ctx context.Context) (bool, string) {
	return h.Cycle(ctx, h.cfg.URL, h.attempt)
}

func (h *HTTP) attempt(ctx context.Context) (bool, string) {
	var body io.Reader
	if h.cfg.Body != "" {
		body = strings.NewReader(h.cfg.Body)
	}
	req, err := http.NewRequestWithContext(ctx, h.cfg.Method, h.cfg.URL, body)
	if err != nil {
		return false, fmt.Sprintf("request construction failed: %v", err)
	}
	if h.cfg.ContentType != "" {
		req.Header.Set("Content-Type", h.cfg.ContentType)
	}
	for k, v := range h.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()

	if !h.isSuccessCode(resp.StatusCode) {
		return false, fmt.Sprintf("HTTP Status Code is %d. It missed in %s", resp.StatusCode, h.successRanges())
	}
	return true, fmt.Sprintf("HTTP Status Code is %d", resp.StatusCode)
}

func (h *HTTP) do(req *http.Request) (*http.Response, error) {
	if h.breaker == nil {
		return h.client.Do(req)
	}
	return h.breaker.Execute(func() (*http.Response, error) {
		return h.client.Do(req)
	})
}

func (h *HTTP) isSuccessCode(code int) bool {
	for _, r := range h.cfg.SuccessCodes {
		if r.contains(code) {
			return true
		}
	}
	return false
}

// successRanges renders the configured success status-code ranges as
// "[low-high],[low-high],...", the <ranges> placeholder in the miss
// message.
func (h *HTTP) successRanges() string {
	parts := make([]string, len(h.cfg.SuccessCodes))
	for i, r := range h.cfg.SuccessCodes {
		parts[i] = fmt.Sprintf("[%d-%d]", r.Low, r.High)
	}
	return strings.Join(parts, ",")
}
