// Command probe is a single-binary synthetic monitoring engine: it loads
// a YAML configuration document, builds a prober and a notifier per
// declared entity, wires them into the Channel Manager, and drives every
// prober on its own interval until signaled to stop.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rathix/command-center/internal/channelmgr"
	"github.com/rathix/command-center/internal/config"
	"github.com/rathix/command-center/internal/notifier"
	"github.com/rathix/command-center/internal/prober"
	"github.com/rathix/command-center/internal/retry"
	"github.com/rathix/command-center/internal/scheduler"
	"github.com/rathix/command-center/internal/settings"
	"github.com/rathix/command-center/internal/status"
)

func main() {
	cfg, err := loadCLIConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.JSONSchema {
		if err := emitJSONSchema(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliConfig holds the parsed flags/environment, precedence Flag > Env > Default.
type cliConfig struct {
	DryNotify  bool
	YAMLFile   string
	JSONSchema bool
}

// loadCLIConfig parses flags and environment variables with precedence: Flag > Env > Default.
func loadCLIConfig(args []string) (cliConfig, error) {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)

	cfg := cliConfig{}
	fs.BoolVar(&cfg.DryNotify, "d", getEnvBool("PROBE_DRY", false), "log notifications instead of sending them")
	fs.BoolVar(&cfg.DryNotify, "dry-notify", getEnvBool("PROBE_DRY", false), "log notifications instead of sending them")
	fs.StringVar(&cfg.YAMLFile, "f", getEnv("PROBE_CONFIG", "config.yaml"), "path to the YAML configuration file")
	fs.StringVar(&cfg.YAMLFile, "yaml-file", getEnv("PROBE_CONFIG", "config.yaml"), "path to the YAML configuration file")
	fs.BoolVar(&cfg.JSONSchema, "j", false, "emit the configuration document's JSON schema and exit")
	fs.BoolVar(&cfg.JSONSchema, "json-schema", false, "emit the configuration document's JSON schema and exit")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

// footerString renders the "<name> @ <pid>" signature line appended to
// every rendered notification body, following settings.name/settings.pid
// from the configuration document with sensible fallbacks.
func footerString(s config.SettingsConfig) string {
	name := s.Name
	if name == "" {
		name = config.DefaultName
	}
	pid := s.PID
	if pid == "" {
		if host, err := os.Hostname(); err == nil {
			pid = host
		} else {
			pid = "localhost"
		}
	}
	return fmt.Sprintf("%s @ %s", name, pid)
}

func setupLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// run loads the configuration document, builds every prober/notifier
// entity, wires them through the Channel Manager, and drives the
// scheduler until ctx is canceled.
func run(ctx context.Context, cli cliConfig) error {
	logger := setupLogger()
	slog.SetDefault(logger)

	doc, errs := config.Load(cli.YAMLFile)
	if doc == nil {
		return fmt.Errorf("failed to load configuration: %v", errs)
	}
	for _, e := range errs {
		logger.Warn("configuration entity skipped", "error", e)
	}
	notifier.Footer = footerString(doc.Settings)

	global := settings.ProbeSettings{
		Interval:         parseDurationOr(doc.Settings.Probe.Interval, 0),
		Timeout:          parseDurationOr(doc.Settings.Probe.Timeout, 0),
		FailureThreshold: doc.Settings.Probe.Failure,
		SuccessThreshold: doc.Settings.Probe.Success,
		Strategy:         parseStrategyOr(doc.Settings.Probe.Alert.Strategy, settings.DefaultStrategy),
		StrategyFactor:   doc.Settings.Probe.Alert.Factor,
		StrategyMaxTimes: doc.Settings.Probe.Alert.MaxTimes,
	}
	globalNotify := settings.NotifierSetting{
		TimeFormat:    doc.Settings.Notify.TimeFormat,
		Timeout:       parseDurationOr(doc.Settings.Notify.Timeout, 0),
		RetryTimes:    doc.Settings.Notify.Retry.Times,
		RetryInterval: parseDurationOr(doc.Settings.Notify.Retry.Interval, 0),
	}

	retryDriver := retry.New(retry.WithLogger(logger))
	mgr := channelmgr.New(channelmgr.WithLogger(logger), channelmgr.WithRetryDriver(retryDriver))
	mgr.SetDryNotify(cli.DryNotify)

	driven, err := buildProbers(doc.HTTP, global, logger)
	if err != nil {
		return fmt.Errorf("failed to build probers: %w", err)
	}
	bindings, err := buildNotifiers(doc.Notify, globalNotify, logger)
	if err != nil {
		return fmt.Errorf("failed to build notifiers: %w", err)
	}
	for _, b := range bindings {
		if l, ok := b.Notifier.(*notifier.Log); ok {
			go l.Watch(ctx)
		}
	}

	probers := make([]prober.Prober, 0, len(driven))
	for _, d := range driven {
		probers = append(probers, d.Prober)
	}
	mgr.SetProbers(ctx, probers)
	mgr.SetNotifiers(ctx, bindings)

	logger.Info("probe starting", "probers", len(driven), "notifiers", len(bindings), "dry_notify", cli.DryNotify)

	sch := scheduler.New(scheduler.WithLogger(logger))
	sch.Run(ctx, mgr, driven)

	logger.Info("shutting down")
	mgr.AllDone()
	return nil
}

func buildProbers(defs []config.HTTPProber, global settings.ProbeSettings, logger *slog.Logger) ([]scheduler.Driven, error) {
	out := make([]scheduler.Driven, 0, len(defs))
	for _, d := range defs {
		codes, err := prober.ParseSuccessCodes(d.SuccessCode)
		if err != nil {
			return nil, fmt.Errorf("prober %s: %w", d.Name, err)
		}

		var tlsOpt *prober.TLSOption
		if d.TLS != nil {
			tlsOpt = &prober.TLSOption{CAFile: d.TLS.CAFile, InsecureSkipVerify: d.TLS.InsecureSkipVerify}
		}

		var breakerOpt *prober.CircuitBreakerOption
		if d.Breaker != nil {
			breakerOpt = &prober.CircuitBreakerOption{
				MaxFailures: d.Breaker.MaxFailures,
				Timeout:     parseDurationOr(d.Breaker.Timeout, 0),
			}
		}

		strategy, strategySet := parseStrategy(d.Alert.Strategy)
		cfg := prober.HTTPConfig{
			Name:             d.Name,
			URL:              d.URL,
			Method:           d.Method,
			ContentType:      d.ContentType,
			Body:             d.Body,
			Headers:          d.Headers,
			SuccessCodes:     codes,
			Timeout:          parseDurationOr(d.Timeout, 0),
			ProxyURL:         d.Proxy,
			TLS:              tlsOpt,
			Breaker:          breakerOpt,
			Channels:         d.Channels,
			Threshold:        status.Threshold{Failure: d.Failure, Success: d.Success},
			Strategy:         global.NormalizeStrategy(strategy, strategySet),
			StrategyFactor:   d.Alert.Factor,
			StrategyMaxTimes: d.Alert.MaxTimes,
		}

		h, err := prober.NewHTTP(cfg, global, logger)
		if err != nil {
			return nil, err
		}
		interval := global.NormalizeInterval(parseDurationOr(d.Interval, 0))
		out = append(out, scheduler.Driven{Prober: h, Interval: interval})
	}
	return out, nil
}

func buildNotifiers(doc config.NotifyConfig, global settings.NotifierSetting, logger *slog.Logger) ([]channelmgr.NotifierBinding, error) {
	out := make([]channelmgr.NotifierBinding, 0, len(doc.Log)+len(doc.Webhook))

	for _, d := range doc.Log {
		n, err := notifier.NewLog(d.Name, d.File, parseFormat(d.Format), global.NormalizeTimeFormat(""), logger)
		if err != nil {
			return nil, err
		}
		out = append(out, channelmgr.NotifierBinding{
			Notifier: n,
			Channels: d.Channels,
			Retry: retry.Spec{
				Times:    global.NormalizeRetryTimes(d.Retry.Times),
				Interval: global.NormalizeRetryInterval(parseDurationOr(d.Retry.Interval, 0)),
			},
			Dry: d.Dry,
		})
	}

	for _, d := range doc.Webhook {
		n := notifier.NewWebhook(d.Name, d.URL)
		out = append(out, channelmgr.NotifierBinding{
			Notifier: n,
			Channels: d.Channels,
			Retry: retry.Spec{
				Times:    global.NormalizeRetryTimes(d.Retry.Times),
				Interval: global.NormalizeRetryInterval(parseDurationOr(d.Retry.Interval, 0)),
			},
			Dry: d.Dry,
		})
	}

	return out, nil
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseStrategy(s string) (status.Strategy, bool) {
	switch s {
	case "increment":
		return status.Increment, true
	case "exponential":
		return status.Exponential, true
	case "regular":
		return status.Regular, true
	default:
		return status.Regular, false
	}
}

func parseStrategyOr(s string, fallback status.Strategy) status.Strategy {
	if v, ok := parseStrategy(s); ok {
		return v
	}
	return fallback
}

func parseFormat(s string) notifier.Format {
	switch s {
	case "markdown":
		return notifier.FormatMarkdown
	case "markdown_social":
		return notifier.FormatMarkdownSocial
	case "html":
		return notifier.FormatHTML
	case "json":
		return notifier.FormatJSON
	case "slack":
		return notifier.FormatSlack
	case "discord":
		return notifier.FormatDiscord
	case "lark":
		return notifier.FormatLark
	case "sms":
		return notifier.FormatSMS
	case "shell":
		return notifier.FormatShell
	case "log":
		return notifier.FormatLog
	default:
		return notifier.FormatText
	}
}

// emitJSONSchema writes the JSON schema of the configuration document to w.
func emitJSONSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(config.JSONSchema())
}
