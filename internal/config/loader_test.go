package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_MissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, errs := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if cfg == nil || len(cfg.HTTP) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoad_EmptyFileReturnsEmptyConfig(t *testing.T) {
	path := writeTempConfig(t, "")
	cfg, errs := Load(path)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if cfg == nil {
		t.Fatal("expected non-nil empty config")
	}
}

func TestLoad_MalformedYAMLReturnsNilConfigAndError(t *testing.T) {
	path := writeTempConfig(t, "http: [this is not: valid: yaml")
	cfg, errs := Load(path)
	if cfg != nil {
		t.Fatalf("expected nil config on parse failure, got %+v", cfg)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one parse error, got %v", errs)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("PROBE_TARGET", "https://example.com")
	path := writeTempConfig(t, "http:\n  - name: web\n    url: ${PROBE_TARGET}\n")
	cfg, errs := Load(path)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(cfg.HTTP) != 1 || cfg.HTTP[0].URL != "https://example.com" {
		t.Fatalf("expected env var expansion, got %+v", cfg.HTTP)
	}
}

func TestLoad_StripsInvalidHTTPProbers(t *testing.T) {
	path := writeTempConfig(t, `
http:
  - name: good
    url: https://example.com
  - name: ""
    url: https://example.com
  - name: bad-url
    url: not-a-url
  - name: good
    url: https://example.com/dup-name
`)
	cfg, errs := Load(path)
	if len(cfg.HTTP) != 1 || cfg.HTTP[0].Name != "good" {
		t.Fatalf("expected only the first valid prober to survive, got %+v", cfg.HTTP)
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", errs)
	}
}

func TestLoad_StripsInvalidNotifiers(t *testing.T) {
	path := writeTempConfig(t, `
notify:
  log:
    - name: applog
      file: /var/log/probe.log
    - name: ""
      file: /var/log/other.log
  webhook:
    - name: hook
      url: https://hooks.example.com/abc
    - name: hook2
      url: not-a-url
`)
	cfg, errs := Load(path)
	if len(cfg.Notify.Log) != 1 || cfg.Notify.Log[0].Name != "applog" {
		t.Fatalf("expected only the valid log notifier to survive, got %+v", cfg.Notify.Log)
	}
	if len(cfg.Notify.Webhook) != 1 || cfg.Notify.Webhook[0].Name != "hook" {
		t.Fatalf("expected only the valid webhook notifier to survive, got %+v", cfg.Notify.Webhook)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 validation errors, got %v", errs)
	}
}

func TestLoad_SettingsPassThrough(t *testing.T) {
	path := writeTempConfig(t, `
settings:
  name: MyProbe
  probe:
    interval: 30s
    failure: 2
  notify:
    retry:
      times: 5
`)
	cfg, errs := Load(path)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if cfg.Settings.Name != "MyProbe" {
		t.Fatalf("expected settings.name to parse, got %q", cfg.Settings.Name)
	}
	if cfg.Settings.Probe.Interval != "30s" || cfg.Settings.Probe.Failure != 2 {
		t.Fatalf("expected probe settings to parse, got %+v", cfg.Settings.Probe)
	}
	if cfg.Settings.Notify.Retry.Times != 5 {
		t.Fatalf("expected notify retry times to parse, got %d", cfg.Settings.Notify.Retry.Times)
	}
}
