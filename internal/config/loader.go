package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML configuration file at path.
// If path does not exist or is empty, it returns an empty Config with no errors.
// If the YAML is malformed, it returns nil config with a parse error.
// For validation errors, it returns a valid config with invalid entries stripped
// plus errors describing what was removed.
func Load(path string) (*Config, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, []error{fmt.Errorf("failed to read config file: %w", err)}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return &Config{}, nil
	}

	// Expand ${ENV_VAR} references before parsing YAML
	data = []byte(os.Expand(string(data), os.Getenv))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, []error{fmt.Errorf("failed to parse config YAML: %w", err)}
	}

	var validationErrors []error

	cfg.HTTP = validateHTTPProbers(cfg.HTTP, &validationErrors)
	cfg.Notify.Log = validateLogNotifiers(cfg.Notify.Log, &validationErrors)
	cfg.Notify.Webhook = validateWebhookNotifiers(cfg.Notify.Webhook, &validationErrors)

	return &cfg, validationErrors
}

func validURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// validateHTTPProbers keeps only HTTP probers with a name, a valid URL,
// and a name unique among probers seen so far.
func validateHTTPProbers(probers []HTTPProber, errs *[]error) []HTTPProber {
	valid := make([]HTTPProber, 0, len(probers))
	seen := make(map[string]struct{}, len(probers))
	for i, p := range probers {
		ok := true
		name := strings.TrimSpace(p.Name)
		if name == "" {
			*errs = append(*errs, fmt.Errorf("http[%d].name: required field missing", i))
			ok = false
		}
		if _, dup := seen[name]; name != "" && dup {
			*errs = append(*errs, fmt.Errorf("http[%d].name: duplicate prober name %q", i, name))
			ok = false
		}
		rawURL := strings.TrimSpace(p.URL)
		if rawURL == "" {
			*errs = append(*errs, fmt.Errorf("http[%d].url: required field missing", i))
			ok = false
		} else if !validURL(rawURL) {
			*errs = append(*errs, fmt.Errorf("http[%d].url: invalid URL %q", i, rawURL))
			ok = false
		}
		if p.Failure < 0 {
			*errs = append(*errs, fmt.Errorf("http[%d].failure: must be non-negative, got %d", i, p.Failure))
			ok = false
		}
		if p.Success < 0 {
			*errs = append(*errs, fmt.Errorf("http[%d].success: must be non-negative, got %d", i, p.Success))
			ok = false
		}
		if ok {
			seen[name] = struct{}{}
			valid = append(valid, p)
		}
	}
	return valid
}

// validateLogNotifiers keeps only log notifiers with a name and a file path.
func validateLogNotifiers(notifiers []LogNotifier, errs *[]error) []LogNotifier {
	valid := make([]LogNotifier, 0, len(notifiers))
	seen := make(map[string]struct{}, len(notifiers))
	for i, n := range notifiers {
		ok := true
		name := strings.TrimSpace(n.Name)
		if name == "" {
			*errs = append(*errs, fmt.Errorf("notify.log[%d].name: required field missing", i))
			ok = false
		}
		if _, dup := seen[name]; name != "" && dup {
			*errs = append(*errs, fmt.Errorf("notify.log[%d].name: duplicate notifier name %q", i, name))
			ok = false
		}
		if strings.TrimSpace(n.File) == "" {
			*errs = append(*errs, fmt.Errorf("notify.log[%d].file: required field missing", i))
			ok = false
		}
		if ok {
			seen[name] = struct{}{}
			valid = append(valid, n)
		}
	}
	return valid
}

// validateWebhookNotifiers keeps only webhook notifiers with a name and a valid URL.
func validateWebhookNotifiers(notifiers []WebhookNotifier, errs *[]error) []WebhookNotifier {
	valid := make([]WebhookNotifier, 0, len(notifiers))
	seen := make(map[string]struct{}, len(notifiers))
	for i, n := range notifiers {
		ok := true
		name := strings.TrimSpace(n.Name)
		if name == "" {
			*errs = append(*errs, fmt.Errorf("notify.webhook[%d].name: required field missing", i))
			ok = false
		}
		if _, dup := seen[name]; name != "" && dup {
			*errs = append(*errs, fmt.Errorf("notify.webhook[%d].name: duplicate notifier name %q", i, name))
			ok = false
		}
		rawURL := strings.TrimSpace(n.URL)
		if rawURL == "" {
			*errs = append(*errs, fmt.Errorf("notify.webhook[%d].url: required field missing", i))
			ok = false
		} else if !validURL(rawURL) {
			*errs = append(*errs, fmt.Errorf("notify.webhook[%d].url: invalid URL %q", i, rawURL))
			ok = false
		}
		if ok {
			seen[name] = struct{}{}
			valid = append(valid, n)
		}
	}
	return valid
}
