// Package config parses the YAML configuration document into the
// structures probers, notifiers, and global settings are built from.
package config

// Config is the top-level configuration parsed from the YAML config file.
type Config struct {
	Version  string         `yaml:"version"  json:"version"`
	HTTP     []HTTPProber   `yaml:"http"     json:"http"`
	Notify   NotifyConfig   `yaml:"notify"   json:"notify"`
	Settings SettingsConfig `yaml:"settings" json:"settings"`
}

// RetrySpec is the times/interval pair shared by every notifier's send
// retry configuration.
type RetrySpec struct {
	Times    int    `yaml:"times"    json:"times"`
	Interval string `yaml:"interval" json:"interval"`
}

// AlertConfig configures the notification-strategy a prober or the
// global settings apply to repeated Down observations.
type AlertConfig struct {
	Strategy string `yaml:"strategy"  json:"strategy"`
	Factor   int    `yaml:"factor"    json:"factor"`
	MaxTimes int    `yaml:"max_times" json:"max_times"`
}

// HTTPProber is one HTTP probe entity. Interval/Timeout/Failure/Success/
// Alert are local overrides normalized against settings.probe at wiring
// time; the zero value of each means "unset".
type HTTPProber struct {
	Name        string            `yaml:"name"         json:"name"`
	URL         string            `yaml:"url"          json:"url"`
	Method      string            `yaml:"method"       json:"method"`
	ContentType string            `yaml:"content_type"  json:"contentType"`
	Body        string            `yaml:"body"         json:"body"`
	Headers     map[string]string `yaml:"headers"      json:"headers"`
	SuccessCode []string          `yaml:"success_code" json:"successCode"`
	Proxy       string            `yaml:"proxy"        json:"proxy"`
	Channels    []string          `yaml:"channels"     json:"channels"`

	Interval string      `yaml:"interval" json:"interval"`
	Timeout  string      `yaml:"timeout"  json:"timeout"`
	Failure  int         `yaml:"failure"  json:"failure"`
	Success  int         `yaml:"success"  json:"success"`
	Alert    AlertConfig `yaml:"alert"    json:"alert"`

	TLS     *TLSConfig        `yaml:"tls"     json:"tls,omitempty"`
	Breaker *BreakerConfig    `yaml:"breaker" json:"breaker,omitempty"`
}

// TLSConfig configures outbound client TLS for an HTTP probe.
type TLSConfig struct {
	CAFile             string `yaml:"ca_file"              json:"caFile"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" json:"insecureSkipVerify"`
}

// BreakerConfig configures the optional circuit breaker wrapped around an
// HTTP probe's outbound client, tripping after consecutive failures to
// stop hammering a target that is already known to be down.
type BreakerConfig struct {
	MaxFailures uint32 `yaml:"max_failures" json:"maxFailures"`
	Timeout     string `yaml:"timeout"      json:"timeout"`
}

// NotifyConfig groups notifier entities by kind.
type NotifyConfig struct {
	Log     []LogNotifier     `yaml:"log"     json:"log"`
	Webhook []WebhookNotifier `yaml:"webhook" json:"webhook"`
}

// LogNotifier is one append-to-file notifier entity.
type LogNotifier struct {
	Name     string    `yaml:"name"     json:"name"`
	File     string    `yaml:"file"     json:"file"`
	Format   string    `yaml:"format"   json:"format"`
	Channels []string  `yaml:"channels" json:"channels"`
	Timeout  string    `yaml:"timeout"  json:"timeout"`
	Retry    RetrySpec `yaml:"retry"    json:"retry"`
	Dry      bool      `yaml:"dry"      json:"dry"`
}

// WebhookNotifier is one HTTP-POST notifier entity; the extension kind
// beyond the reference Log notifier.
type WebhookNotifier struct {
	Name     string    `yaml:"name"     json:"name"`
	URL      string    `yaml:"url"      json:"url"`
	Channels []string  `yaml:"channels" json:"channels"`
	Timeout  string    `yaml:"timeout"  json:"timeout"`
	Retry    RetrySpec `yaml:"retry"    json:"retry"`
	Dry      bool      `yaml:"dry"      json:"dry"`
}

// SettingsConfig carries process-wide identity and the global defaults
// every prober/notifier entity normalizes against.
type SettingsConfig struct {
	Name       string               `yaml:"name"       json:"name"`
	Icon       string               `yaml:"icon"       json:"icon"`
	PID        string               `yaml:"pid"        json:"pid"`
	TimeFormat string               `yaml:"timeformat" json:"timeformat"`
	Timezone   string               `yaml:"timezone"   json:"timezone"`
	Probe      ProbeSettingsConfig  `yaml:"probe"  json:"probe"`
	Notify     NotifySettingsConfig `yaml:"notify" json:"notify"`
	SLA        SLAConfig            `yaml:"sla"    json:"sla"`
	HTTP       HTTPServerConfig     `yaml:"http"   json:"http"`
}

// ProbeSettingsConfig is the global default for every prober entity.
type ProbeSettingsConfig struct {
	Interval string      `yaml:"interval" json:"interval"`
	Timeout  string      `yaml:"timeout"  json:"timeout"`
	Failure  int         `yaml:"failure"  json:"failure"`
	Success  int         `yaml:"success"  json:"success"`
	Alert    AlertConfig `yaml:"alert"    json:"alert"`
}

// NotifySettingsConfig is the global default for every notifier entity.
type NotifySettingsConfig struct {
	TimeFormat string    `yaml:"time_format" json:"timeFormat"`
	Timeout    string    `yaml:"timeout"     json:"timeout"`
	Retry      RetrySpec `yaml:"retry"       json:"retry"`
}

// SLAConfig configures the periodic SLA report hook; outside core scope
// beyond carrying the document shape through.
type SLAConfig struct {
	Schedule string   `yaml:"schedule"  json:"schedule"`
	Time     string   `yaml:"time"      json:"time"`
	DataFile string   `yaml:"data_file" json:"dataFile"`
	Backups  int      `yaml:"backups"   json:"backups"`
	Channels []string `yaml:"channels"  json:"channels"`
}

// HTTPServerConfig configures the optional status-page HTTP server;
// outside core scope beyond carrying the document shape through.
type HTTPServerConfig struct {
	IP      string `yaml:"ip"      json:"ip"`
	Port    string `yaml:"port"    json:"port"`
	Refresh string `yaml:"refresh" json:"refresh"`
}

// Document defaults, mirrored from the configuration document's
// documented defaults.
const (
	DefaultName          = "EaseProbe"
	DefaultTimeFormat    = "2006-01-02 15:04:05 Z0700"
	DefaultTimezone      = "UTC"
	DefaultProbeInterval = "60s"
	DefaultProbeTimeout  = "30s"
	DefaultRetryTimes    = 3
	DefaultRetryInterval = "5s"
	DefaultChannelName   = "__EaseProbe_Channel__"
)
