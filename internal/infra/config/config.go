package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Session  SessionConfig  `yaml:"session"`
	Defaults RequestConfig  `yaml:"defaults"`
	Drafts   DraftsConfig   `yaml:"drafts"`
	Export   ExportConfig   `yaml:"export"`
	Logger   LoggerConfig   `yaml:"logger"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// BackendConfig holds connection settings for the content agent backend.
type BackendConfig struct {
	BaseURL     string        `yaml:"base_url"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
	RespTimeout time.Duration `yaml:"resp_timeout"`
	// CallTimeout bounds one-shot REST calls (conversations, evaluate,
	// safety). The generation stream itself carries no client timeout.
	CallTimeout time.Duration `yaml:"call_timeout"`
	Pool        PoolConfig    `yaml:"pool"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// PoolConfig holds HTTP connection pool settings for the backend client.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// BreakerConfig holds circuit breaker settings for the evaluation client.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// SessionConfig tunes the streaming session.
type SessionConfig struct {
	// FlushInterval bounds how often buffered stream updates become
	// visible state during bursty token streams.
	FlushInterval time.Duration `yaml:"flush_interval"`
	// PhaseTailWindow is the rune count of the reasoning tail inspected
	// for active-phase detection.
	PhaseTailWindow int `yaml:"phase_tail_window"`
	// MaxContentBytes caps the cumulative output buffer; the newest bytes
	// win on overflow. 0 uses the default.
	MaxContentBytes int `yaml:"max_content_bytes"`
	// MaxReasoningBytes caps the reasoning transcript the same way.
	MaxReasoningBytes int `yaml:"max_reasoning_bytes"`
	// MaxToolEvents caps the tool event log (ring, oldest dropped).
	MaxToolEvents int `yaml:"max_tool_events"`
}

// RequestConfig holds default generation parameters, applied to requests
// that leave them unset.
type RequestConfig struct {
	Platforms        []string `yaml:"platforms"`
	ContentType      string   `yaml:"content_type"`
	Language         string   `yaml:"language"`
	ReasoningEffort  string   `yaml:"reasoning_effort"`
	ReasoningSummary string   `yaml:"reasoning_summary"`
}

// DraftsConfig holds local draft store settings.
type DraftsConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig holds export output settings.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// defaultDataDir returns the persistent data directory under
// $HOME/.socialstudio. Falls back to "./data" if $HOME cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".socialstudio")
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Backend: BackendConfig{
			BaseURL:     "http://localhost:8000",
			ConnTimeout: 10 * time.Second,
			RespTimeout: 120 * time.Second,
			CallTimeout: 30 * time.Second,
			Pool: PoolConfig{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				MaxConnsPerHost:     10,
				IdleConnTimeout:     120 * time.Second,
			},
			Breaker: BreakerConfig{
				MaxFailures: 3,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		Session: SessionConfig{
			FlushInterval:     120 * time.Millisecond,
			PhaseTailWindow:   480,
			MaxContentBytes:   2 << 20,
			MaxReasoningBytes: 512 << 10,
			MaxToolEvents:     256,
		},
		Defaults: RequestConfig{
			Platforms:        []string{"linkedin", "x", "instagram"},
			ContentType:      "product_launch",
			Language:         "en",
			ReasoningEffort:  "medium",
			ReasoningSummary: "auto",
		},
		Drafts: DraftsConfig{
			Path: filepath.Join(dataDir, "drafts.db"),
		},
		Export: ExportConfig{
			Dir: filepath.Join(dataDir, "exports"),
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: filepath.Join(dataDir, "studio.log"),
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "stdout",
		},
	}
}

// Load reads the YAML config at path, layered over Defaults, then applies
// STUDIO_* environment overrides and validates. A missing file is not an
// error: defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps STUDIO_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDIO_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("STUDIO_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("STUDIO_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("STUDIO_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("STUDIO_FLUSH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.FlushInterval = d
		}
	}
	if v := os.Getenv("STUDIO_DRAFTS_PATH"); v != "" {
		cfg.Drafts.Path = v
	}
	if v := os.Getenv("STUDIO_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("STUDIO_MAX_TOOL_EVENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Session.MaxToolEvents = n
		}
	}
}

// Validate checks the configuration for values the client cannot run with.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not a valid URL", cfg.Backend.BaseURL)
	}
	if cfg.Session.FlushInterval <= 0 {
		return fmt.Errorf("session.flush_interval must be positive")
	}
	if cfg.Session.PhaseTailWindow <= 0 {
		return fmt.Errorf("session.phase_tail_window must be positive")
	}
	if cfg.Session.MaxContentBytes < 0 || cfg.Session.MaxReasoningBytes < 0 {
		return fmt.Errorf("session buffer caps must not be negative")
	}
	switch cfg.Defaults.ReasoningEffort {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("defaults.reasoning_effort %q is not one of low/medium/high", cfg.Defaults.ReasoningEffort)
	}
	switch cfg.Defaults.ReasoningSummary {
	case "off", "auto", "concise", "detailed":
	default:
		return fmt.Errorf("defaults.reasoning_summary %q is not one of off/auto/concise/detailed", cfg.Defaults.ReasoningSummary)
	}
	switch cfg.Logger.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logger.level %q is not a known level", cfg.Logger.Level)
	}
	return nil
}
