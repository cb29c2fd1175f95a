package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chabad360/go-osc-server/osc"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel = "OSCD_LOG_LEVEL"
	EnvAddr     = "OSCD_ADDR"
)

type fileConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     string   `toml:"read_timeout"`
	BufferSize      int      `toml:"buffer_size"`
	SkipUnknownTags bool     `toml:"skip_unknown_tags"`
	LogLevel        string   `toml:"log_level"`
	MetricsAddr     string   `toml:"metrics_addr"`
	Watch           []string `toml:"watch"`
}

type serverConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	BufferSize      int
	SkipUnknownTags bool
	LogLevel        zerolog.Level
	// MetricsAddr is where /metrics is served; empty disables it.
	MetricsAddr string
	// Watch lists the addresses whose messages are logged.
	Watch []string
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Addr:       "0.0.0.0:8000",
		BufferSize: osc.MaxPacketSize,
		LogLevel:   zerolog.InfoLevel,
	}
}

func loadServerConfig(path string) (serverConfig, error) {
	cfg := defaultServerConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serverConfig{}, fmt.Errorf("load oscd config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return serverConfig{}, fmt.Errorf("load oscd config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}

	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return serverConfig{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	if meta.IsDefined("buffer_size") {
		cfg.BufferSize = raw.BufferSize
	}

	if meta.IsDefined("skip_unknown_tags") {
		cfg.SkipUnknownTags = raw.SkipUnknownTags
	}

	if meta.IsDefined("log_level") {
		lvl, ok := parseLevel(raw.LogLevel)
		if !ok {
			return serverConfig{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if meta.IsDefined("watch") {
		cfg.Watch = normalizeAddresses(raw.Watch)
	}

	if err := validateServerConfig(cfg); err != nil {
		return serverConfig{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *serverConfig) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.LogLevel = lvl
	}
	if addr := strings.TrimSpace(os.Getenv(EnvAddr)); addr != "" {
		cfg.Addr = addr
	}
}

func validateServerConfig(cfg serverConfig) error {
	if cfg.Addr == "" {
		return fmt.Errorf("oscd config missing addr")
	}
	if cfg.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout must not be negative")
	}
	if cfg.BufferSize <= 0 || cfg.BufferSize > osc.MaxPacketSize {
		return fmt.Errorf("buffer_size must be in 1..%d, got %d", osc.MaxPacketSize, cfg.BufferSize)
	}
	for i, addr := range cfg.Watch {
		if !strings.HasPrefix(addr, "/") {
			return fmt.Errorf("watch[%d] %q must start with '/'", i, addr)
		}
	}
	return nil
}

func normalizeAddresses(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, addr := range in {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// parseLevel accepts every zerolog level name plus the aliases "warning",
// "off" and "none".
func parseLevel(raw string) (zerolog.Level, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "":
		return zerolog.InfoLevel, false
	case "warning":
		return zerolog.WarnLevel, true
	case "off", "none":
		return zerolog.Disabled, true
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}
