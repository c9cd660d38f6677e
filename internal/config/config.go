package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Export    ExportConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Port         int
	Bind         string
	CORSOrigins  string
	RateLimitRPS float64
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type AnalyticsConfig struct {
	HistoryDays int
}

type ExportConfig struct {
	PollInterval string
}

type CacheConfig struct {
	Size int
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         4100,
			Bind:         "127.0.0.1",
			CORSOrigins:  "http://localhost:3000",
			RateLimitRPS: 5,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Analytics: AnalyticsConfig{
			HistoryDays: 30,
		},
		Export: ExportConfig{
			PollInterval: "500ms",
		},
		Cache: CacheConfig{
			Size: 128,
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/futuresim/config.json, then applies FUTURESIM_*
// environment overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("invalid server.rate_limit_rps %v: must not be negative", c.Server.RateLimitRPS)
	}
	if _, err := time.ParseDuration(c.Export.PollInterval); err != nil {
		return fmt.Errorf("invalid export.poll_interval %q: %w", c.Export.PollInterval, err)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must not be empty")
	}
	return nil
}

// Addr is the host:port the server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// URL is the base URL clients use to reach the server.
func (c ServerConfig) URL() string {
	host := c.Bind
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Port)
}

// Origins splits the comma-separated CORS origin list.
func (c ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Interval returns the parsed poll interval. Load has already validated it.
func (c ExportConfig) Interval() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "futuresim-data"
		}
	}
	return filepath.Join(dir, "futuresim")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "futuresim", "config.json")
}
