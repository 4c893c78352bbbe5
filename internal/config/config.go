package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines scriptdesk configuration.
type Config struct {
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Emulator  EmulatorConfig  `yaml:"emulator"`
}

// UpstreamConfig points at the tracker running the scripting add-on.
type UpstreamConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig is shared by the console, the MCP HTTP transport and the
// emulator. An empty Token disables bearer auth on the console and MCP.
type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

// DBConfig is used by the emulator only.
type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TransportConfig selects how the MCP surface is served: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// EmulatorConfig seeds the emulator's API key.
type EmulatorConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	// Retention bounds how long execution records are kept. Zero keeps them forever.
	Retention time.Duration `yaml:"retention"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Upstream: UpstreamConfig{
			URL:     "http://localhost:8090",
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "scriptdesk.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Emulator: EmulatorConfig{
			UserKey:   "admin",
			Retention: 30 * 24 * time.Hour,
		},
	}

	if path := os.Getenv("SCRIPTDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if url := os.Getenv("SCRIPTDESK_UPSTREAM_URL"); url != "" {
		cfg.Upstream.URL = url
	}
	if token := os.Getenv("SCRIPTDESK_UPSTREAM_TOKEN"); token != "" {
		cfg.Upstream.Token = token
	}
	if host := os.Getenv("SCRIPTDESK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SCRIPTDESK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SCRIPTDESK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if token := os.Getenv("SCRIPTDESK_SERVER_TOKEN"); token != "" {
		cfg.Server.Token = token
	}
	if dbPath := os.Getenv("SCRIPTDESK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SCRIPTDESK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("SCRIPTDESK_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if retention := os.Getenv("SCRIPTDESK_EMULATOR_RETENTION"); retention != "" {
		d, err := time.ParseDuration(retention)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SCRIPTDESK_EMULATOR_RETENTION: %w", err)
		}
		cfg.Emulator.Retention = d
	}
	if mode := os.Getenv("SCRIPTDESK_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}

	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}
	if cfg.Emulator.Retention < 0 {
		return Config{}, fmt.Errorf("invalid emulator retention %s", cfg.Emulator.Retention)
	}
	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = 30 * time.Second
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
