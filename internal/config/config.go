package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Modules   []ModuleConfig  `yaml:"modules"`
	Board     BoardConfig     `yaml:"board"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path switches logging to a rotated file when set.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode"`
}

// ModuleConfig declares one grouped module and its duplicate-group reset
// rule. The clearing list is deliberately per-module configuration.
type ModuleConfig struct {
	Name       string      `yaml:"name"`
	LabelField string      `yaml:"label_field"`
	Reset      ResetConfig `yaml:"reset_on_duplicate"`
}

type ResetConfig struct {
	Notes        bool     `yaml:"notes"`
	Attachments  bool     `yaml:"attachments"`
	StatusFields bool     `yaml:"status_fields"`
	Fields       []string `yaml:"fields"`
}

type BoardConfig struct {
	Module string `yaml:"module"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "backoffice.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Modules: DefaultModules(),
		Board: BoardConfig{
			Module: "tasks",
		},
	}

	if path := os.Getenv("BACKOFFICE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("BACKOFFICE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("BACKOFFICE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BACKOFFICE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("BACKOFFICE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BACKOFFICE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("BACKOFFICE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("BACKOFFICE_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}

	return cfg, nil
}

// DefaultModules lists the back-office module screens and their label
// columns, matching how each module names its client rows.
func DefaultModules() []ModuleConfig {
	reset := ResetConfig{Notes: true, Attachments: true, StatusFields: true}
	return []ModuleConfig{
		{Name: "sites", LabelField: "elemento", Reset: reset},
		{Name: "google_my_business", LabelField: "clientName", Reset: reset},
		{Name: "content", LabelField: "nome", Reset: reset},
		{Name: "traffic", LabelField: "clientName", Reset: reset},
		{Name: "videos", LabelField: "nome", Reset: reset},
		{Name: "rsg_avaliacoes", LabelField: "clientName", Reset: reset},
	}
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
