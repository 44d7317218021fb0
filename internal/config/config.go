package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Ledger LedgerConfig `yaml:"ledger"`
	MCP    MCPConfig    `yaml:"mcp"`
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
}

// LedgerConfig holds the fixed ledger owner identity.
type LedgerConfig struct {
	Owner string `yaml:"owner"`
}

// MCPConfig toggles the read-only MCP inspection surface.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from an optional .env file, an optional YAML
// file, and environment variables, in increasing precedence.
func Load() (Config, error) {
	// Load .env if present; real environments set vars directly.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "gigledger.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Ledger: LedgerConfig{
			Owner: "owner",
		},
	}

	if path := os.Getenv("GIGLEDGER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("GIGLEDGER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("GIGLEDGER_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GIGLEDGER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("GIGLEDGER_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("GIGLEDGER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if owner := os.Getenv("GIGLEDGER_OWNER"); owner != "" {
		cfg.Ledger.Owner = owner
	}
	if mcpStr := os.Getenv("GIGLEDGER_MCP_ENABLED"); mcpStr != "" {
		enabled, err := strconv.ParseBool(mcpStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GIGLEDGER_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = enabled
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
