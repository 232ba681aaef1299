// Package config loads settings from configs/config.yml, a .env file and
// KITCHENLOG_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"kitchenlog/internal/logger"
	"kitchenlog/internal/models"
	"kitchenlog/internal/repository"
	"kitchenlog/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "KITCHENLOG"

// Config is the resolved application configuration.
type Config struct {
	Port   string
	Log    LogConfig
	Store  repository.Config
	Staff  models.Roster
	Report ReportConfig
	Server server.Config
}

type LogConfig struct {
	Level    string
	Encoding string
}

type ReportConfig struct {
	BaseURL     string // address of GET /report as the renderer sees it
	RendererURL string // empty disables PDF export
	Timeout     time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.encoding", logger.ConsoleEncoding)
	v.SetDefault("store.backend", repository.BackendFile)
	v.SetDefault("store.csv_path", "deepfry.csv")
	v.SetDefault("store.schema", "full")
	v.SetDefault("store.sqlite_path", "kitchenlog.db")
	v.SetDefault("store.badger_dir", "data/badger")
	v.SetDefault("store.connect_attempts", 5)
	v.SetDefault("staff", []string(models.DefaultRoster))
	v.SetDefault("report.base_url", "http://localhost:8080/report")
	v.SetDefault("report.renderer_url", "")
	v.SetDefault("report.timeout", "30s")
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
}

// Load reads configuration. dirs are searched for config.yml in order; with
// none given, ./configs is used. A missing config file or .env is not an error.
func Load(dirs ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{"configs"}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port: v.GetString("port"),
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
		Store: repository.Config{
			Backend:         v.GetString("store.backend"),
			CSVPath:         v.GetString("store.csv_path"),
			Schema:          v.GetString("store.schema"),
			SQLitePath:      v.GetString("store.sqlite_path"),
			BadgerDir:       v.GetString("store.badger_dir"),
			ConnectAttempts: v.GetInt("store.connect_attempts"),
		},
		Staff: roster(v.GetStringSlice("staff")),
		Report: ReportConfig{
			BaseURL:     v.GetString("report.base_url"),
			RendererURL: v.GetString("report.renderer_url"),
			Timeout:     v.GetDuration("report.timeout"),
		},
		Server: server.Config{
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// roster accepts both a YAML list and a comma-separated env value.
func roster(names []string) models.Roster {
	var out models.Roster
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return models.DefaultRoster
	}
	return out
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case repository.BackendFile, repository.BackendSQLite, repository.BackendBadger:
	default:
		return fmt.Errorf("store.backend must be one of file, sqlite, badger; got %q", c.Store.Backend)
	}
	switch c.Log.Encoding {
	case logger.ConsoleEncoding, logger.JSONEncoding:
	default:
		return fmt.Errorf("log.encoding must be console or json; got %q", c.Log.Encoding)
	}
	if c.Store.ConnectAttempts < 1 {
		return fmt.Errorf("store.connect_attempts must be >= 1")
	}
	return nil
}
