// Package config loads server settings from defaults, an optional config
// file and MEDIA_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stevemurr/media-library/store"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// S3 settings. Leave the keys empty to use the default AWS credentials chain.
type S3 struct {
	Bucket          string `mapstructure:"bucket"`
	Key             string `mapstructure:"key"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	PathStyle       bool   `mapstructure:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DataDir         string        `mapstructure:"data_dir"`
	StoreBackend    string        `mapstructure:"store_backend"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	PostgresDSN     string        `mapstructure:"postgres_dsn"`
	S3              S3            `mapstructure:"s3"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		DataDir:         DefaultDataDir,
		StoreBackend:    DefaultStoreBackend,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
		LogFormat:       "json",
		S3:              S3{Key: store.FileName, Region: "us-east-1"},
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

func newViper() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("store_backend", d.StoreBackend)
	v.SetDefault("allowed_origins", strings.Join(d.AllowedOrigins, ","))
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("postgres_dsn", d.PostgresDSN)
	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.key", d.S3.Key)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.path_style", d.S3.PathStyle)
	v.SetDefault("s3.access_key_id", d.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", d.S3.SecretAccessKey)
	v.SetDefault("read_timeout", d.ReadTimeout)
	v.SetDefault("write_timeout", d.WriteTimeout)
	v.SetDefault("idle_timeout", d.IdleTimeout)
	v.SetDefault("shutdown_timeout", d.ShutdownTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, if path is not empty, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return unmarshal(v)
}

// LoadReader is Load for in-memory content of the given format ("yaml",
// "json", "toml", ...).
func LoadReader(r io.Reader, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma-separated entries, which is how lists arrive
// from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) validate() error {
	if !slices.Contains(store.Backends, c.StoreBackend) {
		return fmt.Errorf("store_backend: unknown backend %q (supported: %s)", c.StoreBackend, strings.Join(store.Backends, ", "))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format: invalid format %q, expected json or text", c.LogFormat)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port: %d out of range", c.Port)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreOptions maps the config onto the store factory options.
func (c *Config) StoreOptions(logger *slog.Logger) store.Options {
	return store.Options{
		DataDir:     c.DataDir,
		PostgresDSN: c.PostgresDSN,
		S3: store.S3Config{
			Bucket:          c.S3.Bucket,
			Key:             c.S3.Key,
			Region:          c.S3.Region,
			Endpoint:        c.S3.Endpoint,
			PathStyle:       c.S3.PathStyle,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
		},
		Logger: logger,
	}
}
