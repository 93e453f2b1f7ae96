package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds     int    `mapstructure:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
	AcceptedOrigins        string `mapstructure:"accepted_origins"`
	MaxBodyBytes           int64  `mapstructure:"max_body_bytes"`

	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	URL             string `mapstructure:"url"`
	ReplicaURLs     string `mapstructure:"replica_urls"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	LogLevel        string `mapstructure:"log_level"`
	SlowThresholdMs int    `mapstructure:"slow_threshold_ms"`
}

type LogConfig struct {
	Level    string         `mapstructure:"level"`
	JSON     bool           `mapstructure:"json"`
	NoColor  bool           `mapstructure:"no_color"`
	File     string         `mapstructure:"file"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

func Default() Config {
	return Config{
		Host:                   "0.0.0.0", // Bind to 0.0.0.0 for external access
		Port:                   8080,
		ReadTimeoutSeconds:     30,
		WriteTimeoutSeconds:    30,
		IdleTimeoutSeconds:     120,
		ShutdownTimeoutSeconds: 30,
		AcceptedOrigins:        "*",
		MaxBodyBytes:           1 << 20,

		Database: DatabaseConfig{
			Driver:          "sqlite",
			URL:             "blog.db",
			MaxOpenConns:    10,
			LogLevel:        "warn",
			SlowThresholdMs: 200,
		},

		Log: LogConfig{
			Level: "info",
			Rotation: RotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
			},
		},
	}
}

// Load reads .env files, an optional config file and the environment, in increasing priority.
// Nested keys map to underscored env names: database.url <- DATABASE_URL.
func Load(path string) (Config, error) {
	for _, envFile := range []string{".env", ".env.local"} {
		// missing .env files are fine
		_ = godotenv.Load(envFile)
	}

	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("read_timeout_seconds", d.ReadTimeoutSeconds)
	v.SetDefault("write_timeout_seconds", d.WriteTimeoutSeconds)
	v.SetDefault("idle_timeout_seconds", d.IdleTimeoutSeconds)
	v.SetDefault("shutdown_timeout_seconds", d.ShutdownTimeoutSeconds)
	v.SetDefault("accepted_origins", d.AcceptedOrigins)
	v.SetDefault("max_body_bytes", d.MaxBodyBytes)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.replica_urls", d.Database.ReplicaURLs)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.log_level", d.Database.LogLevel)
	v.SetDefault("database.slow_threshold_ms", d.Database.SlowThresholdMs)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.no_color", d.Log.NoColor)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.rotation.max_size", d.Log.Rotation.MaxSize)
	v.SetDefault("log.rotation.max_backups", d.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age", d.Log.Rotation.MaxAge)
	v.SetDefault("log.rotation.compress", d.Log.Rotation.Compress)
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Origins returns the CORS allow-list. An empty setting allows every origin.
func (c Config) Origins() []string {
	return splitList(c.AcceptedOrigins, "*")
}

// Replicas returns the read replica DSNs, if any
func (d DatabaseConfig) Replicas() []string {
	return splitList(d.ReplicaURLs)
}

func (d DatabaseConfig) SlowThreshold() time.Duration {
	return time.Duration(d.SlowThresholdMs) * time.Millisecond
}

// assumes entries are comma separated
func splitList(raw string, fallback ...string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
