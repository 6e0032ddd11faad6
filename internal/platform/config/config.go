// Package config loads server configuration from flags, environment, and an
// optional config file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// envPrefix namespaces environment variables (RESIDENCY_ADDR, RESIDENCY_REDIS_URL, ...).
const envPrefix = "RESIDENCY"

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string `mapstructure:"addr"`
	Environment   string `mapstructure:"environment"`
	LogLevel      string `mapstructure:"log_level"`
	JWTSigningKey string `mapstructure:"jwt_signing_key"`
	AdminToken    string `mapstructure:"admin_token"`

	Storage      StorageConfig      `mapstructure:"storage"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Verification VerificationConfig `mapstructure:"verification"`
	Zipcodes     ZipcodeConfig      `mapstructure:"zipcodes"`
}

// StorageConfig selects where citizens and document bindings live.
// Citizens follow Backend except for redis, which only backs the document index.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	DatabaseURL string `mapstructure:"database_url"`
	Migrate     bool   `mapstructure:"migrate"`
}

// RedisConfig configures the shared document index.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig configures the outcome dispatcher. Without brokers, outcomes
// are only logged.
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	MailTopic     string   `mapstructure:"mail_topic"`
	VerifiedTopic string   `mapstructure:"verified_topic"`
	CreateTopics  bool     `mapstructure:"create_topics"`
}

// VerificationConfig holds the eligibility rules passed into the engine.
type VerificationConfig struct {
	MinimumAge    int      `mapstructure:"minimum_age"`
	DocumentTypes []string `mapstructure:"document_types"`
}

// ZipcodeConfig lists the sources merged into the zipcode registry at startup.
type ZipcodeConfig struct {
	Codes        []string `mapstructure:"codes"`
	SeedFile     string   `mapstructure:"seed_file"`
	FromDatabase bool     `mapstructure:"from_database"`
}

// IsProduction reports whether the server runs in production mode.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("jwt_signing_key", "dev-secret-key-change-in-production")
	v.SetDefault("admin_token", "")

	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.migrate", true)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.mail_topic", "residency.security-code-mail")
	v.SetDefault("kafka.verified_topic", "residency.citizen-verified")
	v.SetDefault("kafka.create_topics", false)

	v.SetDefault("verification.minimum_age", 16)
	v.SetDefault("verification.document_types", []string{"national_id", "passport", "residence_permit"})

	v.SetDefault("zipcodes.codes", []string{})
	v.SetDefault("zipcodes.seed_file", "")
	v.SetDefault("zipcodes.from_database", false)
}

// Flags declares the command-line flags that override configuration.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("residency", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML/TOML/JSON config file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("storage-backend", BackendMemory, "storage backend (memory, postgres, redis)")
	fs.String("zipcodes-seed-file", "", "YAML file of eligible postal codes")
	fs.Int("minimum-age", 16, "minimum age to verify a residency")
	return fs
}

// Load builds the server configuration. Precedence: flags, environment,
// config file, defaults.
func Load(args []string) (Server, error) {
	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return Server{}, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := [][2]string{
		{"addr", "addr"},
		{"log_level", "log-level"},
		{"storage.backend", "storage-backend"},
		{"zipcodes.seed_file", "zipcodes-seed-file"},
		{"verification.minimum_age", "minimum-age"},
	}
	for _, b := range bindings {
		if err := v.BindPFlag(b[0], fs.Lookup(b[1])); err != nil {
			return Server{}, fmt.Errorf("bind flag %s: %w", b[1], err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Server{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (s Server) Validate() error {
	if s.Addr == "" {
		return errors.New("config: addr must be set")
	}
	switch s.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if s.Storage.DatabaseURL == "" {
			return errors.New("config: storage.database_url is required for the postgres backend")
		}
	case BackendRedis:
		if s.Redis.URL == "" {
			return errors.New("config: redis.url is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", s.Storage.Backend)
	}
	if s.Zipcodes.FromDatabase && s.Storage.DatabaseURL == "" {
		return errors.New("config: zipcodes.from_database requires storage.database_url")
	}
	if s.Verification.MinimumAge <= 0 {
		return errors.New("config: verification.minimum_age must be positive")
	}
	if len(s.Verification.DocumentTypes) == 0 {
		return errors.New("config: verification.document_types must not be empty")
	}
	if s.IsProduction() && s.JWTSigningKey == "dev-secret-key-change-in-production" {
		return errors.New("config: jwt_signing_key must be overridden in production")
	}
	return nil
}
