package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Transfer  TransferConfig  `mapstructure:"transfer"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`      // empty = event publishing disabled
	Exchange string `mapstructure:"exchange"` // durable topic exchange for ledger events
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// TransferConfig tunes the transfer orchestration engine.
type TransferConfig struct {
	// LockTTL bounds the blast radius of a crashed lock holder. Held across
	// the provider call, so it must exceed the provider timeout.
	LockTTL time.Duration `mapstructure:"lock_ttl"`
	// CodeTTL is the lifetime of a one-time transfer validation code.
	CodeTTL time.Duration `mapstructure:"code_ttl"`
	// FeePercent is the external-transfer fee as a percentage (0.5 = 0.5%).
	FeePercent string `mapstructure:"fee_percent"`
	// FeeCap caps the percentage fee, in major currency units.
	FeeCap string `mapstructure:"fee_cap"`
	// DefaultDailyLimit is the per-account daily transaction count limit
	// applied at provisioning.
	DefaultDailyLimit int `mapstructure:"default_daily_limit"`
}

// ProviderConfig holds credentials for one external provider.
type ProviderConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	SecretKey     string        `mapstructure:"secret_key"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type ProvidersConfig struct {
	// Default is the provider new accounts are provisioned on.
	Default     string         `mapstructure:"default"`
	Paystack    ProviderConfig `mapstructure:"paystack"`
	Flutterwave ProviderConfig `mapstructure:"flutterwave"`
	Fincra      ProviderConfig `mapstructure:"fincra"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: DWB_ (Digital Wallet
// Backend). Nested keys use underscore: DWB_DATABASE_HOST, DWB_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "digital_wallet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "ledger_events")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "digital-wallet-backend")
	v.SetDefault("transfer.lock_ttl", "30s")
	v.SetDefault("transfer.code_ttl", "10m")
	v.SetDefault("transfer.fee_percent", "0.5")
	v.SetDefault("transfer.fee_cap", "100")
	v.SetDefault("transfer.default_daily_limit", 20)
	v.SetDefault("providers.default", "paystack")
	v.SetDefault("providers.paystack.base_url", "https://api.paystack.co")
	v.SetDefault("providers.paystack.timeout", "30s")
	v.SetDefault("providers.flutterwave.base_url", "https://api.flutterwave.com/v3")
	v.SetDefault("providers.flutterwave.timeout", "30s")
	v.SetDefault("providers.fincra.base_url", "https://api.fincra.com")
	v.SetDefault("providers.fincra.timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: DWB_DATABASE_HOST -> database.host
	v.SetEnvPrefix("DWB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
