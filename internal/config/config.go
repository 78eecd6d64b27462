// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Exchanges ExchangesConfig `mapstructure:"exchanges"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Network   NetworkConfig   `mapstructure:"network"`
	Advisory  AdvisoryConfig  `mapstructure:"advisory"`
	Poll      PollConfig      `mapstructure:"poll"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	DEX       DEXConfig       `mapstructure:"dex"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	HealthPort   int           `mapstructure:"health_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address for the API server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ExchangeEndpoint describes one exchange's public REST API.
type ExchangeEndpoint struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	APIKey            string        `mapstructure:"api_key"`
	APISecret         string        `mapstructure:"api_secret"`
}

// ExchangesConfig holds per-exchange endpoints.
type ExchangesConfig struct {
	MEXC     ExchangeEndpoint `mapstructure:"mexc"`
	Bitmart  ExchangeEndpoint `mapstructure:"bitmart"`
	GateIO   ExchangeEndpoint `mapstructure:"gateio"`
	Poloniex ExchangeEndpoint `mapstructure:"poloniex"`
	Binance  ExchangeEndpoint `mapstructure:"binance"`
	// QuoteTTL bounds how long a fetched price may be served from cache.
	QuoteTTL time.Duration `mapstructure:"quote_ttl"`
}

// CatalogConfig selects and configures the asset catalog store.
type CatalogConfig struct {
	Backend          string        `mapstructure:"backend"` // memory, postgres or redis
	PostgresDSN      string        `mapstructure:"postgres_dsn"`
	RedisAddr        string        `mapstructure:"redis_addr"`
	RedisPassword    string        `mapstructure:"redis_password"`
	RedisDB          int           `mapstructure:"redis_db"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
	ReconcileTimeout time.Duration `mapstructure:"reconcile_timeout"`
}

// NetworkConfig selects where deposit and withdrawal networks come from.
type NetworkConfig struct {
	Source      string        `mapstructure:"source"` // simulated or exchanges
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseBackoff time.Duration `mapstructure:"base_backoff"`
}

// AdvisoryConfig configures the commentary generator.
type AdvisoryConfig struct {
	Endpoint    string        `mapstructure:"endpoint"` // empty selects the rule-based generator
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseBackoff time.Duration `mapstructure:"base_backoff"`
	// RiskSpreadPercent is the net spread below which a positive route is only "risky".
	RiskSpreadPercent float64 `mapstructure:"risk_spread_percent"`
}

// RiskSpreadDecimal returns the risk threshold as decimal.Decimal.
func (c *AdvisoryConfig) RiskSpreadDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.RiskSpreadPercent)
}

// PollConfig describes the periodic evaluation route.
type PollConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Mode      int           `mapstructure:"mode"`
	AssetA    string        `mapstructure:"asset_a"`
	ExchangeA string        `mapstructure:"exchange_a"`
	FeeA      float64       `mapstructure:"fee_a"`
	AssetB    string        `mapstructure:"asset_b"`
	ExchangeB string        `mapstructure:"exchange_b"`
	FeeB      float64       `mapstructure:"fee_b"`
	Capital   float64       `mapstructure:"capital"`
	Advisory  bool          `mapstructure:"advisory"`
	TUIMode   bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// FeeADecimal returns the leg A fee percent as decimal.Decimal.
func (c *PollConfig) FeeADecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FeeA)
}

// FeeBDecimal returns the leg B fee percent as decimal.Decimal.
func (c *PollConfig) FeeBDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FeeB)
}

// CapitalDecimal returns the starting capital as decimal.Decimal.
func (c *PollConfig) CapitalDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Capital)
}

// ArchiveConfig configures the S3-compatible evaluation archive.
type ArchiveConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Endpoint       string `mapstructure:"endpoint"`
	Region         string `mapstructure:"region"`
	Bucket         string `mapstructure:"bucket"`
	Prefix         string `mapstructure:"prefix"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// DEXConfig configures the cross-chain route quote API.
type DEXConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Integrator string        `mapstructure:"integrator"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	// Tracing selects the span exporter: zipkin, otlp, console or none.
	Tracing        string `mapstructure:"tracing"`
	OTLPProtocol   string `mapstructure:"otlp_protocol"` // grpc or http/protobuf
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Server
	v.BindEnv("server.port", "ARB_SERVER_PORT", "PORT")
	v.BindEnv("server.health_port", "ARB_HEALTH_PORT")

	// Exchanges
	v.BindEnv("exchanges.mexc.api_key", "ARB_MEXC_API_KEY", "MEXC_API_KEY")
	v.BindEnv("exchanges.mexc.api_secret", "ARB_MEXC_API_SECRET", "MEXC_SECRET_KEY")

	// Catalog
	v.BindEnv("catalog.backend", "ARB_CATALOG_BACKEND")
	v.BindEnv("catalog.postgres_dsn", "ARB_POSTGRES_DSN", "DATABASE_URL")
	v.BindEnv("catalog.redis_addr", "ARB_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("catalog.redis_password", "ARB_REDIS_PASSWORD", "REDIS_PASSWORD")

	// Network
	v.BindEnv("network.source", "ARB_NETWORK_SOURCE")

	// Advisory
	v.BindEnv("advisory.endpoint", "ARB_ADVISORY_ENDPOINT")
	v.BindEnv("advisory.api_key", "ARB_ADVISORY_API_KEY", "ADVISORY_API_KEY")

	// Archive
	v.BindEnv("archive.enabled", "ARB_ARCHIVE_ENABLED")
	v.BindEnv("archive.endpoint", "ARB_S3_ENDPOINT", "S3_ENDPOINT")
	v.BindEnv("archive.bucket", "ARB_S3_BUCKET", "S3_BUCKET")
	v.BindEnv("archive.access_key", "ARB_S3_ACCESS_KEY", "AWS_ACCESS_KEY_ID")
	v.BindEnv("archive.secret_key", "ARB_S3_SECRET_KEY", "AWS_SECRET_ACCESS_KEY")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "ARB_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	v.BindEnv("telemetry.otlp_protocol", "ARB_OTEL_PROTOCOL", "OTEL_EXPORTER_OTLP_PROTOCOL")
	v.BindEnv("telemetry.tracing", "ARB_OTEL_TRACING")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "arbitrage-evaluator")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	// Exchange defaults
	v.SetDefault("exchanges.quote_ttl", "2s")
	exchangeDefaults := map[string]string{
		"mexc":     "https://api.mexc.com",
		"bitmart":  "https://api-cloud.bitmart.com",
		"gateio":   "https://api.gateio.ws",
		"poloniex": "https://api.poloniex.com",
		"binance":  "https://api.binance.com",
	}
	for name, url := range exchangeDefaults {
		v.SetDefault("exchanges."+name+".base_url", url)
		v.SetDefault("exchanges."+name+".timeout", "7s")
		v.SetDefault("exchanges."+name+".requests_per_minute", 600)
	}

	// Catalog defaults
	v.SetDefault("catalog.backend", "memory")
	v.SetDefault("catalog.redis_addr", "localhost:6379")
	v.SetDefault("catalog.lock_ttl", "5s")
	v.SetDefault("catalog.reconcile_timeout", "10s")

	// Network defaults
	v.SetDefault("network.source", "simulated")
	v.SetDefault("network.cache_ttl", "5m")
	v.SetDefault("network.max_attempts", 3)
	v.SetDefault("network.base_backoff", "1s")

	// Advisory defaults
	v.SetDefault("advisory.timeout", "30s")
	v.SetDefault("advisory.max_attempts", 3)
	v.SetDefault("advisory.base_backoff", "1s")
	v.SetDefault("advisory.risk_spread_percent", 0.5)

	// Poll defaults
	v.SetDefault("poll.enabled", false)
	v.SetDefault("poll.interval", "15s")
	v.SetDefault("poll.mode", 1)
	v.SetDefault("poll.asset_a", "JASMY")
	v.SetDefault("poll.exchange_a", "MEXC")
	v.SetDefault("poll.fee_a", 0.1)
	v.SetDefault("poll.asset_b", "JASMY")
	v.SetDefault("poll.exchange_b", "Gate.io")
	v.SetDefault("poll.fee_b", 0.2)
	v.SetDefault("poll.capital", 1000)
	v.SetDefault("poll.advisory", true)

	// Archive defaults
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.prefix", "evaluations")
	v.SetDefault("archive.force_path_style", true)

	// DEX defaults
	v.SetDefault("dex.base_url", "https://li.quest")
	v.SetDefault("dex.integrator", "jumper.exchange")
	v.SetDefault("dex.timeout", "15s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arbitrage-evaluator")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.tracing", "zipkin")
	v.SetDefault("telemetry.otlp_protocol", "grpc")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case "memory":
	case "postgres":
		if c.Catalog.PostgresDSN == "" {
			return fmt.Errorf("catalog.postgres_dsn is required for the postgres backend")
		}
	case "redis":
		if c.Catalog.RedisAddr == "" {
			return fmt.Errorf("catalog.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid catalog.backend: %s", c.Catalog.Backend)
	}

	if c.Network.Source != "simulated" && c.Network.Source != "exchanges" {
		return fmt.Errorf("invalid network.source: %s", c.Network.Source)
	}
	if c.Network.MaxAttempts < 1 {
		return fmt.Errorf("network.max_attempts must be at least 1")
	}
	if c.Advisory.MaxAttempts < 1 {
		return fmt.Errorf("advisory.max_attempts must be at least 1")
	}

	if c.Poll.Enabled {
		if c.Poll.Interval <= 0 {
			return fmt.Errorf("poll.interval must be positive")
		}
		if c.Poll.Mode < 1 || c.Poll.Mode > 3 {
			return fmt.Errorf("invalid poll.mode: %d", c.Poll.Mode)
		}
		if c.Poll.Capital <= 0 {
			return fmt.Errorf("poll.capital must be positive")
		}
	}

	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required when the archive is enabled")
	}
	return nil
}
