package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMATCH_REASONING_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	Reasoning     ReasoningConfig     `mapstructure:"reasoning"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ReasoningConfig holds the reasoning service configuration
type ReasoningConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"baseUrl"`
	APIKey      string        `mapstructure:"apiKey"`
	MaxTokens   int           `mapstructure:"maxTokens"`
	Temperature float32       `mapstructure:"temperature"`
	TopP        float32       `mapstructure:"topP"`
	Timeout     time.Duration `mapstructure:"timeout"`

	// MaxAttempts counts transport invocations, not retries: 3 means
	// one initial call plus up to two retries.
	MaxAttempts int             `mapstructure:"maxAttempts"`
	Backoff     []time.Duration `mapstructure:"backoff"`

	// RetryAfterDefault is reported to callers on HTTP 429 when the
	// service omits a Retry-After header.
	RetryAfterDefault time.Duration `mapstructure:"retryAfterDefault"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string          `mapstructure:"host"`
	Port         string          `mapstructure:"port"`
	ReadTimeout  time.Duration   `mapstructure:"readTimeout"`
	WriteTimeout time.Duration   `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration   `mapstructure:"idleTimeout"`
	TLS          TLSConfig       `mapstructure:"tls"`
	APIKeys      []string        `mapstructure:"apiKeys"`
	RateLimit    RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS configuration for the HTTP server
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // disabled, server, mutual
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`

	// Content-based certificates, e.g. loaded from Vault
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion         string           `mapstructure:"minVersion"`
	CipherSuites       []string         `mapstructure:"cipherSuites"`
	ClientAuthPolicy   string           `mapstructure:"clientAuthPolicy"` // require, request, verify
	InsecureSkipVerify bool             `mapstructure:"insecureSkipVerify"`
	ServerName         string           `mapstructure:"serverName"`
	AutoReload         AutoReloadConfig `mapstructure:"autoReload"`
}

// AutoReloadConfig holds certificate auto-reload configuration
type AutoReloadConfig struct {
	Enabled       bool              `mapstructure:"enabled"`
	CheckInterval time.Duration     `mapstructure:"checkInterval"`
	FileWatcher   FileWatcherConfig `mapstructure:"fileWatcher"`
}

// FileWatcherConfig holds file watcher configuration for certificate reloads
type FileWatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
	TrackTokenUsage    bool          `mapstructure:"trackTokenUsage"`
	TrackScores        bool          `mapstructure:"trackScores"`
}

// ConsoleConfig holds console trace exporter configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus exporter configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig loads configuration from files, environment variables and
// defaults. Precedence from highest to lowest: Vault secrets, environment
// variables, config file, defaults. A .env file in the working directory
// is loaded into the process environment first if present.
func LoadConfig() (*Config, error) {
	// A missing .env file is the normal case
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.resumatch")
	v.AddConfigPath("/etc/resumatch")

	v.SetEnvPrefix("RESUMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file found, continue with defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config.logConfigurationSources(v.ConfigFileUsed())

	return &config, nil
}

// WatchConfig invokes onChange whenever the config file used by v changes
// on disk. Thin wrapper over viper's fsnotify watcher; callers that loaded
// config purely from env vars get no events.
func WatchConfig(v *viper.Viper, onChange func(fsnotify.Event)) {
	v.OnConfigChange(onChange)
	v.WatchConfig()
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := c.validateReasoningConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateAppConfig(); err != nil {
		return err
	}
	return c.ValidateTLSConfig()
}

func (c *Config) validateReasoningConfig() error {
	r := c.Reasoning

	switch r.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported reasoning provider: %s (must be 'openai' or 'gemini')", r.Provider)
	}

	if r.Provider == "openai" && r.BaseURL == "" {
		return fmt.Errorf("reasoning.baseUrl is required for the openai provider")
	}
	if r.Model == "" {
		return fmt.Errorf("reasoning.model is required")
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("reasoning.timeout must be positive, got %v", r.Timeout)
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("reasoning.maxAttempts must be at least 1, got %d", r.MaxAttempts)
	}
	if len(r.Backoff) == 0 {
		return fmt.Errorf("reasoning.backoff must contain at least one delay")
	}
	for i, d := range r.Backoff {
		if d <= 0 {
			return fmt.Errorf("reasoning.backoff[%d] must be positive, got %v", i, d)
		}
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return fmt.Errorf("reasoning.temperature must be between 0 and 2, got %v", r.Temperature)
	}
	if r.TopP < 0 || r.TopP > 1 {
		return fmt.Errorf("reasoning.topP must be between 0 and 1, got %v", r.TopP)
	}
	if r.MaxTokens <= 0 {
		return fmt.Errorf("reasoning.maxTokens must be positive, got %d", r.MaxTokens)
	}

	cb := r.CircuitBreaker
	if cb.Enabled {
		if cb.FailureThreshold < 0 || cb.FailureThreshold > 1 {
			return fmt.Errorf("reasoning.circuitBreaker.failureThreshold must be between 0 and 1, got %v", cb.FailureThreshold)
		}
		if cb.MinRequests == 0 {
			return fmt.Errorf("reasoning.circuitBreaker.minRequests must be at least 1")
		}
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	rl := c.Server.RateLimit
	if rl.Enabled {
		if rl.RequestsPerMin <= 0 {
			return fmt.Errorf("server.rateLimit.requestsPerMin must be positive, got %d", rl.RequestsPerMin)
		}
		if rl.BurstCapacity <= 0 {
			return fmt.Errorf("server.rateLimit.burstCapacity must be positive, got %d", rl.BurstCapacity)
		}
		if !rl.ByIP && !rl.ByAPIKey {
			return fmt.Errorf("server.rateLimit requires at least one of byIP or byAPIKey")
		}
	}
	return nil
}

func (c *Config) validateAppConfig() error {
	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid app.logLevel: %s (must be 'debug', 'info', 'warn' or 'error')", c.App.LogLevel)
	}

	supported := false
	for _, f := range c.App.SupportedFormats {
		if f == c.App.DefaultFormat {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("app.defaultFormat %q is not in app.supportedFormats %v", c.App.DefaultFormat, c.App.SupportedFormats)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("app.maxFileSize must be positive, got %d", c.App.MaxFileSize)
	}
	return nil
}
