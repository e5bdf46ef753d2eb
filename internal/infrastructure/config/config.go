package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration tree.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Lockout   LockoutConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Notify    NotifyConfig
	Telemetry TelemetryConfig
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds service identity and listen settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds PostgreSQL connection and pool settings. Lifetime
// values are minutes.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
}

// LockoutConfig controls login brute force lockout.
type LockoutConfig struct {
	MaxFailedAttempts int
	LockDuration      time.Duration
}

// HTTPConfig holds server timeouts, body limits, rate limiting and CORS.
// The auth rate limit applies only to the login and refresh endpoints and is
// stricter than the global one.
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// NotifyConfig controls the realtime websocket hub.
type NotifyConfig struct {
	Enabled         bool
	ClientBufferLen int // outbound frames buffered per client before it is dropped
	WriteTimeout    time.Duration
	PingInterval    time.Duration
}

// TelemetryConfig controls tracing, metrics, OTLP log export and continuous
// profiling. Everything is off unless explicitly enabled.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0 to 1.0
	ServiceName       string
	Insecure          bool // plaintext collector connection, development only

	DBTraceEnabled    bool
	DBLogFullSQL      bool // never in production, SQL may carry lead PII
	DBSlowQueryThresh time.Duration
	DBMetricsEnabled  bool

	LogsEnabled bool

	ProfilingEnabled       bool
	ProfilingServerAddress string // e.g. "http://pyroscope:4040"
}

// Load reads configuration in priority order: CRM_ prefixed environment
// variables override config.toml, which overrides built-in defaults. A zero
// or empty value counts as unset and falls back to the default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, env vars and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
		},
		Lockout: LockoutConfig{
			MaxFailedAttempts: v.GetInt("lockout.max_failed_attempts"),
			LockDuration:      v.GetDuration("lockout.lock_duration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Notify: NotifyConfig{
			Enabled:         v.GetBool("notify.enabled"),
			ClientBufferLen: v.GetInt("notify.client_buffer_len"),
			WriteTimeout:    v.GetDuration("notify.write_timeout"),
			PingInterval:    v.GetDuration("notify.ping_interval"),
		},
		Telemetry: TelemetryConfig{
			Enabled:                v.GetBool("telemetry.enabled"),
			CollectorEndpoint:      v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:          v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:            v.GetString("telemetry.service_name"),
			Insecure:               v.GetBool("telemetry.insecure"),
			DBTraceEnabled:         v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:           v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh:      v.GetDuration("telemetry.db_slow_query_threshold"),
			DBMetricsEnabled:       v.GetBool("telemetry.db_metrics_enabled"),
			LogsEnabled:            v.GetBool("telemetry.logs_enabled"),
			ProfilingEnabled:       v.GetBool("telemetry.profiling_enabled"),
			ProfilingServerAddress: v.GetString("telemetry.profiling_server_address"),
		},
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func orString(target *string, def string) {
	if *target == "" {
		*target = def
	}
}

func orInt(target *int, def int) {
	if *target == 0 {
		*target = def
	}
}

func orDuration(target *time.Duration, def time.Duration) {
	if *target == 0 {
		*target = def
	}
}

func (c *Config) applyDefaults() {
	orString(&c.App.Name, "callcrm-backend")
	orString(&c.App.Env, "development")
	orString(&c.App.Port, "8080")

	orString(&c.Database.Host, "localhost")
	orInt(&c.Database.Port, 5432)
	orString(&c.Database.User, "postgres")
	orString(&c.Database.DBName, "callcrm")
	orString(&c.Database.SSLMode, "disable")
	orInt(&c.Database.MaxOpenConns, 25)
	orInt(&c.Database.MaxIdleConns, 5)
	orInt(&c.Database.ConnMaxLifetime, 60)
	orInt(&c.Database.ConnMaxIdleTime, 30)

	orString(&c.Redis.Host, "localhost")
	orInt(&c.Redis.Port, 6379)

	orDuration(&c.JWT.AccessTokenExpiration, 15*time.Minute)
	orDuration(&c.JWT.RefreshTokenExpiration, 168*time.Hour)
	orString(&c.JWT.Issuer, "callcrm-backend")

	orInt(&c.Lockout.MaxFailedAttempts, 5)
	orDuration(&c.Lockout.LockDuration, 30*time.Minute)

	orString(&c.Log.Level, "info")
	orString(&c.Log.Format, "console")
	orString(&c.Log.Output, "stdout")

	orDuration(&c.HTTP.ReadTimeout, 15*time.Second)
	orDuration(&c.HTTP.WriteTimeout, 15*time.Second)
	orDuration(&c.HTTP.IdleTimeout, 60*time.Second)
	orInt(&c.HTTP.MaxHeaderBytes, 1<<20)
	if c.HTTP.MaxBodySize == 0 {
		c.HTTP.MaxBodySize = 10 << 20
	}
	orInt(&c.HTTP.RateLimitRequests, 100)
	orDuration(&c.HTTP.RateLimitWindow, time.Minute)
	orInt(&c.HTTP.AuthRateLimitRequests, 5)
	orDuration(&c.HTTP.AuthRateLimitWindow, time.Minute)
	// No default CORS origins. An empty list rejects all cross-origin
	// requests until origins are configured explicitly.
	if len(c.HTTP.CORSAllowMethods) == 0 {
		c.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(c.HTTP.CORSAllowHeaders) == 0 {
		c.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	orInt(&c.Notify.ClientBufferLen, 64)
	orDuration(&c.Notify.WriteTimeout, 10*time.Second)
	orDuration(&c.Notify.PingInterval, 30*time.Second)

	orString(&c.Telemetry.CollectorEndpoint, "localhost:4317")
	if c.Telemetry.SamplingRatio == 0 {
		c.Telemetry.SamplingRatio = 1.0
	}
	orString(&c.Telemetry.ServiceName, "callcrm-backend")
	orDuration(&c.Telemetry.DBSlowQueryThresh, 200*time.Millisecond)
	orString(&c.Telemetry.ProfilingServerAddress, "http://localhost:4040")
}

func (c *Config) validate() error {
	if err := c.Database.validatePool(); err != nil {
		return err
	}
	if c.Lockout.MaxFailedAttempts < 1 {
		return fmt.Errorf("lockout.max_failed_attempts must be at least 1")
	}
	if c.App.Env == "production" {
		if err := c.validateProduction(); err != nil {
			return err
		}
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

func (d *DatabaseConfig) validatePool() error {
	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if d.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	if c.Telemetry.DBLogFullSQL {
		return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
	}
	return nil
}

// DSN builds the PostgreSQL connection URL, escaping the credentials.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
