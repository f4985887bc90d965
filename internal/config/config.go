// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr            string        `mapstructure:"addr"`
		OpsAddr         string        `mapstructure:"ops_addr"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		CORSOrigins     []string      `mapstructure:"cors_origins"`
		RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
		RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
	} `mapstructure:"server"`
	Database struct {
		URL          string `mapstructure:"url"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
	} `mapstructure:"database"`
	Auth struct {
		// Provider is one of "supabase", "oidc" or "jwt".
		Provider     string        `mapstructure:"provider"`
		URL          string        `mapstructure:"url"`
		ServiceKey   string        `mapstructure:"service_key"`
		IssuerURL    string        `mapstructure:"issuer_url"`
		JWKSURL      string        `mapstructure:"jwks_url"`
		Audience     string        `mapstructure:"audience"`
		JWTSecret    string        `mapstructure:"jwt_secret"`
		Timeout      time.Duration `mapstructure:"timeout"`
		LogDecisions bool          `mapstructure:"log_decisions"`
	} `mapstructure:"auth"`
	Maintenance struct {
		// Store is "memory" (process-local) or "redis" (shared).
		Store    string `mapstructure:"store"`
		RedisURL string `mapstructure:"redis_url"`
		RedisKey string `mapstructure:"redis_key"`
	} `mapstructure:"maintenance"`
	Moderation struct {
		Enabled bool          `mapstructure:"enabled"`
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"moderation"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Telemetry struct {
		Enabled     bool   `mapstructure:"enabled"`
		ServiceName string `mapstructure:"service_name"`
		Endpoint    string `mapstructure:"endpoint"`
		Insecure    bool   `mapstructure:"insecure"`
	} `mapstructure:"telemetry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.ops_addr", "127.0.0.1:9090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.rate_limit_rps", 50.0)
	v.SetDefault("server.rate_limit_burst", 100)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.provider", "supabase")
	v.SetDefault("auth.timeout", 5*time.Second)

	v.SetDefault("maintenance.store", "memory")
	v.SetDefault("maintenance.redis_key", "martyrs:maintenance")

	v.SetDefault("moderation.url", "http://localhost:5000/classify")
	v.SetDefault("moderation.timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("telemetry.service_name", "martyrs-api")
}

// Load reads config.yaml from the working directory (or its parent) and
// applies environment overrides.
func Load() (Config, error) {
	return LoadFrom(viper.New(), ".", "..")
}

// LoadFrom is Load with an explicit viper instance and search paths.
func LoadFrom(v *viper.Viper, paths ...string) (Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// explicit bindings
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("auth.url", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL")
	_ = v.BindEnv("auth.service_key", "SUPABASE_SERVICE_ROLE_KEY")
	_ = v.BindEnv("auth.provider", "AUTH_PROVIDER")
	_ = v.BindEnv("auth.issuer_url", "AUTH_ISSUER_URL")
	_ = v.BindEnv("auth.jwks_url", "AUTH_JWKS_URL")
	_ = v.BindEnv("auth.audience", "AUTH_AUDIENCE")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("maintenance.redis_url", "REDIS_URL")
	_ = v.BindEnv("moderation.url", "CONTENT_FILTER_URL")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if port := strings.TrimSpace(v.GetString("port")); port != "" {
		c.Server.Addr = ":" + port
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("config error: database.url/DATABASE_URL required")
	}
	switch c.Auth.Provider {
	case "supabase":
		if c.Auth.URL == "" || c.Auth.ServiceKey == "" {
			return errors.New("config error: auth.url and auth.service_key required for supabase provider")
		}
	case "oidc":
		if c.Auth.IssuerURL == "" && c.Auth.JWKSURL == "" {
			return errors.New("config error: auth.issuer_url or auth.jwks_url required for oidc provider")
		}
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return errors.New("config error: auth.jwt_secret required for jwt provider")
		}
	default:
		return fmt.Errorf("config error: unknown auth.provider %q", c.Auth.Provider)
	}
	switch c.Maintenance.Store {
	case "memory":
	case "redis":
		if c.Maintenance.RedisURL == "" {
			return errors.New("config error: maintenance.redis_url/REDIS_URL required for redis store")
		}
	default:
		return fmt.Errorf("config error: unknown maintenance.store %q", c.Maintenance.Store)
	}
	return nil
}
