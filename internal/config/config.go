package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/d0ughnat/Fruad-detection/internal/token"
)

const (
	defaultAppName        = "FraudDetection"
	defaultAppEnv         = EnvDevelopment
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultSessionTTL     = 7 * 24 * time.Hour
	defaultClassifierTTL  = 30 * time.Second
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config captures application runtime configuration.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	RedisURL       string
	SessionStore   string
	DashboardStore string
	JWTSecret      string
	SessionTTL     time.Duration
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	AutoMigrate    bool
	WebRoot        string
	Classifier     ClassifierConfig
}

// ClassifierConfig configures the text-classification client.
type ClassifierConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", defaultAppName)
	v.SetDefault("APP_ENV", defaultAppEnv)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("LOG_FORMAT", defaultLogFormat)
	v.SetDefault("SESSION_TTL", defaultSessionTTL)
	v.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdownDelay)
	v.SetDefault("IDEMPOTENCY_TTL", defaultIdempotencyTTL)
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("CLASSIFIER_TIMEOUT", defaultClassifierTTL)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
	}
	return v, nil
}

// Read loads configuration without enforcing server-only requirements.
// The operator CLI uses it directly.
func Read() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:        v.GetString("APP_NAME"),
		AppEnv:         strings.ToLower(v.GetString("APP_ENV")),
		Port:           v.GetString("PORT"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:      strings.ToLower(v.GetString("LOG_FORMAT")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		SessionStore:   strings.ToLower(v.GetString("SESSION_STORE")),
		DashboardStore: strings.ToLower(v.GetString("DASHBOARD_STORE")),
		JWTSecret:      v.GetString("JWT_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		ShutdownPeriod: v.GetDuration("SHUTDOWN_TIMEOUT"),
		IdempotencyTTL: v.GetDuration("IDEMPOTENCY_TTL"),
		AutoMigrate:    v.GetBool("AUTO_MIGRATE"),
		WebRoot:        v.GetString("WEB_ROOT"),
		Classifier: ClassifierConfig{
			APIKey:   v.GetString("CLASSIFIER_API_KEY"),
			Model:    v.GetString("CLASSIFIER_MODEL"),
			Endpoint: v.GetString("CLASSIFIER_ENDPOINT"),
			Timeout:  v.GetDuration("CLASSIFIER_TIMEOUT"),
		},
	}
	if cfg.SessionStore == "" {
		cfg.SessionStore = cfg.defaultBackend()
	}
	if cfg.DashboardStore == "" {
		cfg.DashboardStore = cfg.defaultBackend()
	}
	return cfg, nil
}

// Load reads configuration and validates it for serving. A missing or weak
// signing secret yields a *token.ConfigurationError.
func Load() (Config, error) {
	cfg, err := Read()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the API server needs.
func (c Config) Validate() error {
	if err := token.ValidateSecret(c.JWTSecret); err != nil {
		return err
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if !c.IsDev() && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	for name, backend := range map[string]string{"SESSION_STORE": c.SessionStore, "DASHBOARD_STORE": c.DashboardStore} {
		switch backend {
		case BackendPostgres:
			if c.DatabaseURL == "" {
				return fmt.Errorf("%s=postgres requires DATABASE_URL", name)
			}
		case BackendRedis:
			if c.RedisURL == "" {
				return fmt.Errorf("%s=redis requires REDIS_URL", name)
			}
		case BackendMemory:
			if c.AppEnv == EnvProduction {
				return fmt.Errorf("%s=memory is not allowed in production", name)
			}
		default:
			return fmt.Errorf("invalid %s %q", name, backend)
		}
	}
	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the process runs in development or test mode.
func (c Config) IsDev() bool {
	return c.AppEnv == EnvDevelopment || c.AppEnv == EnvTest
}

// CookieSecure reports whether session cookies carry the Secure attribute.
func (c Config) CookieSecure() bool {
	return c.AppEnv == EnvProduction
}

func (c Config) defaultBackend() string {
	if c.DatabaseURL != "" {
		return BackendPostgres
	}
	return BackendMemory
}
