package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only accepted when APP_ENV is development or test.
const DefaultJWTSecret = "yard-staffing-dev-secret-change-me"

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside development and test environments")

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Staffing StaffingConfig `mapstructure:"staffing"`
}

type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
	Issuer      string `mapstructure:"issuer"`
	Audience    string `mapstructure:"audience"`

	// UsingFallback is set when Secret was filled from DefaultJWTSecret.
	UsingFallback bool `mapstructure:"-"`
}

type AuthConfig struct {
	// HashScheme selects the digest used for new passwords: "sha256" or "bcrypt".
	HashScheme string `mapstructure:"hash_scheme"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type StaffingConfig struct {
	L2 float64 `mapstructure:"l2"`
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// envBindings maps config keys to the environment variables that feed them.
var envBindings = map[string]string{
	"env":                     "APP_ENV",
	"server.port":             "SERVER_PORT",
	"server.gin_mode":         "GIN_MODE",
	"database.host":           "DB_HOST",
	"database.port":           "DB_PORT",
	"database.user":           "DB_USER",
	"database.password":       "DB_PASSWORD",
	"database.name":           "DB_NAME",
	"database.sslmode":        "DB_SSLMODE",
	"database.max_open_conns": "DB_MAX_OPEN_CONNS",
	"jwt.secret":              "JWT_SECRET",
	"jwt.expiry_hours":        "JWT_EXPIRY_HOURS",
	"jwt.issuer":              "JWT_ISSUER",
	"jwt.audience":            "JWT_AUDIENCE",
	"auth.hash_scheme":        "AUTH_HASH_SCHEME",
	"redis.host":              "REDIS_HOST",
	"redis.port":              "REDIS_PORT",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"cors.allowed_origins":    "CORS_ALLOWED_ORIGINS",
	"log.level":               "LOG_LEVEL",
	"log.format":              "LOG_FORMAT",
	"seed.enabled":            "SEED_DATA",
	"staffing.l2":             "STAFFING_L2",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "yards")
	v.SetDefault("database.password", "yards_dev_password")
	v.SetDefault("database.name", "yards")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry_hours", 8)
	v.SetDefault("jwt.issuer", "yard-staffing-api")
	v.SetDefault("jwt.audience", "yard-staffing-clients")
	v.SetDefault("auth.hash_scheme", "sha256")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("seed.enabled", true)
	v.SetDefault("staffing.l2", 0.1)
}

// LoadConfig reads configuration from the environment, optionally primed
// from a .env file in the working directory.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // optional file

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.Auth.HashScheme = strings.ToLower(strings.TrimSpace(c.Auth.HashScheme))

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRY_HOURS: %d", c.JWT.ExpiryHours)
	}
	switch c.Auth.HashScheme {
	case "sha256", "bcrypt":
	default:
		return fmt.Errorf("invalid AUTH_HASH_SCHEME %q: want sha256 or bcrypt", c.Auth.HashScheme)
	}
	if c.Staffing.L2 <= 0 {
		return fmt.Errorf("invalid STAFFING_L2: %v, must be positive", c.Staffing.L2)
	}

	if strings.TrimSpace(c.JWT.Secret) == "" {
		if !c.IsDevelopment() {
			return ErrMissingJWTSecret
		}
		c.JWT.Secret = DefaultJWTSecret
		c.JWT.UsingFallback = true
	}
	return nil
}
