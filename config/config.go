package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Timesheet TimesheetConfig `mapstructure:"timesheet"`
	Feature   FeatureConfig   `mapstructure:"feature"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig selects and configures the relational store.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | mysql | sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	Path            string `mapstructure:"path"` // sqlite file
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		// multiStatements is required by the migration runner.
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=%s&multiStatements=true",
			c.User, c.Password, c.Host, c.Port, c.Name, url.QueryEscape(c.Timezone),
		)
	case DriverSQLite:
		return c.Path + "?_foreign_keys=on&_journal_mode=WAL"
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
		)
	}
}

// RedisConfig is optional; an empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig token and cookie settings.
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
	LoginRateLimit  int           `mapstructure:"login_rate_limit"` // requests per minute per IP
	Cookie          CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig refresh-token cookie settings.
type CookieConfig struct {
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
	Domain   string `mapstructure:"domain"`
}

// LogConfig logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TimesheetConfig holds the shop's fixed day layout.
type TimesheetConfig struct {
	TimeSlots []string `mapstructure:"time_slots"`
	Location  string   `mapstructure:"location"` // IANA zone for calendar export
}

// FeatureConfig feature switches.
type FeatureConfig struct {
	SelfRegistration bool `mapstructure:"self_registration"`
}

// DefaultTimeSlots is the shop's working day, in display order.
var DefaultTimeSlots = []string{
	"9:00-10:00",
	"10:00-11:00",
	"11:00-11:10",
	"11:10-12:00",
	"12:00-01:00",
	"01:00-01:40",
	"01:40-03:00",
	"03:00-03:50",
	"03:50-04:00",
	"04:00-05:00",
	"05:00-06:00",
	"06:00-07:00",
	"07:00-08:00",
}

// Load reads configuration from an optional .env file, a config file and
// the environment. Precedence: environment > config file > defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TIMESHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "timesheet")
	v.SetDefault("db.user", "timesheet")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Kolkata")
	v.SetDefault("db.path", "data/timesheet.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.auto_migrate", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Every key needs a default so AutomaticEnv can override it on Unmarshal.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "print-timesheet")
	v.SetDefault("auth.access_token_ttl", "8h")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")
	v.SetDefault("auth.cookie.domain", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("timesheet.time_slots", DefaultTimeSlots)
	v.SetDefault("timesheet.location", "Asia/Kolkata")

	v.SetDefault("feature.self_registration", true)
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	switch strings.ToLower(c.Auth.Cookie.SameSite) {
	case "", "lax", "strict":
	case "none":
		if !c.Auth.Cookie.Secure {
			return fmt.Errorf("config: auth.cookie.same_site None requires auth.cookie.secure")
		}
	default:
		return fmt.Errorf("config: unsupported auth.cookie.same_site %q", c.Auth.Cookie.SameSite)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.Database.Driver)
	}
	if len(c.Timesheet.TimeSlots) == 0 {
		return fmt.Errorf("config: timesheet.time_slots must not be empty")
	}
	seen := make(map[string]bool, len(c.Timesheet.TimeSlots))
	for _, s := range c.Timesheet.TimeSlots {
		if seen[s] {
			return fmt.Errorf("config: duplicate time slot %q", s)
		}
		seen[s] = true
	}
	if _, err := time.LoadLocation(c.Timesheet.Location); err != nil {
		return fmt.Errorf("config: timesheet.location: %w", err)
	}
	return nil
}
