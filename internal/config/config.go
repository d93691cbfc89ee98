// Package config handles configuration for the server: defaults, an optional
// .env file, environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/iudanet/blogapi/internal/logging"
	"github.com/iudanet/blogapi/internal/server/storage/sqldb"
	"github.com/iudanet/blogapi/internal/server/token"
)

// EnvPrefix is the prefix of every environment variable read by the server
const EnvPrefix = "BLOG_"

// Config holds runtime settings for the blog server
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the storage driver and its DSN
type DatabaseConfig struct {
	Driver string // sqlite or postgres
	DSN    string
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret           string
	Algorithm        string
	AccessTTLMinutes int
	RefreshTTLDays   int
}

// CORSConfig holds the allowed origins as a comma-separated list
type CORSConfig struct {
	AllowedOrigins string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Default returns development defaults. The JWT secret has no default.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: sqldb.DriverSQLite,
			DSN:    "blog.db",
		},
		JWT: JWTConfig{
			Algorithm:        token.DefaultAlgorithm,
			AccessTTLMinutes: int(token.DefaultAccessTTL / time.Minute),
			RefreshTTLDays:   int(token.DefaultRefreshTTL / (24 * time.Hour)),
		},
		CORS: CORSConfig{AllowedOrigins: "*"},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// LoadDotEnv loads variables from a .env file without overriding the environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func env(name string) []string {
	return []string{EnvPrefix + name}
}

// Flags returns cli flags bound to c; current values of c are the defaults
func (c *Config) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name: "addr", Usage: "address to bind the HTTP server",
			EnvVars: env("ADDR"), Value: c.Server.Addr, Destination: &c.Server.Addr,
		},
		&cli.DurationFlag{
			Name: "read-timeout", Usage: "HTTP read timeout",
			EnvVars: env("READ_TIMEOUT"), Value: c.Server.ReadTimeout, Destination: &c.Server.ReadTimeout,
		},
		&cli.DurationFlag{
			Name: "write-timeout", Usage: "HTTP write timeout",
			EnvVars: env("WRITE_TIMEOUT"), Value: c.Server.WriteTimeout, Destination: &c.Server.WriteTimeout,
		},
		&cli.DurationFlag{
			Name: "shutdown-timeout", Usage: "graceful shutdown timeout",
			EnvVars: env("SHUTDOWN_TIMEOUT"), Value: c.Server.ShutdownTimeout, Destination: &c.Server.ShutdownTimeout,
		},
		&cli.StringFlag{
			Name: "db-driver", Usage: "database driver: sqlite or postgres",
			EnvVars: env("DB_DRIVER"), Value: c.Database.Driver, Destination: &c.Database.Driver,
		},
		&cli.StringFlag{
			Name: "db-dsn", Usage: "database file path (sqlite) or connection string (postgres)",
			EnvVars: env("DB_DSN"), Value: c.Database.DSN, Destination: &c.Database.DSN,
		},
		&cli.StringFlag{
			Name: "jwt-secret", Usage: "HMAC secret for signing tokens",
			EnvVars: env("JWT_SECRET"), Value: c.JWT.Secret, Destination: &c.JWT.Secret,
		},
		&cli.StringFlag{
			Name: "jwt-algorithm", Usage: "token signing algorithm: HS256, HS384 or HS512",
			EnvVars: env("JWT_ALGORITHM"), Value: c.JWT.Algorithm, Destination: &c.JWT.Algorithm,
		},
		&cli.IntFlag{
			Name: "jwt-access-ttl-minutes", Usage: "access token lifetime in minutes",
			EnvVars: env("JWT_ACCESS_TTL_MINUTES"), Value: c.JWT.AccessTTLMinutes, Destination: &c.JWT.AccessTTLMinutes,
		},
		&cli.IntFlag{
			Name: "jwt-refresh-ttl-days", Usage: "refresh token lifetime in days",
			EnvVars: env("JWT_REFRESH_TTL_DAYS"), Value: c.JWT.RefreshTTLDays, Destination: &c.JWT.RefreshTTLDays,
		},
		&cli.StringFlag{
			Name: "cors-origins", Usage: "comma-separated allowed CORS origins, * for any",
			EnvVars: env("CORS_ORIGINS"), Value: c.CORS.AllowedOrigins, Destination: &c.CORS.AllowedOrigins,
		},
		&cli.StringFlag{
			Name: "log-level", Usage: "debug, info, warn or error",
			EnvVars: env("LOG_LEVEL"), Value: c.Log.Level, Destination: &c.Log.Level,
		},
		&cli.StringFlag{
			Name: "log-format", Usage: "text or json",
			EnvVars: env("LOG_FORMAT"), Value: c.Log.Format, Destination: &c.Log.Format,
		},
	}
}

// Validate collects every configuration problem into one error
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	switch c.Database.Driver {
	case sqldb.DriverSQLite, sqldb.DriverPostgres, sqldb.DriverPgx:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("%sJWT_SECRET is required", EnvPrefix))
	}
	if err := c.TokenConfig().Validate(); err != nil && c.JWT.Secret != "" {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// TokenConfig builds the explicit token configuration
func (c Config) TokenConfig() token.Config {
	return token.Config{
		Secret:     []byte(c.JWT.Secret),
		Algorithm:  c.JWT.Algorithm,
		AccessTTL:  time.Duration(c.JWT.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(c.JWT.RefreshTTLDays) * 24 * time.Hour,
	}
}

// Origins returns the allowed CORS origins
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORS.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
