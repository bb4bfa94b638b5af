// Package config loads the process settings from the environment and an
// optional .env file. The result is an immutable *Config built once at startup
// and passed explicitly to every component that needs it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by Load when present. It is meant for local development.
const DefaultEnvFile = ".env"

// ErrInvalidConfig is wrapped by every error returned from Load and Parse.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port int `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`

	DBHost     string `env:"DB_HOST,required"`
	DBPort     int    `env:"DB_PORT,required" validate:"min=1,max=65535"`
	DBName     string `env:"DB_NAME,required"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBEcho     bool   `env:"DB_ECHO" envDefault:"true"`

	// Pool tuning; the pool itself belongs to database/sql.
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10" validate:"gte=0"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m" validate:"gte=0"`

	// Token settings. Nothing issues tokens yet; they are validated and carried only.
	SecretKey                string `env:"SECRET_KEY,required"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256" validate:"jwtalg"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30" validate:"gt=0"`

	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=panic fatal error warn warning info debug trace"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// Load reads DefaultEnvFile (if it exists) into the process environment and
// parses the result. Variables already set in the environment take precedence
// over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, DefaultEnvFile, err)
	}
	return Parse(env.ToMap(os.Environ()))
}

// Parse builds a Config from the given environment.
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := newValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("jwtalg", func(fl validator.FieldLevel) bool {
		return jwt.GetSigningMethod(fl.Field().String()) != nil
	})
	return v
}

// DatabaseURL returns the connection locator with every value substituted
// verbatim. Use it for display; the driver is configured from the fields.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// AccessTokenTTL is ACCESS_TOKEN_EXPIRE_MINUTES as a duration.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// SigningMethod resolves ALGORITHM. Parse guarantees the result is non-nil.
func (c *Config) SigningMethod() jwt.SigningMethod {
	return jwt.GetSigningMethod(c.Algorithm)
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}
