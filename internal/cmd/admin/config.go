package admin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/libraryadmin/internal/platform/config"
	"github.com/louisbranch/libraryadmin/internal/platform/logging"
	"github.com/spf13/pflag"
)

// ConfigEnvKey names the environment variable holding the config file path.
const ConfigEnvKey = "LIBRARY_ADMIN_CONFIG"

// Session backends.
const (
	BackendCookie = "cookie"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the admin command configuration.
//
// Values are layered: DefaultConfig, then the TOML file, then environment
// variables, then flags that were set explicitly.
type Config struct {
	HTTPAddr       string `toml:"http_addr" env:"LIBRARY_ADMIN_HTTP_ADDR"`
	SessionBackend string `toml:"session_backend" env:"LIBRARY_ADMIN_SESSION_BACKEND"`
	SecureCookies  bool   `toml:"secure_cookies" env:"LIBRARY_ADMIN_SECURE_COOKIES"`

	DBPath        string        `toml:"db_path" env:"LIBRARY_ADMIN_DB_PATH"`
	RedisAddr     string        `toml:"redis_addr" env:"LIBRARY_ADMIN_REDIS_ADDR"`
	RedisPassword string        `toml:"redis_password" env:"LIBRARY_ADMIN_REDIS_PASSWORD"`
	RedisDB       int           `toml:"redis_db" env:"LIBRARY_ADMIN_REDIS_DB"`
	SessionTTL    time.Duration `toml:"session_ttl" env:"LIBRARY_ADMIN_SESSION_TTL"`

	OperatorUsername     string        `toml:"operator_username" env:"LIBRARY_ADMIN_OPERATOR_USERNAME"`
	OperatorPasswordHash string        `toml:"operator_password_hash" env:"LIBRARY_ADMIN_OPERATOR_PASSWORD_HASH"`
	TokenSecret          string        `toml:"token_secret" env:"LIBRARY_ADMIN_TOKEN_SECRET"`
	TokenTTL             time.Duration `toml:"token_ttl" env:"LIBRARY_ADMIN_TOKEN_TTL"`

	LogLevel     string `toml:"log_level" env:"LIBRARY_ADMIN_LOG_LEVEL"`
	LogFormat    string `toml:"log_format" env:"LIBRARY_ADMIN_LOG_FORMAT"`
	OTelEndpoint string `toml:"otel_endpoint" env:"LIBRARY_ADMIN_OTEL_ENDPOINT"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:       ":8082",
		SessionBackend: BackendCookie,
		DBPath:         filepath.Join("data", "admin.db"),
		RedisAddr:      "localhost:6379",
		TokenTTL:       12 * time.Hour,
		LogLevel:       "info",
		LogFormat:      logging.FormatJSON,
	}
}

// flagFields copies a flag's parsed value from src to dst.
var flagFields = map[string]func(dst, src *Config){
	"http-addr":       func(dst, src *Config) { dst.HTTPAddr = src.HTTPAddr },
	"session-backend": func(dst, src *Config) { dst.SessionBackend = src.SessionBackend },
	"secure-cookies":  func(dst, src *Config) { dst.SecureCookies = src.SecureCookies },
	"db-path":         func(dst, src *Config) { dst.DBPath = src.DBPath },
	"redis-addr":      func(dst, src *Config) { dst.RedisAddr = src.RedisAddr },
	"redis-db":        func(dst, src *Config) { dst.RedisDB = src.RedisDB },
	"session-ttl":     func(dst, src *Config) { dst.SessionTTL = src.SessionTTL },
	"operator":        func(dst, src *Config) { dst.OperatorUsername = src.OperatorUsername },
	"token-ttl":       func(dst, src *Config) { dst.TokenTTL = src.TokenTTL },
	"log-level":       func(dst, src *Config) { dst.LogLevel = src.LogLevel },
	"log-format":      func(dst, src *Config) { dst.LogFormat = src.LogFormat },
	"otel-endpoint":   func(dst, src *Config) { dst.OTelEndpoint = src.OTelEndpoint },
}

// ParseConfig parses args into fs and resolves the layered configuration.
// environ replaces the process environment; see EnvironMap.
func ParseConfig(fs *pflag.FlagSet, args []string, environ map[string]string) (Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	defaults := DefaultConfig()
	var flags Config
	var configPath string

	fs.StringVar(&configPath, "config", "", "path to a TOML config file (env "+ConfigEnvKey+")")
	fs.StringVar(&flags.HTTPAddr, "http-addr", defaults.HTTPAddr, "HTTP listen address")
	fs.StringVar(&flags.SessionBackend, "session-backend", defaults.SessionBackend, "session token backend: cookie, memory, sqlite, or redis")
	fs.BoolVar(&flags.SecureCookies, "secure-cookies", defaults.SecureCookies, "mark session cookies Secure")
	fs.StringVar(&flags.DBPath, "db-path", defaults.DBPath, "sqlite database path for the sqlite backend")
	fs.StringVar(&flags.RedisAddr, "redis-addr", defaults.RedisAddr, "redis address for the redis backend")
	fs.IntVar(&flags.RedisDB, "redis-db", defaults.RedisDB, "redis database for the redis backend")
	fs.DurationVar(&flags.SessionTTL, "session-ttl", defaults.SessionTTL, "sliding expiry for redis tokens (0 keeps them)")
	fs.StringVar(&flags.OperatorUsername, "operator", defaults.OperatorUsername, "operator username allowed to sign in")
	fs.DurationVar(&flags.TokenTTL, "token-ttl", defaults.TokenTTL, "lifetime of issued session tokens")
	fs.StringVar(&flags.LogLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&flags.LogFormat, "log-format", defaults.LogFormat, "log format: json or console")
	fs.StringVar(&flags.OTelEndpoint, "otel-endpoint", defaults.OTelEndpoint, "OTLP/HTTP trace endpoint (empty disables tracing)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := defaults
	if !fs.Changed("config") {
		configPath = strings.TrimSpace(environ[ConfigEnvKey])
	}
	if configPath != "" {
		if err := config.LoadFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := config.ParseEnvFrom(&cfg, environ); err != nil {
		return Config{}, err
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := flagFields[f.Name]; ok {
			apply(&cfg, &flags)
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("http address is required")
	}
	switch c.SessionBackend {
	case BackendCookie, BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("db path is required for the sqlite backend")
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative")
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("token ttl must not be negative")
	}
	return nil
}

// EnvironMap converts os.Environ-style pairs into a map.
func EnvironMap(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

// ProcessEnviron returns the current process environment as a map.
func ProcessEnviron() map[string]string {
	return EnvironMap(os.Environ())
}
