package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MinBcryptCost is the lowest work factor Load accepts for password hashing.
const MinBcryptCost = 12

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set.
	Env string

	// DBDriver is "postgres" (default) or "sqlite".
	DBDriver string
	// DatabaseURL overrides the DB_* parts when set (postgres only).
	DatabaseURL string

	DBHost    string
	DBPort    string
	DBName    string
	DBUser    string
	DBPass    string
	DBSSLMode string

	// DBPath is the sqlite database file (":memory:" for a throwaway database).
	DBPath string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// JWTSecret signs session tokens. There is no default: without it no token can be issued or verified.
	JWTSecret string
	// TokenTTL is the session token lifetime (default 1h). Set via JWT_TTL.
	TokenTTL time.Duration

	// BcryptCost is the password hashing work factor (default and minimum 12).
	BcryptCost int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json"; LogLevel is debug|info|warn|error.
	LogFormat string
	LogLevel  string

	// CORSAllowedOrigins lists the browser client origins (CLIENT_ORIGIN, comma-separated).
	CORSAllowedOrigins []string

	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int64

	// AuthRateLimitPerMinute is the per-IP budget for signup and login.
	AuthRateLimitPerMinute int

	// TrustProxy takes the client IP from X-Forwarded-For/X-Real-IP. Only set it
	// behind a reverse proxy that overwrites those headers.
	TrustProxy bool

	// DefaultTimezone buckets summary months when the caller does not pass tz.
	DefaultTimezone string

	// AuditRetentionDays and AuditPurgeSchedule drive the audit log purge job.
	AuditRetentionDays int
	AuditPurgeSchedule string
}

// Load reads configuration from an optional .env file in the working directory and
// from the environment, which takes precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// SetConfigFile reports a missing file as a plain fs error.
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read .env: %w", err)
		}
	}

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL has invalid duration %q", v.GetString("JWT_TTL"))
	}

	cost := v.GetInt("BCRYPT_COST")
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}

	cfg := Config{
		Port: v.GetString("PORT"),
		Env:  v.GetString("ENV"),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBName:      v.GetString("DB_NAME"),
		DBUser:      v.GetString("DB_USER"),
		DBPass:      v.GetString("DB_PASS"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		DBPath:      v.GetString("DB_PATH"),

		DBMaxOpenConns: positive(v.GetInt("DB_MAX_OPEN_CONNS"), 25),
		DBMaxIdleConns: positive(v.GetInt("DB_MAX_IDLE_CONNS"), 5),

		JWTSecret:  v.GetString("JWT_SECRET"),
		TokenTTL:   ttl,
		BcryptCost: cost,

		TLSCertFile: v.GetString("TLS_CERT_FILE"),
		TLSKeyFile:  v.GetString("TLS_KEY_FILE"),

		LogFormat: v.GetString("LOG_FORMAT"),
		LogLevel:  v.GetString("LOG_LEVEL"),

		CORSAllowedOrigins: parseCORSOrigins(v.GetString("CLIENT_ORIGIN")),

		MaxBodyBytes:           int64(positive(v.GetInt("MAX_BODY_BYTES"), 1<<20)),
		AuthRateLimitPerMinute: positive(v.GetInt("AUTH_RATE_LIMIT_PER_MINUTE"), 10),
		TrustProxy:             v.GetBool("TRUST_PROXY"),

		DefaultTimezone: v.GetString("DEFAULT_TIMEZONE"),

		AuditRetentionDays: positive(v.GetInt("AUDIT_RETENTION_DAYS"), 90),
		AuditPurgeSchedule: v.GetString("AUDIT_PURGE_SCHEDULE"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "dev")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "fintrack")
	v.SetDefault("DB_USER", "fintrack")
	v.SetDefault("DB_PASS", "fintrack")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "fintrack.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("BCRYPT_COST", MinBcryptCost)

	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("AUTH_RATE_LIMIT_PER_MINUTE", 10)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("DEFAULT_TIMEZONE", "UTC")

	v.SetDefault("AUDIT_RETENTION_DAYS", 90)
	v.SetDefault("AUDIT_PURGE_SCHEDULE", "@daily")
}

// Validate checks the combinations Load cannot default its way out of.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.Env == "prod" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set when ENV=prod")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}
	return nil
}

// TLSEnabled reports whether both TLS files are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// PostgresDSN returns DatabaseURL, or a keyword DSN assembled from the DB_* parts.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPass, c.DBSSLMode,
	)
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func positive(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}
