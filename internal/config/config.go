package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL   string
	MigrationsURL string
	AutoMigrate   bool

	RedisURL     string
	EventChannel string
	CacheTTL     time.Duration

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	Domain       string
	Locale       string

	RequestTimeout time.Duration
	FanoutWorkers  int
}

// Flags registers the command-line overrides for the keys Load reads.
func Flags(fs *pflag.FlagSet) {
	fs.String("port", "8080", "HTTP listen port")
	fs.String("migrations-url", "file://migrations", "golang-migrate source URL")
	fs.Bool("auto-migrate", true, "apply pending migrations on startup")
	fs.Int("fanout-workers", 4, "notification fan-out workers")
}

func Load(fs *pflag.FlagSet) *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("migrations_url", "file://migrations")
	v.SetDefault("auto_migrate", true)
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("event_channel", "gigmarket:events")
	v.SetDefault("cache_ttl", 30*time.Second)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_access_expiry", 15*time.Minute)
	v.SetDefault("jwt_refresh_expiry", 7*24*time.Hour)
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("resend_api_key", "")
	v.SetDefault("from_email", "noreply@example.com")
	v.SetDefault("domain", "localhost:5173")
	v.SetDefault("locale", "en")
	v.SetDefault("request_timeout", 5*time.Second)
	v.SetDefault("fanout_workers", 4)

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
			}
		})
	}

	return &Config{
		Port:        v.GetString("port"),
		Environment: v.GetString("environment"),

		DatabaseURL:   v.GetString("database_url"),
		MigrationsURL: v.GetString("migrations_url"),
		AutoMigrate:   v.GetBool("auto_migrate"),

		RedisURL:     v.GetString("redis_url"),
		EventChannel: v.GetString("event_channel"),
		CacheTTL:     v.GetDuration("cache_ttl"),

		JWTSecret:        v.GetString("jwt_secret"),
		JWTAccessExpiry:  v.GetDuration("jwt_access_expiry"),
		JWTRefreshExpiry: v.GetDuration("jwt_refresh_expiry"),

		CORSOrigins: v.GetString("cors_origins"),

		ResendAPIKey: v.GetString("resend_api_key"),
		FromEmail:    v.GetString("from_email"),
		Domain:       v.GetString("domain"),
		Locale:       v.GetString("locale"),

		RequestTimeout: v.GetDuration("request_timeout"),
		FanoutWorkers:  v.GetInt("fanout_workers"),
	}
}
