package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds the runtime settings of the verification service. Every key can
// be set through the environment (upper-cased) or through the file named by
// CONFIG_FILE.
type Config struct {
	Port          string
	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string

	PublicBaseURL string
	ScanLimit     int
	SeedCatalog   bool
	StaticDir     string

	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string
	JWTTTL            time.Duration
	ProtectLogs       bool

	RateLimitRPS   float64
	RateLimitBurst int
	BanStrikes     int
	BanDuration    time.Duration
	CORSOrigins    []string
	TrustProxy     bool

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("store_driver", DriverPostgres)
	v.SetDefault("database_url", "")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", "safekart")
	v.SetDefault("redis_addr", "")
	v.SetDefault("public_base_url", "http://localhost:3000")
	v.SetDefault("scan_limit", 3)
	v.SetDefault("seed_catalog", true)
	v.SetDefault("static_dir", "./frontend")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", 15*time.Minute)
	v.SetDefault("protect_logs", false)
	v.SetDefault("rate_limit_rps", 5.0)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("ban_strikes", 5)
	v.SetDefault("ban_duration", 15*time.Minute)
	v.SetDefault("cors_origins", "*")
	v.SetDefault("trust_proxy", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Load reads the configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment values win over file values.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:              strings.TrimPrefix(v.GetString("port"), ":"),
		StoreDriver:       strings.ToLower(v.GetString("store_driver")),
		DatabaseURL:       v.GetString("database_url"),
		MongoURI:          v.GetString("mongo_uri"),
		MongoDatabase:     v.GetString("mongo_database"),
		RedisAddr:         v.GetString("redis_addr"),
		PublicBaseURL:     strings.TrimRight(v.GetString("public_base_url"), "/"),
		ScanLimit:         v.GetInt("scan_limit"),
		SeedCatalog:       v.GetBool("seed_catalog"),
		StaticDir:         v.GetString("static_dir"),
		AdminUsername:     v.GetString("admin_username"),
		AdminPasswordHash: v.GetString("admin_password_hash"),
		JWTSecret:         v.GetString("jwt_secret"),
		JWTTTL:            v.GetDuration("jwt_ttl"),
		ProtectLogs:       v.GetBool("protect_logs"),
		RateLimitRPS:      v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:    v.GetInt("rate_limit_burst"),
		BanStrikes:        v.GetInt("ban_strikes"),
		BanDuration:       v.GetDuration("ban_duration"),
		CORSOrigins:       stringList(v, "cors_origins"),
		TrustProxy:        v.GetBool("trust_proxy"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		LogFormat:         strings.ToLower(v.GetString("log_format")),
	}

	return cfg, nil
}

// Validate reports the first setting that would keep the service from starting.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.Port == "" {
		return errors.New("PORT must be set")
	}
	if c.ScanLimit < 1 {
		return fmt.Errorf("SCAN_LIMIT must be at least 1, got %d", c.ScanLimit)
	}
	if (c.ProtectLogs || c.AdminPasswordHash != "") && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when admin login or PROTECT_LOGS is enabled")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.BanStrikes < 1 || c.BanDuration <= 0 {
		return errors.New("BAN_STRIKES and BAN_DURATION must be positive")
	}
	return nil
}

// AdminEnabled reports whether admin login can issue tokens.
func (c *Config) AdminEnabled() bool {
	return c.AdminPasswordHash != "" && c.JWTSecret != ""
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// stringList accepts both the comma separated env form and a list from a
// config file.
func stringList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return splitList(s)
	}
	return splitList(strings.Join(v.GetStringSlice(key), ","))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
