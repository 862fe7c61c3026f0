package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	infraauth "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/security"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	Lockout   LockoutConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Admin     AdminConfig
	Storage   StorageConfig
	Webhook   WebhookConfig
	Dashboard DashboardConfig
	Retention RetentionConfig
	Log       LogConfig
	Secure    SecureConfig
}

type ServerConfig struct {
	Port string
}

// DatabaseConfig: an empty URL runs the portal on in-memory repositories.
type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret     string
	SecretFile string
	Issuer     string
	Audience   string
	Expiry     time.Duration
}

type PasswordConfig struct {
	Algorithm  string // argon2id | bcrypt
	Argon2     security.Argon2Params
	BcryptCost int
}

type LockoutConfig struct {
	MaxAttempts  int
	CooldownSecs int
}

type RateLimitConfig struct {
	RatePerIP     string // e.g. "100-M"
	RatePerTenant string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AdminConfig: SeedPassword, when set, seeds SeedEmail as the first Admin on an empty user table.
type AdminConfig struct {
	Secret       string
	SeedEmail    string
	SeedPassword string
}

type StorageConfig struct {
	BlobDir        string // empty = in-memory blobs
	MaxUploadBytes int64
}

type WebhookConfig struct {
	URL          string
	RatePerSec   float64
	AuthHeader   string
	AuditToTable bool
}

type DashboardConfig struct {
	CacheTTL time.Duration
}

// RetentionConfig: read notifications older than NotificationDays are purged; 0 keeps them forever.
type RetentionConfig struct {
	NotificationDays int
	Interval         time.Duration
}

type LogConfig struct {
	Level  string
	Format string // console | json
}

type SecureConfig struct {
	IsDevelopment bool
}

// Load reads .env (if present), an optional CONFIG_FILE and the environment, in increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	setDefaults(v)

	cfg := &Config{
		Server:   ServerConfig{Port: v.GetString("PORT")},
		Database: DatabaseConfig{URL: v.GetString("DATABASE_URL")},
		Redis:    RedisConfig{URL: v.GetString("REDIS_URL")},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			SecretFile: v.GetString("JWT_SECRET_FILE"),
			Issuer:     v.GetString("JWT_ISSUER"),
			Audience:   v.GetString("JWT_AUDIENCE"),
			Expiry:     v.GetDuration("JWT_EXPIRY"),
		},
		Password: PasswordConfig{
			Algorithm: strings.ToLower(v.GetString("PASSWORD_HASH_ALGORITHM")),
			Argon2: security.Argon2Params{
				Memory:      v.GetUint32("ARGON2_MEMORY"),
				Iterations:  v.GetUint32("ARGON2_ITERATIONS"),
				Parallelism: uint8(v.GetUint("ARGON2_PARALLELISM")),
				SaltLength:  16,
				KeyLength:   32,
			},
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Lockout: LockoutConfig{
			MaxAttempts:  v.GetInt("LOCKOUT_MAX_ATTEMPTS"),
			CooldownSecs: int(v.GetDuration("LOCKOUT_COOLDOWN") / time.Second),
		},
		RateLimit: RateLimitConfig{
			RatePerIP:     v.GetString("RATE_LIMIT_IP"),
			RatePerTenant: v.GetString("RATE_LIMIT_TENANT"),
		},
		CORS: CORSConfig{AllowedOrigins: splitList(v.GetString("CORS_ORIGINS"))},
		Admin: AdminConfig{
			Secret:       v.GetString("ADMIN_SECRET"),
			SeedEmail:    v.GetString("SEED_ADMIN_EMAIL"),
			SeedPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
		Storage: StorageConfig{
			BlobDir:        v.GetString("BLOB_DIR"),
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		},
		Webhook: WebhookConfig{
			URL:          v.GetString("WEBHOOK_URL"),
			RatePerSec:   v.GetFloat64("WEBHOOK_RATE_PER_SEC"),
			AuthHeader:   v.GetString("WEBHOOK_AUTH_HEADER"),
			AuditToTable: v.GetBool("AUDIT_TO_DATABASE"),
		},
		Dashboard: DashboardConfig{CacheTTL: v.GetDuration("DASHBOARD_CACHE_TTL")},
		Retention: RetentionConfig{
			NotificationDays: v.GetInt("NOTIFICATION_RETENTION_DAYS"),
			Interval:         v.GetDuration("RETENTION_INTERVAL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Secure: SecureConfig{IsDevelopment: v.GetBool("DEVELOPMENT")},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("JWT_ISSUER", "HelixPortal")
	v.SetDefault("JWT_AUDIENCE", "HelixPortal")
	v.SetDefault("JWT_EXPIRY", "24h")
	v.SetDefault("PASSWORD_HASH_ALGORITHM", security.AlgorithmArgon2id)
	v.SetDefault("ARGON2_MEMORY", 64*1024)
	v.SetDefault("ARGON2_ITERATIONS", 3)
	v.SetDefault("ARGON2_PARALLELISM", 2)
	v.SetDefault("BCRYPT_COST", security.DefaultBcryptCost)
	v.SetDefault("LOCKOUT_MAX_ATTEMPTS", 5)
	v.SetDefault("LOCKOUT_COOLDOWN", "15m")
	v.SetDefault("RATE_LIMIT_IP", "100-M")
	v.SetDefault("RATE_LIMIT_TENANT", "1000-M")
	v.SetDefault("MAX_UPLOAD_BYTES", 25<<20)
	v.SetDefault("WEBHOOK_RATE_PER_SEC", 10)
	v.SetDefault("AUDIT_TO_DATABASE", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "30s")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@helixportal.local")
	v.SetDefault("NOTIFICATION_RETENTION_DAYS", 90)
	v.SetDefault("RETENTION_INTERVAL", "1h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Validate rejects settings the portal must not start with.
func (c *Config) Validate() error {
	var errs []error
	secret, err := c.SigningSecret()
	if err != nil {
		errs = append(errs, err)
	} else if err := infraauth.ValidateSecret(secret); err != nil {
		errs = append(errs, err)
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	if c.JWT.Issuer == "" || c.JWT.Audience == "" {
		errs = append(errs, errors.New("JWT_ISSUER and JWT_AUDIENCE are required"))
	}
	switch c.Password.Algorithm {
	case security.AlgorithmArgon2id, security.AlgorithmBcrypt:
	default:
		errs = append(errs, fmt.Errorf("unknown PASSWORD_HASH_ALGORITHM %q", c.Password.Algorithm))
	}
	if c.Lockout.MaxAttempts < 0 {
		errs = append(errs, errors.New("LOCKOUT_MAX_ATTEMPTS must not be negative"))
	}
	if c.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// SigningSecret returns the HS256 secret from JWT_SECRET or JWT_SECRET_FILE.
func (c *Config) SigningSecret() ([]byte, error) {
	return infraauth.LoadSecret(c.JWT.Secret, c.JWT.SecretFile)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
