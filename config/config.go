package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string `env:"DATABASE_URL,required,notEmpty"`
	JWTSecretKey string `env:"JWT_SECRET_KEY,required,notEmpty"`
	ServerPort   int    `env:"SERVER_PORT" envDefault:"8080"`
	// AllowedOrigins applies to CORS and websocket upgrades.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// MaxGlobalStatus is the default status threshold for profile and player list reads.
	// Unset keeps models.DefaultMaxGlobalStatus.
	MaxGlobalStatus models.GlobalStatus `env:"MAX_GLOBAL_STATUS"`
	// SpecialRulesCompetitionID is the ladder whose rules option always decodes to 5th edition.
	SpecialRulesCompetitionID int    `env:"SPECIAL_RULES_COMPETITION_ID" envDefault:"6"`
	Locale                    string `env:"LOCALE" envDefault:"en-US"`
	RecentPostsLimit          int    `env:"RECENT_POSTS_LIMIT" envDefault:"10"`

	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"0s"`

	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`

	OtelEndpoint    string `env:"OTEL_ENDPOINT"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ladder-stats"`
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Ошибку не считаем фатальной: в проде .env обычно нет.
	_ = godotenv.Load()

	cfg := Config{MaxGlobalStatus: models.DefaultMaxGlobalStatus}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if !c.MaxGlobalStatus.Valid() {
		return fmt.Errorf("MAX_GLOBAL_STATUS must be between %d and %d, got %d",
			models.GlobalStatusActive, models.GlobalStatusDeleted, c.MaxGlobalStatus)
	}
	if c.RecentPostsLimit <= 0 {
		return fmt.Errorf("RECENT_POSTS_LIMIT must be positive, got %d", c.RecentPostsLimit)
	}
	if c.CacheTTL < 0 {
		return errors.New("CACHE_TTL must not be negative")
	}
	if c.SnapshotInterval < 0 {
		return errors.New("SNAPSHOT_INTERVAL must not be negative")
	}
	return nil
}

// SnapshotsEnabled reports whether standings snapshots can be published:
// an interval is set and the object store is fully configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.SnapshotInterval > 0 &&
		c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}
