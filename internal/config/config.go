package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logger   LoggerConfig   `yaml:"logger"`
	S3       S3Config       `yaml:"s3"`
	Feed     FeedConfig     `yaml:"feed"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN builds the PostgreSQL DSN from the individual settings
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig holds Redis settings for the comment-count cache
type RedisConfig struct {
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds token validation settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LoggerConfig holds logging settings
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// S3Config holds object storage settings for the media collaborator
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// FeedConfig holds the feed and voting tunables
type FeedConfig struct {
	PostPageSize       int           `yaml:"post_page_size"`
	CommentPageSize    int           `yaml:"comment_page_size"`
	TrendingMinUpvotes int           `yaml:"trending_min_upvotes"`
	VoteMaxRetries     int           `yaml:"vote_max_retries"`
	CommentCountTTL    time.Duration `yaml:"comment_count_ttl"`
	ScoreAuditSchedule string        `yaml:"score_audit_schedule"`
}

// Load reads configuration from the YAML file at path, then applies
// environment variable overrides and defaults. A missing file is not an
// error so containers can run on env vars alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Port, "SERVER_PORT")
	overrideString(&cfg.Server.Mode, "GIN_MODE")
	overrideString(&cfg.Server.BasePath, "SERVER_BASE_PATH")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")
	overrideString(&cfg.Database.SSLMode, "DB_SSL_MODE")

	overrideString(&cfg.Redis.URL, "REDIS_URL")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")

	overrideString(&cfg.JWT.Secret, "JWT_SECRET")
	overrideString(&cfg.Logger.Level, "LOG_LEVEL")

	overrideString(&cfg.S3.Bucket, "S3_BUCKET")
	overrideString(&cfg.S3.Region, "S3_REGION")
	overrideString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	overrideString(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	overrideString(&cfg.S3.SecretKey, "S3_SECRET_KEY")

	overrideInt(&cfg.Feed.TrendingMinUpvotes, "FEED_TRENDING_MIN_UPVOTES")
	overrideInt(&cfg.Feed.CommentPageSize, "FEED_COMMENT_PAGE_SIZE")
	overrideInt(&cfg.Feed.PostPageSize, "FEED_POST_PAGE_SIZE")
	overrideString(&cfg.Feed.ScoreAuditSchedule, "FEED_SCORE_AUDIT_SCHEDULE")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = "/api/feed"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "community_feed"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}

	if cfg.Feed.PostPageSize == 0 {
		cfg.Feed.PostPageSize = 10
	}
	if cfg.Feed.CommentPageSize == 0 {
		cfg.Feed.CommentPageSize = 5
	}
	if cfg.Feed.TrendingMinUpvotes == 0 {
		cfg.Feed.TrendingMinUpvotes = 5
	}
	if cfg.Feed.VoteMaxRetries == 0 {
		cfg.Feed.VoteMaxRetries = 3
	}
	if cfg.Feed.CommentCountTTL == 0 {
		cfg.Feed.CommentCountTTL = 30 * time.Second
	}
	if cfg.Feed.ScoreAuditSchedule == "" {
		cfg.Feed.ScoreAuditSchedule = "@every 10m"
	}
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
