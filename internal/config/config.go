package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Rules  RulesConfig
	LLM    LLMConfig
	Upload UploadConfig
	S3     S3Config
	Auth   AuthConfig
	CORS   CORSConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the analysis history
// store. The store is optional; with Enabled false the service runs
// stateless.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RulesConfig holds rule document store settings.
type RulesConfig struct {
	Dir           string `mapstructure:"dir"`
	DefaultFY     string `mapstructure:"default_fy"`
	FetchTimeout  int    `mapstructure:"fetch_timeout_secs"`
	AllowLivesite bool   `mapstructure:"allow_livesite"`
}

// LLMProviderConfig holds settings for a single chat model provider.
type LLMProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds chat model settings with multi-provider fallback.
type LLMConfig struct {
	Primary   LLMProviderConfig `mapstructure:"primary"`
	Secondary LLMProviderConfig `mapstructure:"secondary"`
	Tertiary  LLMProviderConfig `mapstructure:"tertiary"`
}

// Providers returns the configured provider configs in fallback order.
func (l *LLMConfig) Providers() []*LLMProviderConfig {
	var out []*LLMProviderConfig
	for _, p := range []*LLMProviderConfig{&l.Primary, &l.Secondary, &l.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// UploadConfig holds transaction statement upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// S3Config holds optional statement archive settings. An empty bucket
// disables archival.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// AuthConfig holds the admin token settings guarding rule generation.
type AuthConfig struct {
	AdminSecret string `mapstructure:"admin_secret"`
	Issuer      string `mapstructure:"issuer"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TAXSARTHI_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXSARTHI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxsarthi")
	v.SetDefault("db.password", "taxsarthi_secret")
	v.SetDefault("db.name", "taxsarthi_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Rules defaults
	v.SetDefault("rules.dir", "rules")
	v.SetDefault("rules.default_fy", "2024-25")
	v.SetDefault("rules.fetch_timeout_secs", 15)
	v.SetDefault("rules.allow_livesite", false)

	// LLM defaults (secondary/tertiary disabled unless configured)
	v.SetDefault("llm.primary.provider", "gemini")
	v.SetDefault("llm.primary.api_key", "")
	v.SetDefault("llm.primary.default_model", "")
	v.SetDefault("llm.primary.timeout_secs", 60)
	v.SetDefault("llm.secondary.provider", "")
	v.SetDefault("llm.secondary.api_key", "")
	v.SetDefault("llm.secondary.default_model", "")
	v.SetDefault("llm.secondary.timeout_secs", 60)
	v.SetDefault("llm.tertiary.provider", "")
	v.SetDefault("llm.tertiary.api_key", "")
	v.SetDefault("llm.tertiary.default_model", "")
	v.SetDefault("llm.tertiary.timeout_secs", 60)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)

	// S3 defaults (archive disabled without a bucket)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Auth defaults
	v.SetDefault("auth.admin_secret", "")
	v.SetDefault("auth.issuer", "taxsarthi")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "TAXSARTHI_SERVER_PORT",
		"server.read_timeout":         "TAXSARTHI_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "TAXSARTHI_SERVER_WRITE_TIMEOUT",
		"server.environment":          "TAXSARTHI_SERVER_ENVIRONMENT",
		"db.enabled":                  "TAXSARTHI_DB_ENABLED",
		"db.host":                     "TAXSARTHI_DB_HOST",
		"db.port":                     "TAXSARTHI_DB_PORT",
		"db.user":                     "TAXSARTHI_DB_USER",
		"db.password":                 "TAXSARTHI_DB_PASSWORD",
		"db.name":                     "TAXSARTHI_DB_NAME",
		"db.sslmode":                  "TAXSARTHI_DB_SSLMODE",
		"db.max_open":                 "TAXSARTHI_DB_MAX_OPEN",
		"db.max_idle":                 "TAXSARTHI_DB_MAX_IDLE",
		"rules.dir":                   "TAXSARTHI_RULES_DIR",
		"rules.default_fy":            "TAXSARTHI_RULES_DEFAULT_FY",
		"rules.fetch_timeout_secs":    "TAXSARTHI_RULES_FETCH_TIMEOUT_SECS",
		"rules.allow_livesite":        "TAXSARTHI_RULES_ALLOW_LIVESITE",
		"llm.primary.provider":        "TAXSARTHI_LLM_PRIMARY_PROVIDER",
		"llm.primary.api_key":         "TAXSARTHI_LLM_PRIMARY_API_KEY",
		"llm.primary.default_model":   "TAXSARTHI_LLM_PRIMARY_DEFAULT_MODEL",
		"llm.primary.timeout_secs":    "TAXSARTHI_LLM_PRIMARY_TIMEOUT_SECS",
		"llm.secondary.provider":      "TAXSARTHI_LLM_SECONDARY_PROVIDER",
		"llm.secondary.api_key":       "TAXSARTHI_LLM_SECONDARY_API_KEY",
		"llm.secondary.default_model": "TAXSARTHI_LLM_SECONDARY_DEFAULT_MODEL",
		"llm.secondary.timeout_secs":  "TAXSARTHI_LLM_SECONDARY_TIMEOUT_SECS",
		"llm.tertiary.provider":       "TAXSARTHI_LLM_TERTIARY_PROVIDER",
		"llm.tertiary.api_key":        "TAXSARTHI_LLM_TERTIARY_API_KEY",
		"llm.tertiary.default_model":  "TAXSARTHI_LLM_TERTIARY_DEFAULT_MODEL",
		"llm.tertiary.timeout_secs":   "TAXSARTHI_LLM_TERTIARY_TIMEOUT_SECS",
		"upload.max_file_size_mb":     "TAXSARTHI_UPLOAD_MAX_FILE_SIZE_MB",
		"s3.region":                   "TAXSARTHI_S3_REGION",
		"s3.bucket":                   "TAXSARTHI_S3_BUCKET",
		"s3.endpoint":                 "TAXSARTHI_S3_ENDPOINT",
		"s3.access_key":               "TAXSARTHI_S3_ACCESS_KEY",
		"s3.secret_key":               "TAXSARTHI_S3_SECRET_KEY",
		"auth.admin_secret":           "TAXSARTHI_AUTH_ADMIN_SECRET",
		"auth.issuer":                 "TAXSARTHI_AUTH_ISSUER",
		"cors.allowed_origins":        "TAXSARTHI_CORS_ALLOWED_ORIGINS",
		"log.level":                   "TAXSARTHI_LOG_LEVEL",
		"log.format":                  "TAXSARTHI_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXSARTHI_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXSARTHI_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Rules = RulesConfig{
		Dir:           v.GetString("rules.dir"),
		DefaultFY:     v.GetString("rules.default_fy"),
		FetchTimeout:  v.GetInt("rules.fetch_timeout_secs"),
		AllowLivesite: v.GetBool("rules.allow_livesite"),
	}
	cfg.LLM = LLMConfig{
		Primary: LLMProviderConfig{
			Provider:     v.GetString("llm.primary.provider"),
			APIKey:       v.GetString("llm.primary.api_key"),
			DefaultModel: v.GetString("llm.primary.default_model"),
			TimeoutSecs:  v.GetInt("llm.primary.timeout_secs"),
		},
		Secondary: LLMProviderConfig{
			Provider:     v.GetString("llm.secondary.provider"),
			APIKey:       v.GetString("llm.secondary.api_key"),
			DefaultModel: v.GetString("llm.secondary.default_model"),
			TimeoutSecs:  v.GetInt("llm.secondary.timeout_secs"),
		},
		Tertiary: LLMProviderConfig{
			Provider:     v.GetString("llm.tertiary.provider"),
			APIKey:       v.GetString("llm.tertiary.api_key"),
			DefaultModel: v.GetString("llm.tertiary.default_model"),
			TimeoutSecs:  v.GetInt("llm.tertiary.timeout_secs"),
		},
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Auth = AuthConfig{
		AdminSecret: v.GetString("auth.admin_secret"),
		Issuer:      v.GetString("auth.issuer"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
