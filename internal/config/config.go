package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Upload UploadConfig
	Notify NotifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
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

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds document-slot upload settings.
type UploadConfig struct {
	// GraceMillis is how long a completed upload keeps showing 100% before
	// the progress value is cleared.
	GraceMillis int `mapstructure:"grace_millis"`
}

// Grace returns the progress grace period as a duration.
func (u *UploadConfig) Grace() time.Duration {
	return time.Duration(u.GraceMillis) * time.Millisecond
}

// NotifyConfig holds upload-failure notification settings.
type NotifyConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the OPSBOARD_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OPSBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "opsboard")
	v.SetDefault("db.password", "opsboard_secret")
	v.SetDefault("db.name", "opsboard_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "opsboard")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "opsboard-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Upload defaults
	v.SetDefault("upload.grace_millis", 1500)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "us-east-1")
	v.SetDefault("notify.from_address", "noreply@opsboard.local")
	v.SetDefault("notify.from_name", "Opsboard")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "OPSBOARD_SERVER_PORT",
		"server.read_timeout":  "OPSBOARD_SERVER_READ_TIMEOUT",
		"server.write_timeout": "OPSBOARD_SERVER_WRITE_TIMEOUT",
		"server.environment":   "OPSBOARD_SERVER_ENVIRONMENT",
		"db.host":              "OPSBOARD_DB_HOST",
		"db.port":              "OPSBOARD_DB_PORT",
		"db.user":              "OPSBOARD_DB_USER",
		"db.password":          "OPSBOARD_DB_PASSWORD",
		"db.name":              "OPSBOARD_DB_NAME",
		"db.sslmode":           "OPSBOARD_DB_SSLMODE",
		"db.max_open":          "OPSBOARD_DB_MAX_OPEN",
		"db.max_idle":          "OPSBOARD_DB_MAX_IDLE",
		"jwt.secret":           "OPSBOARD_JWT_SECRET",
		"jwt.access_expiry":    "OPSBOARD_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":   "OPSBOARD_JWT_REFRESH_EXPIRY",
		"jwt.issuer":           "OPSBOARD_JWT_ISSUER",
		"s3.region":            "OPSBOARD_S3_REGION",
		"s3.bucket":            "OPSBOARD_S3_BUCKET",
		"s3.endpoint":          "OPSBOARD_S3_ENDPOINT",
		"s3.access_key":        "OPSBOARD_S3_ACCESS_KEY",
		"s3.secret_key":        "OPSBOARD_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "OPSBOARD_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":    "OPSBOARD_S3_PRESIGN_EXPIRY",
		"log.level":            "OPSBOARD_LOG_LEVEL",
		"log.format":           "OPSBOARD_LOG_FORMAT",
		"cors.allowed_origins": "OPSBOARD_CORS_ALLOWED_ORIGINS",
		"upload.grace_millis":  "OPSBOARD_UPLOAD_GRACE_MILLIS",
		"notify.provider":      "OPSBOARD_NOTIFY_PROVIDER",
		"notify.region":        "OPSBOARD_NOTIFY_REGION",
		"notify.from_address":  "OPSBOARD_NOTIFY_FROM_ADDRESS",
		"notify.from_name":     "OPSBOARD_NOTIFY_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Upload = UploadConfig{
		GraceMillis: v.GetInt("upload.grace_millis"),
	}
	cfg.Notify = NotifyConfig{
		Provider:    v.GetString("notify.provider"),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		FromName:    v.GetString("notify.from_name"),
	}

	return cfg, nil
}
