package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Storage   StorageConfig
	Document  DocumentConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

// AdminConfig holds the credentials of the account seeded on first start
type AdminConfig struct {
	Username string
	Password string
}

// StorageConfig configures MinIO. Storage is optional; without an endpoint
// image uploads are disabled.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	UploadMaxSize int64
}

// Enabled reports whether enough is configured to connect
func (c StorageConfig) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// DocumentConfig tunes quotation PDF generation
type DocumentConfig struct {
	FetchTimeout     time.Duration
	FetchAttempts    int
	FetchBackoff     time.Duration
	MaxRedirects     int
	AssetDirs        []string
	LogoCandidates   []string
	LetterheadPath   string
	ImageConcurrency int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "rajtiles-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "rajtiles")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "rajtiles")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("UPLOAD_MAX_SIZE", 5242880)
	viper.SetDefault("PDF_FETCH_TIMEOUT_SECONDS", 25)
	viper.SetDefault("PDF_FETCH_ATTEMPTS", 3)
	viper.SetDefault("PDF_FETCH_BACKOFF_MS", 500)
	viper.SetDefault("PDF_MAX_REDIRECTS", 5)
	viper.SetDefault("PDF_ASSET_DIRS", []string{".", "public", "uploads"})
	viper.SetDefault("PDF_LOGO_CANDIDATES", []string{"public/logo.jpg", "src/public/logo.jpg", "../public/logo.jpg"})
	viper.SetDefault("PDF_LETTERHEAD_PATH", "")
	viper.SetDefault("PDF_IMAGE_CONCURRENCY", 8)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
		Storage: StorageConfig{
			Endpoint:      viper.GetString("MINIO_ENDPOINT"),
			AccessKey:     viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey:     viper.GetString("MINIO_SECRET_KEY"),
			Bucket:        viper.GetString("MINIO_BUCKET"),
			UseSSL:        viper.GetBool("MINIO_USE_SSL"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		Document: DocumentConfig{
			FetchTimeout:     time.Duration(viper.GetInt("PDF_FETCH_TIMEOUT_SECONDS")) * time.Second,
			FetchAttempts:    viper.GetInt("PDF_FETCH_ATTEMPTS"),
			FetchBackoff:     time.Duration(viper.GetInt("PDF_FETCH_BACKOFF_MS")) * time.Millisecond,
			MaxRedirects:     viper.GetInt("PDF_MAX_REDIRECTS"),
			AssetDirs:        viper.GetStringSlice("PDF_ASSET_DIRS"),
			LogoCandidates:   viper.GetStringSlice("PDF_LOGO_CANDIDATES"),
			LetterheadPath:   viper.GetString("PDF_LETTERHEAD_PATH"),
			ImageConcurrency: viper.GetInt("PDF_IMAGE_CONCURRENCY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
