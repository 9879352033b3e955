package config

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

const (
	DefaultJWTSecret = "not-so-secret-now-is-it?"
	DefaultTokenTTL  = 36000 * time.Minute
)

type R2Config struct {
	AccountID       string `yaml:"account_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BucketName      string `yaml:"bucket_name"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether Google sign-in routes should be mounted.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// Config is built once at startup and passed to every component that needs it.
// Nothing mutates it afterwards.
type Config struct {
	Port          string        `yaml:"port"`
	Environment   string        `yaml:"env"`
	LogLevel      string        `yaml:"log_level"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	DBDriver      string        `yaml:"db_driver"`
	DB_URL        string        `yaml:"db_url"`
	MongoDatabase string        `yaml:"mongo_database"`
	StorageDriver string        `yaml:"storage_driver"`
	UploadDir     string        `yaml:"upload_dir"`
	CorsOrigins   []string      `yaml:"cors_allowed_origins"`
	R2            R2Config      `yaml:"r2"`
	Google        GoogleConfig  `yaml:"google"`
}

// Defaults returns the configuration used when nothing else is provided.
func Defaults() Config {
	return Config{
		Port:          "3000",
		Environment:   "development",
		LogLevel:      "info",
		JWTSecret:     DefaultJWTSecret,
		TokenTTL:      DefaultTokenTTL,
		DBDriver:      "postgres",
		MongoDatabase: "notely",
		StorageDriver: "local",
		UploadDir:     "uploads",
		CorsOrigins:   []string{"*"},
		R2: R2Config{
			Region: "auto",
		},
	}
}

// Load applies, in order: defaults, the YAML file named by CONFIG_FILE,
// the dotenv file named by ENV_FILE (".env" by default) and the process environment.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found, using process environment")
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	// ACCESS_TOKEN_SECRET is the name older deployments used.
	cfg.JWTSecret = getEnv("JWT_SECRET", getEnv("ACCESS_TOKEN_SECRET", cfg.JWTSecret))
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DB_URL = getEnv("DB_URL", cfg.DB_URL)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.StorageDriver = getEnv("STORAGE_DRIVER", cfg.StorageDriver)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}
	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		cfg.CorsOrigins = splitList(v)
	}

	cfg.R2.AccountID = getEnv("R2_ACCOUNT_ID", cfg.R2.AccountID)
	cfg.R2.AccessKeyID = getEnv("R2_ACCESS_KEY_ID", cfg.R2.AccessKeyID)
	cfg.R2.SecretAccessKey = getEnv("R2_SECRET_ACCESS_KEY", cfg.R2.SecretAccessKey)
	cfg.R2.BucketName = getEnv("R2_BUCKET_NAME", cfg.R2.BucketName)
	cfg.R2.Region = getEnv("R2_REGION", cfg.R2.Region)
	cfg.R2.Endpoint = getEnv("R2_ENDPOINT", cfg.R2.Endpoint)

	cfg.Google.ClientID = getEnv("GOOGLE_CLIENT_ID", cfg.Google.ClientID)
	cfg.Google.ClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.Google.ClientSecret)
	cfg.Google.RedirectURL = getEnv("GOOGLE_REDIRECT_URL", cfg.Google.RedirectURL)
	return nil
}

// Validate checks the combinations Load cannot express through defaults alone.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mongo":
		if c.DB_URL == "" {
			return fmt.Errorf("DB_URL is required for db driver %q", c.DBDriver)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown db driver %q", c.DBDriver)
	}

	switch c.StorageDriver {
	case "local":
		if c.UploadDir == "" {
			return errors.New("UPLOAD_DIR must not be empty")
		}
	case "s3":
		if c.R2.BucketName == "" {
			return errors.New("R2_BUCKET_NAME is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) CorsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: c.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
	}
}
