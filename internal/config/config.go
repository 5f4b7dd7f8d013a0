package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// MediaConfig holds object storage settings for uploaded videos.
type MediaConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	AccessKey     string        `yaml:"accessKey"`
	SecretKey     string        `yaml:"secretKey"`
	Bucket        string        `yaml:"bucket"`
	UseSSL        bool          `yaml:"useSSL"`
	Folder        string        `yaml:"folder"`
	UploadExpiry  time.Duration `yaml:"uploadExpiry"`
	PublicBaseURL string        `yaml:"publicBaseURL"`
}

// Config holds runtime configuration shared across the application.
// It is built once at start-up and never mutated afterwards.
type Config struct {
	Addr                    string
	MongoURI                string
	MongoDatabase           string
	InterviewCollection     string
	VideoResponseCollection string
	EvaluationCollection    string
	UserCollection          string
	Timeout                 time.Duration
	RequestTimeout          time.Duration
	ServerLog               *log.Logger
	JWTConfigs              []JWTConfig
	JWTAudience             string
	TokenTTL                time.Duration
	Roles                   domain.Roles
	DefaultPageLimit        int
	MaxPageLimit            int
	AllowedOrigins          []string
	Media                   MediaConfig
	MetricsEnabled          bool
	ServiceName             string
}

// fileConfig mirrors the optional YAML file named by CONFIG_FILE.
type fileConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	Mongo          struct {
		URI            string        `yaml:"uri"`
		Database       string        `yaml:"database"`
		ConnectTimeout time.Duration `yaml:"connectTimeout"`
		Collections    struct {
			Interviews     string `yaml:"interviews"`
			VideoResponses string `yaml:"videoResponses"`
			Evaluations    string `yaml:"evaluations"`
			Users          string `yaml:"users"`
		} `yaml:"collections"`
	} `yaml:"mongo"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	Auth           struct {
		Issuer   string        `yaml:"issuer"`
		Audience string        `yaml:"audience"`
		TokenTTL time.Duration `yaml:"tokenTTL"`
	} `yaml:"auth"`
	Roles      domain.Roles `yaml:"roles"`
	Pagination struct {
		DefaultLimit int `yaml:"defaultLimit"`
		MaxLimit     int `yaml:"maxLimit"`
	} `yaml:"pagination"`
	Media   MediaConfig `yaml:"media"`
	Metrics *bool       `yaml:"metrics"`
	Service string      `yaml:"serviceName"`
}

func defaults() Config {
	return Config{
		Addr:                    ":8080",
		MongoURI:                "mongodb://mongo:27017",
		MongoDatabase:           "video-interview",
		InterviewCollection:     "interviews",
		VideoResponseCollection: "videoresponses",
		EvaluationCollection:    "evaluations",
		UserCollection:          "users",
		Timeout:                 10 * time.Second,
		RequestTimeout:          30 * time.Second,
		TokenTTL:                30 * 24 * time.Hour,
		Roles:                   domain.DefaultRoles(),
		DefaultPageLimit:        10,
		MaxPageLimit:            100,
		AllowedOrigins:          []string{"*"},
		Media: MediaConfig{
			Bucket:       "video-interviews",
			Folder:       "video_interviews",
			UploadExpiry: 15 * time.Minute,
		},
		MetricsEnabled: true,
		ServiceName:    "video-interview-api",
	}
}

// Load reads configuration and exits the process when it is unusable.
func Load() Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	cfg.ServerLog.Printf("loaded config: addr=%q db=%q mediaEndpoint=%q bucket=%q", cfg.Addr, cfg.MongoDatabase, cfg.Media.Endpoint, cfg.Media.Bucket)
	return cfg
}

// LoadFromEnv builds a Config from defaults, the optional CONFIG_FILE and
// environment variables, in that order of precedence.
func LoadFromEnv() (Config, error) {
	cfg := defaults()
	issuer := "video-interview-auth"

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		fc.apply(&cfg)
		if fc.Auth.Issuer != "" {
			issuer = fc.Auth.Issuer
		}
	}

	cfg.Addr = envOrDefault("HTTP_ADDR", cfg.Addr)
	cfg.MongoURI = envOrDefault("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = envOrDefault("MONGO_DB", cfg.MongoDatabase)
	cfg.InterviewCollection = envOrDefault("INTERVIEW_COLLECTION", cfg.InterviewCollection)
	cfg.VideoResponseCollection = envOrDefault("VIDEO_RESPONSE_COLLECTION", cfg.VideoResponseCollection)
	cfg.EvaluationCollection = envOrDefault("EVALUATION_COLLECTION", cfg.EvaluationCollection)
	cfg.UserCollection = envOrDefault("USER_COLLECTION", cfg.UserCollection)
	cfg.Timeout = envDuration("MONGO_CONNECT_TIMEOUT", cfg.Timeout)
	cfg.RequestTimeout = envDuration("HTTP_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.AllowedOrigins = parseList("API_ALLOWED_ORIGINS", cfg.AllowedOrigins)

	cfg.Roles.Interviewer = envOrDefault("ROLE_INTERVIEWER", cfg.Roles.Interviewer)
	cfg.Roles.Applicant = envOrDefault("ROLE_APPLICANT", cfg.Roles.Applicant)
	cfg.Roles.Evaluator = envOrDefault("ROLE_EVALUATOR", cfg.Roles.Evaluator)
	cfg.Roles.Admin = envOrDefault("ROLE_ADMIN", cfg.Roles.Admin)

	cfg.DefaultPageLimit = envInt("PAGE_DEFAULT_LIMIT", cfg.DefaultPageLimit)
	cfg.MaxPageLimit = envInt("PAGE_MAX_LIMIT", cfg.MaxPageLimit)
	if cfg.DefaultPageLimit <= 0 || cfg.MaxPageLimit < cfg.DefaultPageLimit {
		return Config{}, fmt.Errorf("invalid pagination limits: default=%d max=%d", cfg.DefaultPageLimit, cfg.MaxPageLimit)
	}

	cfg.Media.Endpoint = envOrDefault("MINIO_ENDPOINT", cfg.Media.Endpoint)
	cfg.Media.AccessKey = envOrDefault("MINIO_ACCESS_KEY", cfg.Media.AccessKey)
	cfg.Media.SecretKey = envOrDefault("MINIO_SECRET_KEY", cfg.Media.SecretKey)
	cfg.Media.Bucket = envOrDefault("MINIO_BUCKET", cfg.Media.Bucket)
	cfg.Media.UseSSL = envBool("MINIO_USE_SSL", cfg.Media.UseSSL)
	cfg.Media.Folder = envOrDefault("MEDIA_UPLOAD_FOLDER", cfg.Media.Folder)
	cfg.Media.UploadExpiry = envDuration("MEDIA_UPLOAD_EXPIRY", cfg.Media.UploadExpiry)
	cfg.Media.PublicBaseURL = strings.TrimRight(envOrDefault("MEDIA_PUBLIC_BASE_URL", cfg.Media.PublicBaseURL), "/")

	cfg.MetricsEnabled = envBool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.ServiceName = envOrDefault("OTEL_SERVICE_NAME", cfg.ServiceName)

	cfg.TokenTTL = envDuration("AUTH_TOKEN_TTL", cfg.TokenTTL)
	issuer = envOrDefault("AUTH_JWT_ISSUER", issuer)
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		cfg.JWTConfigs = append(cfg.JWTConfigs, JWTConfig{Issuer: issuer, Secret: []byte(secret)})
	}
	// A previous secret stays accepted while tokens signed with it expire.
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_PREVIOUS_SECRET")); secret != "" {
		cfg.JWTConfigs = append(cfg.JWTConfigs, JWTConfig{Issuer: issuer, Secret: []byte(secret)})
	}
	if len(cfg.JWTConfigs) == 0 {
		return Config{}, errors.New("JWT secret not configured. Set AUTH_JWT_SECRET")
	}
	cfg.JWTAudience = envOrDefault("AUTH_JWT_AUDIENCE", cfg.JWTAudience)

	cfg.ServerLog = log.New(os.Stdout, "[video-interview-api] ", log.LstdFlags|log.Lshortfile)
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func (fc fileConfig) apply(cfg *Config) {
	setString(&cfg.Addr, fc.Addr)
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	setString(&cfg.MongoURI, fc.Mongo.URI)
	setString(&cfg.MongoDatabase, fc.Mongo.Database)
	setString(&cfg.InterviewCollection, fc.Mongo.Collections.Interviews)
	setString(&cfg.VideoResponseCollection, fc.Mongo.Collections.VideoResponses)
	setString(&cfg.EvaluationCollection, fc.Mongo.Collections.Evaluations)
	setString(&cfg.UserCollection, fc.Mongo.Collections.Users)
	if fc.Mongo.ConnectTimeout > 0 {
		cfg.Timeout = fc.Mongo.ConnectTimeout
	}
	if fc.RequestTimeout > 0 {
		cfg.RequestTimeout = fc.RequestTimeout
	}
	setString(&cfg.JWTAudience, fc.Auth.Audience)
	if fc.Auth.TokenTTL > 0 {
		cfg.TokenTTL = fc.Auth.TokenTTL
	}
	setString(&cfg.Roles.Interviewer, fc.Roles.Interviewer)
	setString(&cfg.Roles.Applicant, fc.Roles.Applicant)
	setString(&cfg.Roles.Evaluator, fc.Roles.Evaluator)
	setString(&cfg.Roles.Admin, fc.Roles.Admin)
	if fc.Pagination.DefaultLimit > 0 {
		cfg.DefaultPageLimit = fc.Pagination.DefaultLimit
	}
	if fc.Pagination.MaxLimit > 0 {
		cfg.MaxPageLimit = fc.Pagination.MaxLimit
	}
	setString(&cfg.Media.Endpoint, fc.Media.Endpoint)
	setString(&cfg.Media.AccessKey, fc.Media.AccessKey)
	setString(&cfg.Media.SecretKey, fc.Media.SecretKey)
	setString(&cfg.Media.Bucket, fc.Media.Bucket)
	setString(&cfg.Media.Folder, fc.Media.Folder)
	setString(&cfg.Media.PublicBaseURL, fc.Media.PublicBaseURL)
	if fc.Media.UseSSL {
		cfg.Media.UseSSL = true
	}
	if fc.Media.UploadExpiry > 0 {
		cfg.Media.UploadExpiry = fc.Media.UploadExpiry
	}
	if fc.Metrics != nil {
		cfg.MetricsEnabled = *fc.Metrics
	}
	setString(&cfg.ServiceName, fc.Service)
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
