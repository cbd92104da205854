// Package config reads the service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port string

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	PreviewTTL    time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	DetectionURL     string
	PlateURL         string
	DetectionTimeout time.Duration
	DetectionRate    float64

	UploadDir        string
	PublicBaseURL    string
	EmergencySection bool
	CORSOrigins      []string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string

	SnapshotSchedule  string
	SnapshotRetention time.Duration

	LogLevel string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "garagy")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("PREVIEW_TTL", 30*time.Minute)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", time.Hour)
	v.SetDefault("DETECTION_URL", "http://localhost:5000/parking-detection")
	v.SetDefault("PLATE_URL", "http://localhost:5000/upload")
	v.SetDefault("DETECTION_TIMEOUT", 60*time.Second)
	v.SetDefault("DETECTION_RATE", 1.0)
	v.SetDefault("UPLOAD_DIR", "static/uploads")
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("EMERGENCY_SECTION", true)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("SENDGRID_FROM_EMAIL", "")
	v.SetDefault("SENDGRID_FROM_NAME", "Garagy")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_FROM_NUMBER", "")
	v.SetDefault("SNAPSHOT_SCHEDULE", "@every 15m")
	v.SetDefault("SNAPSHOT_RETENTION", 720*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	return v
}

// Load reads envFile if it exists (a missing file is not an error), then
// the process environment. Variables already set in the environment win
// over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	v := newViper()

	cfg := Config{
		Port:              v.GetString("PORT"),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDatabase:     v.GetString("MONGO_DATABASE"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		PreviewTTL:        v.GetDuration("PREVIEW_TTL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		DetectionURL:      v.GetString("DETECTION_URL"),
		PlateURL:          v.GetString("PLATE_URL"),
		DetectionTimeout:  v.GetDuration("DETECTION_TIMEOUT"),
		DetectionRate:     v.GetFloat64("DETECTION_RATE"),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		PublicBaseURL:     strings.TrimSuffix(v.GetString("PUBLIC_BASE_URL"), "/"),
		EmergencySection:  v.GetBool("EMERGENCY_SECTION"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		SendGridAPIKey:    v.GetString("SENDGRID_API_KEY"),
		SendGridFromEmail: v.GetString("SENDGRID_FROM_EMAIL"),
		SendGridFromName:  v.GetString("SENDGRID_FROM_NAME"),
		TwilioAccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  v.GetString("TWILIO_FROM_NUMBER"),
		SnapshotSchedule:  v.GetString("SNAPSHOT_SCHEDULE"),
		SnapshotRetention: v.GetDuration("SNAPSHOT_RETENTION"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL not set")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.DetectionRate <= 0 {
		return fmt.Errorf("config: DETECTION_RATE must be positive, got %v", c.DetectionRate)
	}
	return nil
}

// RequireJWTSecret is checked by commands that issue or verify tokens.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET not set")
	}
	return nil
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
