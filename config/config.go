package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Store     StoreConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Dashboard DashboardConfig
	JWT       JWTConfig
	Upstream  UpstreamConfig
	Seed      SeedConfig
	Ocr       OcrConfig
	User      UserConfig
}

type AppConfig struct {
	Port           string
	Env            string
	AllowedOrigins string
}

type LogConfig struct {
	Level string
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DashboardConfig struct {
	CacheTTL time.Duration
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type UpstreamConfig struct {
	APIKey                   string
	Timeout                  time.Duration
	VerifyDoctorURL          string
	OcrURL                   string
	DoctorsURL               string
	DoctorFeedbacksURL       string
	DoctorProfilesURL        string
	ClinicHistoriesURL       string
	ConsultationHistoriesURL string
	ClinicFeedbacksURL       string
}

type SeedConfig struct {
	Schedule string
}

type OcrConfig struct {
	KeySource string
	KeySecret string
}

type UserConfig struct {
	EmailSecret string
}

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORE_DRIVER", StoreDriverMongo)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "medical_admin")
	viper.SetDefault("OCR_KEY_SOURCE", "name")

	config := &Config{
		App: AppConfig{
			Port:           viper.GetString("APP_PORT"),
			Env:            viper.GetString("APP_ENV"),
			AllowedOrigins: viper.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver: viper.GetString("STORE_DRIVER"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DATABASE"),
			Timeout:  durationOr("MONGO_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Dashboard: DashboardConfig{
			CacheTTL: durationOr("DASHBOARD_CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: durationOr("JWT_ACCESS_EXPIRY", time.Hour),
		},
		Upstream: UpstreamConfig{
			APIKey:                   viper.GetString("UPSTREAM_API_KEY"),
			Timeout:                  durationOr("UPSTREAM_TIMEOUT", 15*time.Second),
			VerifyDoctorURL:          viper.GetString("UPSTREAM_VERIFY_DOCTOR_URL"),
			OcrURL:                   viper.GetString("UPSTREAM_OCR_URL"),
			DoctorsURL:               viper.GetString("UPSTREAM_DOCTORS_URL"),
			DoctorFeedbacksURL:       viper.GetString("UPSTREAM_DOCTOR_FEEDBACKS_URL"),
			DoctorProfilesURL:        viper.GetString("UPSTREAM_DOCTOR_PROFILES_URL"),
			ClinicHistoriesURL:       viper.GetString("UPSTREAM_CLINIC_HISTORIES_URL"),
			ConsultationHistoriesURL: viper.GetString("UPSTREAM_CONSULTATION_HISTORIES_URL"),
			ClinicFeedbacksURL:       viper.GetString("UPSTREAM_CLINIC_FEEDBACKS_URL"),
		},
		Seed: SeedConfig{
			Schedule: viper.GetString("SEED_SCHEDULE"),
		},
		Ocr: OcrConfig{
			KeySource: viper.GetString("OCR_KEY_SOURCE"),
			KeySecret: viper.GetString("OCR_KEY_SECRET"),
		},
		User: UserConfig{
			EmailSecret: viper.GetString("EMAIL_SECRET"),
		},
	}

	return config, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
