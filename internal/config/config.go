package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	LogToDB     bool

	// Source collections watched by the live board
	TrafficCollection    string
	SuspiciousCollection string
	FeedbackCollection   string

	Timezone           string
	ResolveTimeout     time.Duration
	ResolveConcurrency int
	StrictCategories   bool

	KPISnapshotSchedule string
	AMQPURL             string
	AllowedOrigins      string

	MapCenterLat float64
	MapCenterLon float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		DBName:      getEnv("DB_NAME", "campus-incidents"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "campus-incidents"),
		LogToDB:     getEnv("LOG_TO_DB", "true") == "true",

		TrafficCollection:    getEnv("TRAFFIC_COLLECTION", "traffic_reports"),
		SuspiciousCollection: getEnv("SUSPICIOUS_COLLECTION", "suspicious_reports"),
		FeedbackCollection:   getEnv("FEEDBACK_COLLECTION", "feedback"),

		Timezone:           getEnv("TIMEZONE", "Local"),
		ResolveTimeout:     getDuration("RESOLVE_TIMEOUT", 5*time.Second),
		ResolveConcurrency: getInt("RESOLVE_CONCURRENCY", 16),
		StrictCategories:   getEnv("STRICT_CATEGORIES", "false") == "true",

		KPISnapshotSchedule: getEnv("KPI_SNAPSHOT_SCHEDULE", "0 * * * *"),
		AMQPURL:             getEnv("AMQP_URL", ""),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:5173, http://localhost:8000"),

		MapCenterLat: getFloat("MAP_CENTER_LAT", 1.5632),
		MapCenterLon: getFloat("MAP_CENTER_LON", 103.6424),
	}, nil
}

// Location resolves the configured timezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using Local: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil && v > 0 {
		return v
	}
	return fallback
}
