package config

import (
	"os"
	"strconv"
)

// WeatherConfig holds the fixed coordinates and display label for the
// home-page weather widget.
type WeatherConfig struct {
	Latitude  float64
	Longitude float64
	Location  string
}

// Config is the centralized application configuration. It is populated from
// environment variables (a .env file is auto-loaded by importing
// github.com/joho/godotenv/autoload in main) and passed explicitly into
// constructors; nothing reads the environment after startup.
type Config struct {
	Port          string
	Mode          string
	DatabasePath  string
	SessionSecret string
	UploadsDir    string
	UploadsPrefix string
	LogDir        string
	Weather       WeatherConfig
}

// Load reads configuration from environment variables. Real environment
// variables take precedence over .env entries.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Mode:          getEnv("MODE", "production"),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/blog.db"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		UploadsDir:    getEnv("UPLOADS_DIR", "./data/uploads"),
		UploadsPrefix: "/uploads",
		LogDir:        getEnv("LOG_DIR", "./data/logs"),
		Weather: WeatherConfig{
			Latitude:  getEnvFloat("WEATHER_LAT", 51.5072),
			Longitude: getEnvFloat("WEATHER_LON", -0.1276),
			Location:  getEnv("WEATHER_LOCATION", "London"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
