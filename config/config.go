package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                 string        `env:"ENV" envDefault:"development"`
	Port                int           `env:"PORT" envDefault:"8080"`
	Dsn                 string        `env:"DATABASE_URL,notEmpty"`
	JwtSecret           string        `env:"JWT_SECRET,notEmpty"`
	JwtExpires          time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
	FrontendURL         string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	AuthRateLimit       int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	GoogleMapsAPIKey    string        `env:"GOOGLE_MAPS_API_KEY"`
	GoogleClientID      string        `env:"GOOGLE_CLIENT_ID"`
	CloudinaryCloudName string        `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string        `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string        `env:"CLOUDINARY_API_SECRET"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CloudinaryEnabled reports whether cover uploads can be served.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("[Env]: failed to parse environment variables: %v", err)
	}

	return cfg
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
