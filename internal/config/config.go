package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string
	TokenTTL    time.Duration
	CatalogCSV  string
	CORSOrigins []string
	Admin       AdminConfig
}

// AdminConfig describes the account seeded into an empty users table.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Load reads configuration from the environment (and an optional .env file)
// with reasonable defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SECRET", "dev_secret")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATABASE_DSN", "pharmasync.db")
	v.SetDefault("TOKEN_TTL_HOURS", 168)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@pharmasync.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("CATALOG_CSV", "")
	v.SetDefault("CORS_ORIGINS", "*")

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	port := v.GetString("HTTP_PORT")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	ttlHours := v.GetInt("TOKEN_TTL_HOURS")
	if ttlHours <= 0 {
		log.Printf("invalid TOKEN_TTL_HOURS value %d, defaulting to 168", ttlHours)
		ttlHours = 168
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return Config{
		Secret:      v.GetString("SECRET"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		HTTPPort:    port,
		TokenTTL:    time.Duration(ttlHours) * time.Hour,
		CatalogCSV:  v.GetString("CATALOG_CSV"),
		CORSOrigins: origins,
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    strings.ToLower(v.GetString("ADMIN_EMAIL")),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
}
