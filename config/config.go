// Package config loads server configuration from the environment, with a
// .env file picked up when present. Flags in cmd/server override whatever
// is loaded here.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the server's environment-driven configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database path. ":memory:" for ephemeral.
	DBPath string

	// RenewalScanInterval is the reminder scheduler's check interval in
	// minutes. Zero disables the scheduler.
	RenewalScanInterval int

	// FrontendOrigin is an extra CORS origin on top of the two dev
	// frontends the router always allows.
	FrontendOrigin string
}

// Load reads the environment (and .env when present) into a Config.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	scanInterval, _ := strconv.Atoi(getEnv("RENEWAL_SCAN_INTERVAL_MINUTES", "60"))

	return Config{
		Port:                port,
		DBPath:              getEnv("DB_PATH", "advisorhub.db"),
		RenewalScanInterval: scanInterval,
		FrontendOrigin:      getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
