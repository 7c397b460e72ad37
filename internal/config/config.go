// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the user store connection string.
	DatabaseDSN string

	// SessionServiceURL is the base URL of the external session service.
	SessionServiceURL string

	// CORSOrigins is the comma-separated origin allow-list. The literal
	// "*" admits any http/https origin.
	CORSOrigins string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "user store DSN")
	flag.StringVar(&options.SessionServiceURL, "s", "http://localhost:8081", "session service base URL")
	flag.StringVar(&options.CORSOrigins, "o", "*", "comma-separated CORS origin allow-list")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	// Pick up a local .env file, if any, before reading the environment.
	_ = godotenv.Load()

	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if databaseDSN := os.Getenv("DATABASE_DSN"); databaseDSN != "" {
		options.DatabaseDSN = databaseDSN
	}
	if sessionURL := os.Getenv("SESSION_SERVICE_URL"); sessionURL != "" {
		options.SessionServiceURL = sessionURL
	}
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		options.CORSOrigins = corsOrigins
	}

	return options
}

// AllowedOrigins splits the configured origin list, trimming whitespace
// and dropping empty entries.
func (o *Options) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(o.CORSOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
