package config

import (
	"os"
	"strings"
)

type Config struct {
	Port           string
	Environment    string   // ENV: production, development, etc.
	APIBaseURL     string   // Platform API host; relative prefix when unset
	RedisURI       string   // Optional; Redis rate limiting is skipped when empty
	CookieSealKey  string   // Optional; base64 32 bytes, token cookie is sealed when set
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
}

// DefaultAPIPrefix is used when API_BASE_URL is unset: the gateway assumes
// the platform API is reachable same-origin behind this prefix.
const DefaultAPIPrefix = "/api/v1"

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	apiBase := strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", "")), "/")
	if apiBase == "" {
		apiBase = DefaultAPIPrefix
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", ""), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		APIBaseURL:     apiBase,
		RedisURI:       getEnv("REDIS_URI", ""),
		CookieSealKey:  getEnv("COOKIE_SEAL_KEY", ""),
		AllowedOrigins: allowedOrigins,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
