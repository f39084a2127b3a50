package config

import (
	"os"
	"strconv"
)

const (
	defaultPort          = "8080"
	defaultDBPath        = "data/snapplate.db"
	defaultQuotaBytes    = 5 * 1024 * 1024
	defaultSafetyBytes   = 4 * 1024 * 1024
	defaultKeepDays      = 30
	defaultEmergencyDays = 7
)

// Config is the process configuration read from the environment. The AI_*
// values form the server-side provider defaults a caller can opt into with
// useServerConfig.
type Config struct {
	Port   string
	DBPath string

	ServerAPIKey    string
	ServerProvider  string
	ServerModel     string
	ServerCustomURL string

	QuotaBytes    int64
	SafetyBytes   int64
	KeepDays      int
	EmergencyDays int
}

func FromEnv() Config {
	return Config{
		Port:            getEnv("PORT", defaultPort),
		DBPath:          getEnv("DB_PATH", defaultDBPath),
		ServerAPIKey:    os.Getenv("AI_API_KEY"),
		ServerProvider:  os.Getenv("AI_PROVIDER"),
		ServerModel:     os.Getenv("AI_MODEL"),
		ServerCustomURL: os.Getenv("AI_CUSTOM_API_URL"),
		QuotaBytes:      getEnvInt64("LOG_QUOTA_BYTES", defaultQuotaBytes),
		SafetyBytes:     getEnvInt64("LOG_SAFETY_BYTES", defaultSafetyBytes),
		KeepDays:        defaultKeepDays,
		EmergencyDays:   defaultEmergencyDays,
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
