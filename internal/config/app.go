package config

import (
	"fmt"
	"strings"
	"time"
)

func Addr() string {
	return getenv("APP_ADDR", ":8080")
}

func BasePath() string {
	return getenv("APP_BASE_PATH", "")
}

// CorsOrigins lists the origins allowed to call the api, comma separated.
// Empty allows any origin.
func CorsOrigins() []string {
	var origins []string
	for _, o := range strings.Split(getenv("CORS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LogFile is where the engine log is rotated to. Empty means stderr only.
func LogFile() string {
	return getenv("LOG_FILE", "")
}

// SessionIdle is how long a game session may sit untouched before it is
// dropped.
func SessionIdle() (time.Duration, error) {
	idle, err := time.ParseDuration(getenv("SESSION_IDLE", "30m"))
	if err != nil {
		return 0, fmt.Errorf("invalid SESSION_IDLE: %w", err)
	}
	if idle <= 0 {
		return 0, fmt.Errorf("SESSION_IDLE must be positive")
	}
	return idle, nil
}
