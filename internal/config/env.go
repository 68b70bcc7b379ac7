package config

import (
	"fmt"
	"os"
	"strings"
)

func lookup(name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("no %s env variable set", name)
	}
	return value, nil
}

// lookupSecret reads name or, failing that, the file named by name_FILE.
func lookupSecret(name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if ok {
		return value, nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok {
		return "", fmt.Errorf("no %s or %s_FILE env variable set", name, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read %s_FILE: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func getenv(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}
	return fallback
}
