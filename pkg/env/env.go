package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// Instance names the running process for log correlation (container hostname or a platform dyno id).
func Instance() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return Get("HOSTNAME", "local")
}
