package config

import "os"

// Config holds everything the server reads from the environment. All fields
// have working defaults for local development; only POSTGRES_URL changes
// behavior by its absence (snapshot archiving stays off without it).
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// FrontendOrigin is the origin allowed by CORS and the websocket
	// origin check. "*" allows everything.
	FrontendOrigin string

	// PostgresURL enables snapshot archiving when set.
	PostgresURL string

	// Debug switches log output to human-readable console format at
	// debug level.
	Debug bool
}

func FromEnv() Config {
	return Config{
		Addr:           getenv("SHAMROCK_ADDR", ":8080"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "*"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		Debug:          os.Getenv("SHAMROCK_DEBUG") != "",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
