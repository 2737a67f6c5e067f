package config

import (
	"os"

	"github.com/joho/godotenv"
)

// KnownKeys defines environment variable keys that medbot recognizes.
var KnownKeys = []string{
	"MEDBOT_OPENAI_BASE_URL",
	"MEDBOT_OPENAI_API_KEY",
	"MEDBOT_CHAT_MODEL",
	"MEDBOT_EMBEDDING_MODEL",
	"MEDBOT_NER_URL",
	"MEDBOT_VECTOR_PROVIDER",
	"MEDBOT_PGVECTOR_DSN",
	"MEDBOT_GUIDELINE_URLS",
	"MEDBOT_LOG_LEVEL",
	"GOOGLE_CLIENT_ID",
	"GOOGLE_CLIENT_SECRET",
	"GOOGLE_OAUTH2_ACCESS_TOKEN",
	"GOOGLE_ID_TOKEN",
	"GOOGLE_OAUTH2_REFRESH_TOKEN",
}

// EnvFile returns the path of the environment file, MEDBOT_ENV_FILE or ".env".
func EnvFile() string {
	if v := os.Getenv("MEDBOT_ENV_FILE"); v != "" {
		return v
	}
	return ".env"
}

// LoadAndApply reads the environment file and applies values for known keys
// into the process environment. Variables already set take precedence over
// file values. A missing file is not an error.
func LoadAndApply() error {
	vals, err := godotenv.Read(EnvFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, key := range KnownKeys {
		if os.Getenv(key) != "" {
			continue
		}
		if v, ok := vals[key]; ok && v != "" {
			os.Setenv(key, v)
		}
	}
	return nil
}

// Get returns the env value for key, or def when unset.
func Get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
