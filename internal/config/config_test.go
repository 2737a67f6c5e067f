package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndApplyEnvWins(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	content := "MEDBOT_CHAT_MODEL=file-model\nMEDBOT_NER_URL=http://file:9000\n"
	if err := os.WriteFile(env, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MEDBOT_ENV_FILE", env)
	t.Setenv("MEDBOT_CHAT_MODEL", "env-model")
	t.Setenv("MEDBOT_NER_URL", "")

	if err := LoadAndApply(); err != nil {
		t.Fatalf("LoadAndApply: %v", err)
	}
	if got := os.Getenv("MEDBOT_CHAT_MODEL"); got != "env-model" {
		t.Fatalf("env should win over file, got %q", got)
	}
	if got := os.Getenv("MEDBOT_NER_URL"); got != "http://file:9000" {
		t.Fatalf("file value not applied, got %q", got)
	}
}

func TestLoadAndApplyMissingFile(t *testing.T) {
	t.Setenv("MEDBOT_ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))
	if err := LoadAndApply(); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
}

func TestGetDefault(t *testing.T) {
	t.Setenv("MEDBOT_VECTOR_PROVIDER", "")
	if got := Get("MEDBOT_VECTOR_PROVIDER", "memory"); got != "memory" {
		t.Fatalf("Get default: %q", got)
	}
	t.Setenv("MEDBOT_VECTOR_PROVIDER", "sqlite")
	if got := Get("MEDBOT_VECTOR_PROVIDER", "memory"); got != "sqlite" {
		t.Fatalf("Get set: %q", got)
	}
}
