package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("expected error for explicit missing path")
	}
	_ = cfg

	// Empty path with no standard file present falls back to defaults.
	dir := t.TempDir()
	prev, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(prev)

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected default addr :8000, got %s", cfg.Server.Addr)
	}
	if cfg.Store.Type != "snapshot" || cfg.Store.Path != "resume_index" {
		t.Errorf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.LLM.Model != "gemini-2.0-flash" || cfg.LLM.MaxTokens != 500 {
		t.Errorf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.Retrieval.TopK != 4 {
		t.Errorf("expected default top_k 4, got %d", cfg.Retrieval.TopK)
	}
}

func TestLoadFileWithOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "careerguide.toml")
	content := `
[server]
addr = ":9090"

[store]
type = "sqlite"

[llm]
provider = "openai"
model = "gpt-4o-mini"
timeout_secs = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr override, got %s", cfg.Server.Addr)
	}
	if cfg.Store.Path != "resume_index.db" {
		t.Errorf("sqlite store should default to resume_index.db, got %s", cfg.Store.Path)
	}
	if cfg.LLM.MaxTokens != 500 {
		t.Errorf("unset max_tokens should keep default 500, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.GenerateTimeout() != 10*time.Second {
		t.Errorf("expected 10s generate timeout, got %s", cfg.GenerateTimeout())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CAREERGUIDE_ADDR", ":7000")

	dir := t.TempDir()
	prev, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(prev)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("expected api key from env, got %q", cfg.GeminiAPIKey)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected addr env override, got %s", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Store.Type = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown store type should fail validation")
	}

	cfg = Default()
	cfg.Retrieval.TopK = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero top_k should fail validation")
	}
}
