package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ExplicitMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("Load: expected error")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Fatalf("error: got %q", err)
	}
}

func TestLoad_DefaultPathMissingFallsBackToDefaults(t *testing.T) {
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	t.Setenv("ANTHROPIC_API_KEY", "env_key")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.LLM.DefaultProvider; got != "claude" {
		t.Fatalf("DefaultProvider: got %q want %q", got, "claude")
	}
	if cfg.LLM.Providers["claude"].APIKey != "env_key" {
		t.Fatalf("claude api_key: got %q want %q", cfg.LLM.Providers["claude"].APIKey, "env_key")
	}
}

func TestLoad_ParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte(":"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load: expected error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Fatalf("error: got %q", err)
	}
}

func TestLoad_FileValuesAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(`
llm:
  default_provider: "  "
  providers:
    claude:
      api_key: "file_key"
      base_url: "https://example.test"
      model: "m1"
benchmark:
  sample_size: 25
  max_tokens: 2048
  temperature: 0.2
  timeout: 90s
storage:
  type: sqlite
  path: lb.db
`)), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "env_key")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "env_token_ignored")
	t.Setenv("OPENAI_API_KEY", "openai_env_key")

	cfg, err := Load(" \t " + path + " \n")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.LLM.DefaultProvider; got != "claude" {
		t.Fatalf("DefaultProvider: got %q want %q", got, "claude")
	}

	cp := cfg.LLM.Providers["claude"]
	if cp.APIKey != "env_key" {
		t.Fatalf("claude api_key: got %q want %q", cp.APIKey, "env_key")
	}
	if cp.BaseURL != "https://example.test" || cp.Model != "m1" {
		t.Fatalf("claude other fields changed: got base_url=%q model=%q", cp.BaseURL, cp.Model)
	}

	op := cfg.LLM.Providers["openai"]
	if op.APIKey != "openai_env_key" {
		t.Fatalf("openai api_key: got %q want %q", op.APIKey, "openai_env_key")
	}

	if cfg.Benchmark.SampleSize != 25 || cfg.Benchmark.MaxTokens != 2048 {
		t.Fatalf("benchmark: got %+v", cfg.Benchmark)
	}
	if cfg.Benchmark.Timeout != 90*time.Second {
		t.Fatalf("timeout: got %v", cfg.Benchmark.Timeout)
	}
	if cfg.Storage.Type != "sqlite" || cfg.Storage.Path != "lb.db" {
		t.Fatalf("storage: got %+v", cfg.Storage)
	}
}

func TestLoad_AnthropicAuthTokenFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(`
llm:
  providers:
    claude:
      api_key: "file_key"
      model: "m1"
`)), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "token_key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cp := cfg.LLM.Providers["claude"]
	if cp.APIKey != "token_key" {
		t.Fatalf("claude api_key: got %q want %q", cp.APIKey, "token_key")
	}
	if cp.Model != "m1" {
		t.Fatalf("claude model changed: got %q want %q", cp.Model, "m1")
	}
}
