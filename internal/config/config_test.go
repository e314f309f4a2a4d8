package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	value string
	err   error
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

func noKeychain() mockKeychain { return mockKeychain{err: errors.New("no keychain")} }

func writeTempConfig(t *testing.T, content string) *fileBackend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return openFileBackend(path)
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// TestDefaults verifies all default values are applied when loading an empty config file.
func TestDefaults(t *testing.T) {
	cfg, err := loadWith(writeTempConfig(t, `{}`), noKeychain(), envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Reddit.UserAgent != "persona/0.1 (by persona-cli)" {
		t.Errorf("Reddit.UserAgent = %q", cfg.Reddit.UserAgent)
	}
	if cfg.Reddit.APIURL != "https://oauth.reddit.com" {
		t.Errorf("Reddit.APIURL = %q", cfg.Reddit.APIURL)
	}
	if cfg.Reddit.TokenURL != "https://www.reddit.com/api/v1/access_token" {
		t.Errorf("Reddit.TokenURL = %q", cfg.Reddit.TokenURL)
	}
	if cfg.Reddit.ItemLimit != 15 {
		t.Errorf("Reddit.ItemLimit = %d, want 15", cfg.Reddit.ItemLimit)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("Ollama.BaseURL = %q, want %q", cfg.Ollama.BaseURL, "http://localhost:11434")
	}
	if cfg.Ollama.Model != "phi3" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "phi3")
	}
	if !cfg.Ollama.Autostart {
		t.Error("Ollama.Autostart = false, want true")
	}
	if cfg.Ollama.Temperature != 0.7 {
		t.Errorf("Ollama.Temperature = %v, want 0.7", cfg.Ollama.Temperature)
	}
	if d, err := cfg.Ollama.TimeoutDuration(); err != nil || d != 120*time.Second {
		t.Errorf("Ollama.TimeoutDuration() = %v, %v; want 120s", d, err)
	}
	if cfg.Output.Dir != "personas" || cfg.Output.Readme != "README.md" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

// TestFileParsing verifies that fields are read from the JSON backend.
func TestFileParsing(t *testing.T) {
	b := writeTempConfig(t, `{
  "reddit.client_id": "file-id",
  "reddit.client_secret": "ignored",
  "reddit.item_limit": 25,
  "ollama.model": "llama3.1:8b",
  "ollama.autostart": false,
  "ollama.temperature": 0.2,
  "ollama.timeout": "45s",
  "output.dir": "/tmp/personas",
  "log.level": "debug"
}`)

	cfg, err := loadWith(b, noKeychain(), envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Reddit.ClientID != "file-id" {
		t.Errorf("Reddit.ClientID = %q", cfg.Reddit.ClientID)
	}
	if cfg.Reddit.ClientSecret != "" {
		t.Errorf("secret read from config file: %q", cfg.Reddit.ClientSecret)
	}
	if cfg.Reddit.ItemLimit != 25 {
		t.Errorf("Reddit.ItemLimit = %d, want 25", cfg.Reddit.ItemLimit)
	}
	if cfg.Ollama.Model != "llama3.1:8b" {
		t.Errorf("Ollama.Model = %q", cfg.Ollama.Model)
	}
	if cfg.Ollama.Autostart {
		t.Error("Ollama.Autostart = true, want false")
	}
	if cfg.Ollama.Temperature != 0.2 {
		t.Errorf("Ollama.Temperature = %v, want 0.2", cfg.Ollama.Temperature)
	}
	if cfg.Ollama.Timeout != "45s" {
		t.Errorf("Ollama.Timeout = %q", cfg.Ollama.Timeout)
	}
	if cfg.Output.Dir != "/tmp/personas" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

// TestEnvOverride verifies that environment variables override config file values.
func TestEnvOverride(t *testing.T) {
	b := writeTempConfig(t, `{"reddit.client_id": "file-id", "reddit.item_limit": 25}`)

	cfg, err := loadWith(b, noKeychain(), envMap(map[string]string{
		"PERSONA_REDDIT_CLIENT_ID":     "env-id",
		"PERSONA_REDDIT_CLIENT_SECRET": "env-secret",
		"PERSONA_REDDIT_ITEM_LIMIT":    "not-a-number",
		"PERSONA_OLLAMA_AUTOSTART":     "false",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Reddit.ClientID != "env-id" {
		t.Errorf("Reddit.ClientID = %q, want env-id", cfg.Reddit.ClientID)
	}
	if cfg.Reddit.ClientSecret != "env-secret" {
		t.Errorf("Reddit.ClientSecret = %q, want env-secret", cfg.Reddit.ClientSecret)
	}
	if cfg.Reddit.ItemLimit != 25 {
		t.Errorf("Reddit.ItemLimit = %d, want file value 25 after bad env", cfg.Reddit.ItemLimit)
	}
	if cfg.Ollama.Autostart {
		t.Error("Ollama.Autostart = true, want false")
	}
}

// TestDotEnvFallback verifies .env values apply only where the process
// environment is unset.
func TestDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "PERSONA_REDDIT_CLIENT_ID=dotenv-id\nPERSONA_REDDIT_CLIENT_SECRET=dotenv-secret\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PERSONA_REDDIT_CLIENT_ID", "real-id")

	lookup := envLookup(path)
	if got := lookup("PERSONA_REDDIT_CLIENT_ID"); got != "real-id" {
		t.Errorf("client id = %q, want real env to win", got)
	}
	if got := lookup("PERSONA_REDDIT_CLIENT_SECRET"); got != "dotenv-secret" {
		t.Errorf("client secret = %q, want .env value", got)
	}
	if _, ok := os.LookupEnv("PERSONA_REDDIT_CLIENT_SECRET"); ok {
		t.Error(".env leaked into the process environment")
	}
}

func TestDotEnvMissingFile(t *testing.T) {
	lookup := envLookup(filepath.Join(t.TempDir(), "absent.env"))
	if got := lookup("PERSONA_TEST_UNSET_KEY"); got != "" {
		t.Errorf("lookup = %q, want empty", got)
	}
}

// TestKeychainFallback verifies the secret store is consulted when no secret is in env.
func TestKeychainFallback(t *testing.T) {
	kc := mockKeychain{value: "keychain-secret"}
	cfg, err := loadWith(writeTempConfig(t, `{}`), kc, envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Reddit.ClientSecret != "keychain-secret" {
		t.Errorf("ClientSecret = %q, want %q", cfg.Reddit.ClientSecret, "keychain-secret")
	}
}

// TestValidate verifies a clear error when Reddit credentials are missing.
func TestValidate(t *testing.T) {
	cfg := defaults()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}
	for _, want := range []string{"missing required config", "PERSONA_REDDIT_CLIENT_ID", "PERSONA_REDDIT_CLIENT_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %q, want it to contain %q", err, want)
		}
	}

	cfg.Reddit.ClientID = "id"
	cfg.Reddit.ClientSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := cfg
	bad.Ollama.Timeout = "soon"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for bad timeout")
	}
	bad = cfg
	bad.Reddit.ItemLimit = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero item limit")
	}
}

func TestSetKey(t *testing.T) {
	b := writeTempConfig(t, `{}`)

	if err := setKey(b, "ollama.model", "mistral"); err != nil {
		t.Fatalf("setKey string: %v", err)
	}
	if err := setKey(b, "reddit.item_limit", "30"); err != nil {
		t.Fatalf("setKey int: %v", err)
	}
	if err := setKey(b, "ollama.autostart", "false"); err != nil {
		t.Fatalf("setKey bool: %v", err)
	}
	if err := setKey(b, "ollama.temperature", "0.3"); err != nil {
		t.Fatalf("setKey float: %v", err)
	}

	cfg, err := loadWith(openFileBackend(b.path), noKeychain(), envMap(nil))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Ollama.Model != "mistral" || cfg.Reddit.ItemLimit != 30 || cfg.Ollama.Autostart || cfg.Ollama.Temperature != 0.3 {
		t.Errorf("reloaded config = %+v", cfg)
	}
}

func TestSetKey_Rejects(t *testing.T) {
	b := writeTempConfig(t, `{}`)
	cases := map[string][2]string{
		"secret":   {"reddit.client_secret", "x"},
		"unknown":  {"nope.key", "x"},
		"bad int":  {"reddit.item_limit", "many"},
		"bad bool": {"ollama.autostart", "maybe"},
	}
	for name, c := range cases {
		if err := setKey(b, c[0], c[1]); err == nil {
			t.Errorf("%s: setKey(%q, %q) = nil, want error", name, c[0], c[1])
		}
	}
}

func TestShowAll_HidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Reddit.ClientSecret = "hunter2"
	for _, ki := range ShowAll(cfg) {
		if ki.Key == "reddit.client_secret" || ki.Value == "hunter2" {
			t.Errorf("secret exposed: %+v", ki)
		}
	}
	if len(ShowAll(cfg)) != len(ValidKeys()) {
		t.Errorf("ShowAll and ValidKeys disagree: %d vs %d", len(ShowAll(cfg)), len(ValidKeys()))
	}
}
