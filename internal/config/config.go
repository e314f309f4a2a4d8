package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Reddit RedditConfig
	Ollama OllamaConfig
	Output OutputConfig
	Log    LogConfig
}

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	APIURL       string
	TokenURL     string
	ItemLimit    int
}

type OllamaConfig struct {
	BaseURL     string
	Model       string
	Autostart   bool
	Temperature float64
	Timeout     string
}

type OutputConfig struct {
	Dir    string
	Readme string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Reddit: RedditConfig{
			UserAgent: "persona/0.1 (by persona-cli)",
			APIURL:    "https://oauth.reddit.com",
			TokenURL:  "https://www.reddit.com/api/v1/access_token",
			ItemLimit: 15,
		},
		Ollama: OllamaConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "phi3",
			Autostart:   true,
			Temperature: 0.7,
			Timeout:     "120s",
		},
		Output: OutputConfig{
			Dir:    "personas",
			Readme: "README.md",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DotEnvFile is read from the working directory during Load.
const DotEnvFile = ".env"

// Load reads configuration from the JSON file backend, a .env file in the
// working directory, environment variables, and the platform secret store.
//
// The backend is a JSON file at $XDG_CONFIG_HOME/persona/config.json.
// Environment variables (PERSONA_*) override backend values; variables
// from .env apply only where the real environment leaves them unset.
// The Reddit client secret falls back to the macOS Keychain (service:
// persona, account: reddit_client_secret) or, elsewhere, to
// $XDG_DATA_HOME/persona/secrets.json.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{}, envLookup(DotEnvFile))
}

// keychain abstracts secret store access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain, lookup func(string) string) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg, lookup)

	if cfg.Reddit.ClientSecret == "" {
		if secret, err := kc.Get("persona", "reddit_client_secret"); err == nil && secret != "" {
			cfg.Reddit.ClientSecret = secret
		}
	}

	return cfg, nil
}

// envLookup returns a lookup that prefers the process environment and
// falls back to the given .env file. A missing file is not an error.
func envLookup(dotenvPath string) func(string) string {
	file, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "[WARN] could not parse %s: %v. Ignoring it.\n", dotenvPath, err)
	}
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return file[key]
	}
}

// Validate checks the settings needed to talk to Reddit and the model.
// Commands that only inspect local state skip it.
func (c Config) Validate() error {
	var missing []string
	if c.Reddit.ClientID == "" {
		missing = append(missing, "PERSONA_REDDIT_CLIENT_ID")
	}
	if c.Reddit.ClientSecret == "" {
		missing = append(missing, "PERSONA_REDDIT_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: Reddit API credentials. "+
			"Set %s (a .env file in the working directory works too)%s",
			strings.Join(missing, " and "), secretHint())
	}
	if c.Reddit.ItemLimit <= 0 {
		return fmt.Errorf("reddit.item_limit must be positive, got %d", c.Reddit.ItemLimit)
	}
	if c.Ollama.Temperature < 0 {
		return fmt.Errorf("ollama.temperature must not be negative, got %v", c.Ollama.Temperature)
	}
	if _, err := c.Ollama.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses the generation timeout.
func (o OllamaConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(o.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid ollama.timeout %q: %w", o.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("ollama.timeout must be positive, got %s", o.Timeout)
	}
	return d, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
