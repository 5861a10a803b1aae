package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/lehigh-university-libraries/wordcards/internal/locale"
)

// DefaultPath is read when no path is given and CONFIG_PATH is unset.
const DefaultPath = "./wordcards.yaml"

// Config holds provider and runtime settings.
// Priority: ENV > YAML > env-default tags.
type Config struct {
	Provider       string        `yaml:"provider"         env:"WORDCARDS_PROVIDER"          env-default:"gemini"`
	Locale         string        `yaml:"locale"           env:"WORDCARDS_LOCALE"            env-default:"en"`
	Prompt         string        `yaml:"prompt"           env:"WORDCARDS_PROMPT"`
	RequestTimeout time.Duration `yaml:"request_timeout"  env:"WORDCARDS_REQUEST_TIMEOUT"   env-default:"0s"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" env:"WORDCARDS_MAX_UPLOAD_BYTES"  env-default:"10485760"`
	ExportFilename string        `yaml:"export_filename"  env:"WORDCARDS_EXPORT_FILENAME"   env-default:"vocabulary_cards.csv"`

	Gemini Gemini `yaml:"gemini"`
	OpenAI OpenAI `yaml:"openai"`
	Ollama Ollama `yaml:"ollama"`
}

type Gemini struct {
	APIKey    string `yaml:"api_key"   env:"GEMINI_API_KEY"`
	URL       string `yaml:"url"       env:"GEMINI_URL"       env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Model     string `yaml:"model"     env:"GEMINI_MODEL"     env-default:"gemini-2.0-flash"`
	Transport string `yaml:"transport" env:"GEMINI_TRANSPORT" env-default:"rest"`
}

type OpenAI struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
	URL    string `yaml:"url"     env:"OPENAI_URL"     env-default:"https://api.openai.com/v1"`
	Model  string `yaml:"model"   env:"OPENAI_MODEL"   env-default:"gpt-4o"`
}

type Ollama struct {
	URL   string `yaml:"url"   env:"OLLAMA_URL"   env-default:"http://localhost:11434"`
	Model string `yaml:"model" env:"OLLAMA_MODEL" env-default:"mistral-small3.2:24b"`
}

// Load reads configuration from a YAML file and environment variables.
// An empty path falls back to CONFIG_PATH, then DefaultPath. A missing file
// is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = os.Getenv("CONFIG_PATH")
		explicitPath = path != ""
	}
	if !explicitPath {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks enumerated settings. API keys are not required here: the
// remote service rejects a missing key.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case "gemini", "openai", "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported provider: %q (supported: gemini, openai, ollama)", c.Provider))
	}

	switch c.Gemini.Transport {
	case "rest", "sdk":
	default:
		errs = append(errs, fmt.Errorf("unsupported gemini transport: %q (supported: rest, sdk)", c.Gemini.Transport))
	}

	if !locale.Supported(c.Locale) {
		errs = append(errs, fmt.Errorf("unsupported locale: %q", c.Locale))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}

	return errors.Join(errs...)
}
