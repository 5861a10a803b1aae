package cmd

import (
	"fmt"
	"net/http"

	"github.com/lehigh-university-libraries/wordcards/internal/batch"
	"github.com/lehigh-university-libraries/wordcards/internal/config"
	"github.com/lehigh-university-libraries/wordcards/internal/gemini"
	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/ollama"
	"github.com/lehigh-university-libraries/wordcards/internal/openai"
	"github.com/lehigh-university-libraries/wordcards/internal/providers"
	"google.golang.org/api/option"
)

// newProvider builds the inference client selected by the configuration.
// A zero RequestTimeout leaves the transport default in place.
func newProvider(cfg *config.Config) (providers.Provider, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.Provider {
	case "gemini":
		if cfg.Gemini.Transport == "sdk" {
			var opts []option.ClientOption
			if cfg.Gemini.URL != "" && cfg.Gemini.URL != gemini.DefaultBaseURL {
				opts = append(opts, option.WithEndpoint(cfg.Gemini.URL))
			}
			return gemini.NewSDKClient(cfg.Gemini.APIKey, cfg.Gemini.Model, opts...), nil
		}
		return gemini.NewClient(cfg.Gemini.URL, cfg.Gemini.APIKey, cfg.Gemini.Model, httpClient), nil
	case "openai":
		return openai.New(cfg.OpenAI.URL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, httpClient), nil
	case "ollama":
		return ollama.New(cfg.Ollama.URL, cfg.Ollama.Model, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// newControllerFactory returns a constructor sharing one pipeline across controllers.
func newControllerFactory(cfg *config.Config) (func(previews batch.PreviewRegistry, text locale.Strings) *batch.Controller, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	pipeline := batch.NewPipeline(provider, cfg.Prompt)
	return func(previews batch.PreviewRegistry, text locale.Strings) *batch.Controller {
		return batch.NewController(pipeline, previews, text)
	}, nil
}
