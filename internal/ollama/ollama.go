package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/wordcards/internal/providers"
)

const (
	DefaultURL   = "http://localhost:11434"
	DefaultModel = "mistral-small3.2:24b"
)

// Ollama is a provider for a local Ollama server
type Ollama struct {
	baseURL string
	model   string
	http    *http.Client
}

// New returns a new Ollama provider
func New(baseURL, model string, httpClient *http.Client) *Ollama {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Ollama{baseURL: strings.TrimSuffix(baseURL, "/"), model: model, http: httpClient}
}

func (o *Ollama) Name() string {
	return "ollama"
}

// ollama wants a JSON schema (lower-case types) in "format"
var wordListFormat = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"englishWord":        map[string]string{"type": "string"},
			"chineseTranslation": map[string]string{"type": "string"},
		},
		"required": []string{"englishWord", "chineseTranslation"},
	},
}

// GenerateContent asks the model for the word list, constrained by a JSON schema.
func (o *Ollama) GenerateContent(ctx context.Context, req providers.Request) (*providers.Response, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  o.model,
		"prompt": req.Prompt,
		"images": []string{req.Data},
		"stream": false,
		"format": wordListFormat,
		"options": map[string]interface{}{
			"temperature": 0.1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", providers.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: received non-200 status code: %d - %s", providers.ErrService, resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response body: %w", providers.ErrService, err)
	}

	if strings.TrimSpace(response.Response) == "" {
		return &providers.Response{}, nil
	}
	return providers.TextResponse(response.Response), nil
}
