package openai

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
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
)

// OpenAI is a provider for OpenAI chat completions with image input
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// New returns a new OpenAI provider
func New(baseURL, apiKey, model string, httpClient *http.Client) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAI{baseURL: strings.TrimSuffix(baseURL, "/"), apiKey: apiKey, model: model, http: httpClient}
}

func (o *OpenAI) Name() string {
	return "openai"
}

// GenerateContent sends the prompt and a data URI of the image, and wraps the
// first choice's message into a single-candidate response.
func (o *OpenAI) GenerateContent(ctx context.Context, req providers.Request) (*providers.Response, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model": o.model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": req.Prompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": "data:" + req.MIMEType + ";base64," + req.Data,
						},
					},
				},
			},
		},
		"temperature": 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

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
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response body: %w", providers.ErrService, err)
	}

	if len(response.Choices) == 0 {
		return &providers.Response{}, nil
	}

	return providers.TextResponse(response.Choices[0].Message.Content), nil
}
