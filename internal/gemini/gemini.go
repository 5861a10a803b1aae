package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lehigh-university-libraries/wordcards/internal/providers"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
)

type generationConfig struct {
	ResponseMimeType string            `json:"responseMimeType"`
	ResponseSchema   *providers.Schema `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []providers.Content `json:"contents"`
	GenerationConfig generationConfig    `json:"generationConfig"`
}

// Client calls the generateContent REST endpoint, passing the API key in the URL
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient returns a REST client. A nil httpClient uses a client without a timeout override.
func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    httpClient,
	}
}

func (c *Client) Name() string {
	return "gemini"
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
}

// GenerateContent sends the prompt and the inlined image as one user turn and
// decodes the response body. Exactly one HTTP call is made.
func (c *Client) GenerateContent(ctx context.Context, req providers.Request) (*providers.Response, error) {
	body := generateRequest{
		Contents: []providers.Content{{
			Role: "user",
			Parts: []providers.Part{
				{Text: req.Prompt},
				{InlineData: &providers.InlineData{MimeType: req.MIMEType, Data: req.Data}},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   providers.WordListSchema(),
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		// the URL carries the key; don't let it leak through *url.Error
		return nil, fmt.Errorf("%w: %s", providers.ErrNetwork, redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: gemini API returned status %d: %s", providers.ErrService, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out providers.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode gemini response: %w", providers.ErrService, err)
	}

	slog.Debug("Gemini response received", "model", c.model, "candidates", len(out.Candidates))
	return &out, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(secret), "REDACTED")
	return strings.ReplaceAll(s, secret, "REDACTED")
}
