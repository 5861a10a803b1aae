package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/wordcards/internal/providers"
	"google.golang.org/api/option"
)

// SDKClient talks to Gemini through the generative-ai-go client library
type SDKClient struct {
	apiKey string
	model  string
	opts   []option.ClientOption
}

// NewSDKClient returns an SDK-backed provider. Extra options are appended after the API key.
func NewSDKClient(apiKey, model string, opts ...option.ClientOption) *SDKClient {
	if model == "" {
		model = DefaultModel
	}
	return &SDKClient{apiKey: apiKey, model: model, opts: opts}
}

func (g *SDKClient) Name() string {
	return "gemini-sdk"
}

func wordListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"englishWord":        {Type: genai.TypeString},
				"chineseTranslation": {Type: genai.TypeString},
			},
			Required: []string{"englishWord", "chineseTranslation"},
		},
	}
}

// GenerateContent sends the same prompt, image and schema as the REST client
// and converts the text parts of the answer into a providers.Response.
func (g *SDKClient) GenerateContent(ctx context.Context, req providers.Request) (*providers.Response, error) {
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}

	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create new gemini client: %w", providers.ErrNetwork, err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = wordListSchema()

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt), genai.Blob{MIMEType: req.MIMEType, Data: raw})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", providers.ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: failed to generate content: %w", providers.ErrService, err)
	}

	return convertResponse(resp), nil
}

func convertResponse(resp *genai.GenerateContentResponse) *providers.Response {
	out := &providers.Response{}
	if resp == nil {
		return out
	}
	for _, cand := range resp.Candidates {
		c := providers.Candidate{}
		if cand != nil && cand.Content != nil {
			content := &providers.Content{Role: cand.Content.Role}
			for _, p := range cand.Content.Parts {
				if txt, ok := p.(genai.Text); ok {
					content.Parts = append(content.Parts, providers.Part{Text: string(txt)})
				}
			}
			c.Content = content
		}
		out.Candidates = append(out.Candidates, c)
	}
	return out
}
