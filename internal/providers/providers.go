package providers

import (
	"context"
	"errors"
)

var (
	// ErrNetwork is returned when the inference call does not complete.
	ErrNetwork = errors.New("inference request failed")
	// ErrService is returned when the service answers with a failure status or a body that cannot be decoded.
	ErrService = errors.New("inference service error")
)

// DefaultPrompt asks for the prominent English words of an image with their Chinese translations.
const DefaultPrompt = `From this image, list the most prominent English words and give their Chinese translations. ` +
	`Respond with a JSON array where every object has the fields 'englishWord' and 'chineseTranslation'. ` +
	`For example: [{ "englishWord": "example", "chineseTranslation": "範例" }]`

// Request is a single image inference request
type Request struct {
	Prompt   string
	MIMEType string
	// Data is the base64 encoded image
	Data string
}

// Provider performs one request/response exchange with a vision model
type Provider interface {
	GenerateContent(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// Response mirrors the generateContent response body. Other providers map
// their answers into a single candidate.
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	Content *Content `json:"content,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// TextResponse wraps plain model output into a Response.
func TextResponse(text string) *Response {
	return &Response{
		Candidates: []Candidate{{
			Content: &Content{Role: "model", Parts: []Part{{Text: text}}},
		}},
	}
}

// Schema is the subset of the OpenAPI schema object accepted as a response constraint
type Schema struct {
	Type             string             `json:"type"`
	Items            *Schema            `json:"items,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
}

// WordListSchema constrains the output to an array of englishWord/chineseTranslation objects.
func WordListSchema() *Schema {
	return &Schema{
		Type: "ARRAY",
		Items: &Schema{
			Type: "OBJECT",
			Properties: map[string]*Schema{
				"englishWord":        {Type: "STRING"},
				"chineseTranslation": {Type: "STRING"},
			},
			PropertyOrdering: []string{"englishWord", "chineseTranslation"},
		},
	}
}
