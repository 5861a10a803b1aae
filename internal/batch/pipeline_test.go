package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/wordcards/internal/models"
	"github.com/lehigh-university-libraries/wordcards/internal/providers"
)

// promptRecorder keeps the prompts it was called with
type promptRecorder struct {
	prompts []string
}

func (p *promptRecorder) Name() string { return "recorder" }

func (p *promptRecorder) GenerateContent(ctx context.Context, req providers.Request) (*providers.Response, error) {
	p.prompts = append(p.prompts, req.Prompt)
	return providers.TextResponse(`[{"englishWord":"Go","chineseTranslation":"去"}]`), nil
}

func TestNewPipelinePrompt(t *testing.T) {
	img, _ := image("a.png", "a")

	rec := &promptRecorder{}
	if _, err := NewPipeline(rec, "").Run(context.Background(), []models.ImageInput{img}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rec.prompts[0] != providers.DefaultPrompt {
		t.Errorf("Expected default prompt, got %q", rec.prompts[0])
	}

	rec = &promptRecorder{}
	if _, err := NewPipeline(rec, "custom").Run(context.Background(), []models.ImageInput{img}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rec.prompts[0] != "custom" {
		t.Errorf("Expected custom prompt, got %q", rec.prompts[0])
	}
}

func TestPipelineStopsOnCancelledContext(t *testing.T) {
	img, _ := image("a.png", "a")
	rec := &promptRecorder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(rec, "").Run(ctx, []models.ImageInput{img, img})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(rec.prompts) != 0 {
		t.Errorf("Expected no provider calls, got %d", len(rec.prompts))
	}
}

func TestPipelineEmptySelection(t *testing.T) {
	result, err := NewPipeline(&promptRecorder{}, "").Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected empty result, got %v", result)
	}
}
