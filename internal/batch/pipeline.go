package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/wordcards/internal/aggregator"
	"github.com/lehigh-university-libraries/wordcards/internal/encoder"
	"github.com/lehigh-university-libraries/wordcards/internal/metrics"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
	"github.com/lehigh-university-libraries/wordcards/internal/parser"
	"github.com/lehigh-university-libraries/wordcards/internal/providers"
)

// Pipeline runs encode, infer, parse and aggregate over a list of images, one at a time
type Pipeline struct {
	provider providers.Provider
	prompt   string
}

// NewPipeline returns a pipeline using provider. An empty prompt selects providers.DefaultPrompt.
func NewPipeline(provider providers.Provider, prompt string) *Pipeline {
	if prompt == "" {
		prompt = providers.DefaultPrompt
	}
	return &Pipeline{provider: provider, prompt: prompt}
}

// Run processes images in order. The first fatal error aborts the run and no
// partial result is returned. An image without recognizable content is
// skipped.
func (p *Pipeline) Run(ctx context.Context, images []models.ImageInput) (models.AnalysisResult, error) {
	agg := aggregator.New()

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := p.processImage(ctx, img)
		if errors.Is(err, parser.ErrNoContent) {
			metrics.ImagesTotal.WithLabelValues("no_content").Inc()
			slog.Warn("No prominent English words recognized in image", "image", img.Name, "index", i)
			continue
		}
		if err != nil {
			metrics.ImagesTotal.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}

		metrics.ImagesTotal.WithLabelValues("ok").Inc()
		added := agg.Add(entries...)
		slog.Debug("Image processed", "image", img.Name, "entries", len(entries), "added", added, "total", agg.Len())
	}

	return agg.Result(), nil
}

func (p *Pipeline) processImage(ctx context.Context, img models.ImageInput) ([]models.WordEntry, error) {
	enc, err := encoder.Encode(img)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := p.provider.GenerateContent(ctx, providers.Request{
		Prompt:   p.prompt,
		MIMEType: enc.MIMEType,
		Data:     enc.Data,
	})
	metrics.InferenceDurationSeconds.WithLabelValues(p.provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return parser.Parse(resp)
}
