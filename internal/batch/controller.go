package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/wordcards/internal/export"
	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/metrics"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
	"github.com/lehigh-university-libraries/wordcards/internal/parser"
)

var (
	ErrNoImages      = fmt.Errorf("%w: no images selected", models.ErrValidation)
	ErrRunInProgress = fmt.Errorf("%w: analysis already running", models.ErrValidation)
	// ErrSuperseded is returned by a run that was cancelled by a new image selection.
	ErrSuperseded = errors.New("analysis superseded by a new image selection")
)

// PreviewRegistry hands out revocable preview handles for selected images
type PreviewRegistry interface {
	Put(img models.ImageInput) string
	Revoke(handle string)
}

// ImageView describes one selected image
type ImageView struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type,omitempty"`
	Preview  string `json:"preview,omitempty"`
}

// Snapshot is a read-only view of a controller
type Snapshot struct {
	models.RunState
	// Notice carries the last validation message; it is not part of the run state.
	Notice string      `json:"notice,omitempty"`
	Images []ImageView `json:"images"`
}

// Controller owns the selection and run state of one user. State only
// changes through SelectImages, StartAnalysis and Export.
type Controller struct {
	pipeline *Pipeline
	previews PreviewRegistry
	text     locale.Strings

	mu         sync.Mutex
	images     []models.ImageInput
	handles    []string
	state      models.RunState
	notice     string
	running    bool
	generation uint64
	cancel     context.CancelFunc
}

// NewController returns an idle controller. previews may be nil.
func NewController(pipeline *Pipeline, previews PreviewRegistry, text locale.Strings) *Controller {
	return &Controller{
		pipeline: pipeline,
		previews: previews,
		text:     text,
		state:    models.Idle(),
	}
}

// SelectImages replaces the selection, revoking the previous preview handles
// and clearing any result, error or notice. A run still in flight is
// cancelled and its outcome discarded.
func (c *Controller) SelectImages(images []models.ImageInput) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		slog.Info("Cancelling in-flight analysis for new selection", "images", len(images))
		c.cancel()
		c.cancel = nil
		c.running = false
	}
	c.generation++

	c.revokeLocked()

	c.images = append([]models.ImageInput(nil), images...)
	if c.previews != nil {
		c.handles = make([]string, len(images))
		for i, img := range images {
			c.handles[i] = c.previews.Put(img)
		}
	}

	c.state = models.Idle()
	c.notice = ""

	return append([]string(nil), c.handles...)
}

// Release revokes all preview handles and cancels any active run.
func (c *Controller) Release() {
	c.SelectImages(nil)
}

func (c *Controller) revokeLocked() {
	if c.previews != nil {
		for _, h := range c.handles {
			c.previews.Revoke(h)
		}
	}
	c.handles = nil
}

// StartAnalysis runs the pipeline over the current selection and returns the
// terminal state. Validation failures leave the state untouched and return an
// error wrapping models.ErrValidation. Fatal pipeline errors are reported
// through the Error state, not as a returned error.
func (c *Controller) StartAnalysis(ctx context.Context) (models.RunState, error) {
	c.mu.Lock()
	if c.running {
		c.notice = c.text.AlreadyRunning
		c.mu.Unlock()
		return models.RunState{}, ErrRunInProgress
	}
	if len(c.images) == 0 {
		c.notice = c.text.NoImages
		c.mu.Unlock()
		return models.RunState{}, ErrNoImages
	}

	runCtx, cancel := context.WithCancel(ctx)
	gen := c.generation
	images := append([]models.ImageInput(nil), c.images...)
	c.running = true
	c.cancel = cancel
	c.state = models.Loading()
	c.notice = ""
	c.mu.Unlock()

	slog.Info("Starting analysis", "images", len(images))
	result, err := c.pipeline.Run(runCtx, images)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		metrics.RunsTotal.WithLabelValues("cancelled").Inc()
		slog.Info("Discarding superseded analysis", "images", len(images))
		return models.RunState{}, ErrSuperseded
	}
	c.running = false
	c.cancel = nil

	switch {
	case err != nil:
		slog.Error("Image analysis failed", "err", err)
		metrics.RunsTotal.WithLabelValues("error").Inc()
		c.state = models.Failed(c.failureMessage(err))
	case len(result) == 0:
		slog.Info("Analysis finished without words", "images", len(images))
		metrics.RunsTotal.WithLabelValues("empty").Inc()
		c.state = models.Empty(c.text.NoWords)
	default:
		slog.Info("Analysis finished", "images", len(images), "words", len(result))
		metrics.RunsTotal.WithLabelValues("success").Inc()
		metrics.WordsAccepted.Add(float64(len(result)))
		c.state = models.Success(result)
	}

	return c.state, nil
}

func (c *Controller) failureMessage(err error) string {
	if errors.Is(err, parser.ErrParse) {
		return c.text.FormatError
	}
	return c.text.GenericError
}

// Export writes the current result. It fails with a validation error when
// there is no result to export.
func (c *Controller) Export(w io.Writer, format export.Format) error {
	c.mu.Lock()
	if c.state.Phase != models.PhaseSuccess || len(c.state.Result) == 0 {
		c.notice = c.text.NothingToExport
		c.mu.Unlock()
		return export.ErrEmpty
	}
	result := append(models.AnalysisResult(nil), c.state.Result...)
	text := c.text
	c.mu.Unlock()

	return export.Write(w, format, result, text)
}

// ExportCSV writes the current result as CSV.
func (c *Controller) ExportCSV(w io.Writer) error {
	return c.Export(w, export.FormatCSV)
}

// State returns the current run state.
func (c *Controller) State() models.RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Result = append(models.AnalysisResult(nil), c.state.Result...)
	return st
}

// Snapshot returns a copy of the state for presentation.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if len(c.state.Result) > 0 {
		st.Result = append(models.AnalysisResult(nil), c.state.Result...)
	}

	views := make([]ImageView, len(c.images))
	for i, img := range c.images {
		views[i] = ImageView{Name: img.Name, MIMEType: img.MIMEType}
		if i < len(c.handles) {
			views[i].Preview = c.handles[i]
		}
	}

	return Snapshot{RunState: st, Notice: c.notice, Images: views}
}
