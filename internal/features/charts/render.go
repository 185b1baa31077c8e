package charts

import (
	"errors"
	"fmt"
	"image"
	"time"

	"survival-dashboard/internal/dataset"
	logging "survival-dashboard/internal/infra/log"

	"go.uber.org/zap"
)

var ErrUnknownKind = errors.New("unknown figure")

// Outcome classifies a render for observers.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeMissing Outcome = "missing_column"
	OutcomeNoData  Outcome = "no_data"
	OutcomeFailed  Outcome = "failed"
)

// Observer is told about every render of a known figure.
type Observer func(k Kind, outcome Outcome, elapsed time.Duration)

// Renderer draws figures from a loaded dataset. The dataset is only read,
// and every call draws on its own canvas, so a Renderer is safe for
// concurrent use.
type Renderer struct {
	table    *dataset.Table
	observer Observer
}

type Option func(*Renderer)

// WithObserver registers a callback invoked after each render.
func WithObserver(o Observer) Option {
	return func(r *Renderer) { r.observer = o }
}

func NewRenderer(table *dataset.Table, opts ...Option) *Renderer {
	r := &Renderer{table: table}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Draw renders the figure to an in-memory image.
func (r *Renderer) Draw(k Kind) (image.Image, error) {
	rec, ok := recipeFor(k)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	img, err := rec.draw(r.table, k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return img, nil
}

// Render draws the figure and returns it as base64-encoded PNG.
func (r *Renderer) Render(k Kind) (string, error) {
	start := time.Now()
	img, err := r.Draw(k)
	if err == nil {
		var encoded string
		encoded, err = Encode(img)
		if err == nil {
			r.observe(k, OutcomeOK, start)
			return encoded, nil
		}
	}
	r.observe(k, classify(err), start)
	return "", err
}

// RenderID renders the figure named by id, e.g. "figure1".
// It returns false when id is unknown or the figure cannot be produced;
// unknown ids are not logged.
func (r *Renderer) RenderID(id string) (string, bool) {
	k, ok := ParseKind(id)
	if !ok {
		return "", false
	}

	encoded, err := r.Render(k)
	switch {
	case err == nil:
		return encoded, true
	case errors.Is(err, ErrMissingColumn), errors.Is(err, ErrNoData):
		logging.LogWarn("Figure not available", zap.String("figure", id), zap.Error(err))
	default:
		logging.LogError("Figure rendering failed", zap.String("figure", id), zap.Error(err))
	}
	return "", false
}

func (r *Renderer) observe(k Kind, o Outcome, start time.Time) {
	if r.observer != nil {
		r.observer(k, o, time.Since(start))
	}
}

func classify(err error) Outcome {
	switch {
	case errors.Is(err, ErrMissingColumn):
		return OutcomeMissing
	case errors.Is(err, ErrNoData):
		return OutcomeNoData
	default:
		return OutcomeFailed
	}
}
