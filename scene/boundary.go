package scene

import (
	"fmt"

	"github.com/rs/zerolog"

	"fieldglobe/telemetry"
)

// FallbackTitle heads the panel shown instead of the visualization.
const FallbackTitle = "Error loading Earth visualization"

// Renderer is anything that can turn a snapshot into a visible surface.
type Renderer interface {
	Render(snap telemetry.Snapshot) error
}

// Fallback is the panel shown when rendering failed.
type Fallback struct {
	Title   string
	Message string
	Err     error
}

// Surface is the outcome of a Boundary render: either the visualization
// (OK) or a fallback panel.
type Surface struct {
	OK       bool
	Fallback *Fallback
}

// Boundary contains failures of a Renderer. Errors and panics become a
// Fallback surface instead of reaching the caller.
type Boundary struct {
	child  Renderer
	logger zerolog.Logger
	last   Surface
}

// NewBoundary wraps child.
func NewBoundary(child Renderer, logger zerolog.Logger) *Boundary {
	return &Boundary{child: child, logger: logger}
}

// Render renders snap through the wrapped renderer. A successful render
// clears any earlier fallback.
func (b *Boundary) Render(snap telemetry.Snapshot) (s Surface) {
	defer func() {
		if r := recover(); r != nil {
			s = b.fail(fmt.Errorf("%w: panic: %v", ErrConstruction, r))
		}
	}()

	if err := b.child.Render(snap); err != nil {
		return b.fail(err)
	}
	b.last = Surface{OK: true}
	return b.last
}

// Surface returns the outcome of the latest Render.
func (b *Boundary) Surface() Surface {
	return b.last
}

func (b *Boundary) fail(err error) Surface {
	b.logger.Error().Err(err).Msg("Visualization unavailable")
	b.last = Surface{Fallback: &Fallback{
		Title:   FallbackTitle,
		Message: err.Error(),
		Err:     err,
	}}
	return b.last
}
