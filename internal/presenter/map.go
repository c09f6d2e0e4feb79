// Package presenter turns flood API responses into mounted view state: the
// map frame and the statistics panel.
package presenter

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
)

// Outcome describes what a render or refresh did to the view.
type Outcome string

const (
	OutcomeMounted Outcome = "mounted"
	OutcomeUpdated Outcome = "updated"
	OutcomeStale   Outcome = "stale"
	OutcomeFailed  Outcome = "failed"
)

// MapSource fetches the rendered map reference for a level.
type MapSource interface {
	MapHTML(ctx context.Context, level domain.FloodLevel) (domain.MapRenderResult, error)
}

// LevelReader reports the level the view currently wants. Responses for any
// other level are stale.
type LevelReader interface {
	Level() domain.FloodLevel
}

// AddressReader is implemented by level readers that also know the page
// address. Relative map references are resolved against it.
type AddressReader interface {
	Address() string
}

// MapPresenter keeps exactly one map frame mounted on its surface.
type MapPresenter struct {
	source  MapSource
	surface Surface
	levels  LevelReader
	logger  *slog.Logger
	metrics *observability.Metrics

	// mu serializes the unmount/mount swap.
	mu sync.Mutex
}

// NewMapPresenter creates a presenter. A nil levels reader disables the
// stale-response check.
func NewMapPresenter(source MapSource, surface Surface, levels LevelReader, logger *slog.Logger, metrics *observability.Metrics) *MapPresenter {
	return &MapPresenter{
		source:  source,
		surface: surface,
		levels:  levels,
		logger:  logger,
		metrics: metrics,
	}
}

// Render fetches the map for level and replaces the mounted frame. On failure
// the previous frame stays mounted and the error is returned for display.
// A response for a level the view has moved past is dropped, error or not.
func (p *MapPresenter) Render(ctx context.Context, level domain.FloodLevel) (Outcome, error) {
	result, err := p.source.MapHTML(ctx, level)
	if err == nil && !result.Renderable() {
		err = &domain.BackendError{Op: "map", Status: result.Status, Message: result.Message}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isStale(level) {
		p.logger.Debug("dropping stale map response", "level", level.String(), "current", p.levels.Level().String(), "error", err)
		p.metrics.MapRenders.WithLabelValues(string(OutcomeStale)).Inc()
		return OutcomeStale, nil
	}

	if err != nil {
		p.logger.Error("map render failed", "level", level.String(), "error", err)
		p.metrics.MapRenders.WithLabelValues(string(OutcomeFailed)).Inc()
		return OutcomeFailed, err
	}

	src := p.resolve(result.MapURL)
	p.surface.Unmount(FrameID)
	p.surface.Mount(Frame{
		ID:        FrameID,
		Src:       src,
		Level:     level,
		MountedAt: domain.Now(),
	})
	p.metrics.MapRenders.WithLabelValues(string(OutcomeMounted)).Inc()
	p.logger.Info("map mounted", "level", level.String(), "src", src)
	return OutcomeMounted, nil
}

// Probe fetches the map for level without mounting it and reports whether
// the backend produced a renderable map.
func (p *MapPresenter) Probe(ctx context.Context, level domain.FloodLevel) bool {
	result, err := p.source.MapHTML(ctx, level)
	if err != nil {
		p.logger.Error("map probe failed", "level", level.String(), "error", err)
		return false
	}
	return result.Status == domain.StatusSuccess
}

// Current returns the mounted frame, if any.
func (p *MapPresenter) Current() (Frame, bool) {
	for _, f := range p.surface.Mounted() {
		if f.ID == FrameID {
			return f, true
		}
	}
	return Frame{}, false
}

// resolve turns a relative map reference into an absolute one, the way a
// browser resolves an iframe src against the page.
func (p *MapPresenter) resolve(ref string) string {
	addr, ok := p.levels.(AddressReader)
	if !ok {
		return ref
	}
	base, err := url.Parse(addr.Address())
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func (p *MapPresenter) isStale(level domain.FloodLevel) bool {
	return p.levels != nil && p.levels.Level() != level
}
