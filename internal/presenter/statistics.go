package presenter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
)

// StatisticsSource fetches flood statistics for a level.
type StatisticsSource interface {
	Statistics(ctx context.Context, level domain.FloodLevel) (domain.StatisticsResult, error)
}

// StatisticsPanel holds the latest statistics for the selected level.
type StatisticsPanel struct {
	source  StatisticsSource
	levels  LevelReader
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	latest *domain.StatisticsResult
}

// NewStatisticsPanel creates a panel. A nil levels reader disables the
// stale-response check.
func NewStatisticsPanel(source StatisticsSource, levels LevelReader, logger *slog.Logger, metrics *observability.Metrics) *StatisticsPanel {
	return &StatisticsPanel{
		source:  source,
		levels:  levels,
		logger:  logger,
		metrics: metrics,
	}
}

// Refresh fetches statistics for level and keeps them if level is still
// current. Warning responses carry mock statistics and are kept too. A
// response for a superseded level is dropped, error or not.
func (p *StatisticsPanel) Refresh(ctx context.Context, level domain.FloodLevel) (Outcome, error) {
	result, err := p.source.Statistics(ctx, level)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.levels != nil && p.levels.Level() != level {
		p.logger.Debug("dropping stale statistics", "level", level.String(), "error", err)
		p.metrics.StatsRefreshes.WithLabelValues(string(OutcomeStale)).Inc()
		return OutcomeStale, nil
	}

	if err != nil {
		p.logger.Error("statistics refresh failed", "level", level.String(), "error", err)
		p.metrics.StatsRefreshes.WithLabelValues(string(OutcomeFailed)).Inc()
		return OutcomeFailed, err
	}

	p.latest = &result
	p.metrics.StatsRefreshes.WithLabelValues(string(OutcomeUpdated)).Inc()
	p.logger.Info("statistics updated",
		"level", level.String(),
		"status", result.Status,
		"affected_area_km2", result.Statistics.AffectedAreaKm2,
		"population_at_risk", result.Statistics.PopulationAtRisk,
	)
	return OutcomeUpdated, nil
}

// Latest returns the most recent kept statistics.
func (p *StatisticsPanel) Latest() (domain.StatisticsResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return domain.StatisticsResult{}, false
	}
	return *p.latest, true
}
