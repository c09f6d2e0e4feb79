// Package app wires the level store, map presenter, statistics panel and
// chat session behind one toolkit-independent event entry point.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/flood-risk-viewer/internal/chat"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
	"github.com/couchcryptid/flood-risk-viewer/internal/presenter"
	"golang.org/x/sync/errgroup"
)

// LevelStore holds the selected level and mirrors it into the address bar.
type LevelStore interface {
	Level() domain.FloodLevel
	SetLevel(v domain.FloodLevel) error
	Sync() domain.FloodLevel
	Back() bool
	Address() string
}

// MapView renders and probes the map frame.
type MapView interface {
	Render(ctx context.Context, level domain.FloodLevel) (presenter.Outcome, error)
	Probe(ctx context.Context, level domain.FloodLevel) bool
	Current() (presenter.Frame, bool)
}

// StatsView refreshes and exposes the statistics panel.
type StatsView interface {
	Refresh(ctx context.Context, level domain.FloodLevel) (presenter.Outcome, error)
	Latest() (domain.StatisticsResult, bool)
}

// Controller routes user interactions to the view components.
type Controller struct {
	store   LevelStore
	maps    MapView
	stats   StatsView
	chat    *chat.Session
	sink    EventSink
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	applied domain.FloodLevel // last level rendered
	label   string
	notice  string

	ready atomic.Bool
}

// New creates a controller. A nil sink disables event publishing.
func New(store LevelStore, maps MapView, stats StatsView, session *chat.Session, sink EventSink, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		store:   store,
		maps:    maps,
		stats:   stats,
		chat:    session,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		applied: store.Level(),
		label:   store.Level().String(),
	}
}

// Start applies the level carried by the address bar and renders it.
// A failed render is reported but does not stop the session.
func (c *Controller) Start(ctx context.Context) error {
	level := c.store.Level()
	c.apply(level)
	c.metrics.CurrentLevel.Set(float64(level))
	c.logger.Info("viewer starting", "level", level.String(), "address", c.store.Address())
	return c.refresh(ctx, level)
}

// Preview updates the slider label while the user drags. No network.
func (c *Controller) Preview(v domain.FloodLevel) string {
	label := v.String()
	c.setLabel(label)
	return label
}

// Commit persists v to the address bar, re-renders the map, refreshes the
// statistics and publishes a level_committed event.
func (c *Controller) Commit(ctx context.Context, v domain.FloodLevel) error {
	if err := c.store.SetLevel(v); err != nil {
		return err
	}
	c.apply(v)
	c.metrics.LevelCommits.Inc()
	c.metrics.CurrentLevel.Set(float64(v))

	err := c.refresh(ctx, v)

	level := v
	c.publish(ctx, domain.InteractionEvent{
		Type:    domain.EventLevelCommitted,
		Level:   &level,
		Address: c.store.Address(),
	})
	c.logger.Info("flood level committed", "level", v.String())
	return err
}

// Reload re-reads the address bar after an external navigation and
// re-renders if the level moved.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	before := c.applied
	c.mu.Unlock()

	level := c.store.Sync()
	if level == before {
		return nil
	}
	c.apply(level)
	c.metrics.CurrentLevel.Set(float64(level))
	return c.refresh(ctx, level)
}

// Back steps the address bar back one entry and re-renders the level it
// carries. It is a no-op at the first entry.
func (c *Controller) Back(ctx context.Context) error {
	if !c.store.Back() {
		c.logger.Debug("no earlier address to go back to")
		return nil
	}
	return c.Reload(ctx)
}

// SelfTest fetches the map at the default level without mounting it.
func (c *Controller) SelfTest(ctx context.Context) bool {
	ok := c.maps.Probe(ctx, domain.DefaultLevel)
	c.logger.Info("api self-test", "ok", ok)
	return ok
}

// SendChat forwards text to the chat session and publishes the exchange.
func (c *Controller) SendChat(ctx context.Context, text string) (chat.Exchange, error) {
	ex, err := c.chat.Send(ctx, text)
	if err != nil {
		return ex, err
	}
	c.publish(ctx, domain.InteractionEvent{
		Type:     domain.EventChatExchanged,
		Mode:     c.chat.Mode(),
		UserText: ex.User.Text,
		BotText:  ex.Bot.Text,
		Outcome:  ex.Outcome,
	})
	return ex, nil
}

// Chat returns the chat session.
func (c *Controller) Chat() *chat.Session { return c.chat }

// CheckReadiness returns nil once a map has been mounted.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("no map mounted yet")
	}
	return nil
}

// refresh renders the map and refreshes statistics concurrently. Both run to
// completion; their errors are joined and summarized in the notice.
func (c *Controller) refresh(ctx context.Context, level domain.FloodLevel) error {
	var mapErr, statsErr error
	var g errgroup.Group
	g.Go(func() error {
		_, mapErr = c.maps.Render(ctx, level)
		return nil
	})
	g.Go(func() error {
		_, statsErr = c.stats.Refresh(ctx, level)
		return nil
	})
	_ = g.Wait()

	if _, ok := c.maps.Current(); ok {
		c.ready.Store(true)
	}

	err := errors.Join(mapErr, statsErr)
	if current := c.store.Level(); current != level {
		c.logger.Debug("keeping notice of newer level", "level", level.String(), "current", current.String())
		return err
	}
	c.setNotice(noticeFor(mapErr, statsErr))
	return err
}

func (c *Controller) publish(ctx context.Context, event domain.InteractionEvent) {
	event.SessionID = c.chat.ID()
	event.OccurredAt = domain.Now()

	outcome := "ok"
	if err := c.sink.Publish(ctx, event); err != nil {
		outcome = "error"
		c.logger.Warn("publish interaction event failed", "type", event.Type, "error", err)
	}
	c.metrics.EventsPublished.WithLabelValues(event.Type, outcome).Inc()
}

func (c *Controller) setLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = label
}

func (c *Controller) apply(level domain.FloodLevel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = level
	c.label = level.String()
}

func (c *Controller) setNotice(notice string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = notice
}

// noticeFor summarizes render and refresh failures for the status line.
// The map failure wins when both fail.
func noticeFor(mapErr, statsErr error) string {
	switch {
	case mapErr != nil:
		return "Map: " + describe(mapErr)
	case statsErr != nil:
		return "Statistics: " + describe(statsErr)
	default:
		return ""
	}
}

func describe(err error) string {
	var be *domain.BackendError
	if errors.As(err, &be) {
		if be.Message != "" {
			return be.Message
		}
		return fmt.Sprintf("backend reported %q", be.Status)
	}
	var te *domain.TransportError
	if errors.As(err, &te) {
		if te.Network() {
			return "flood service unreachable"
		}
		if te.Message != "" {
			return fmt.Sprintf("flood service error (%d): %s", te.Status, te.Message)
		}
		return fmt.Sprintf("flood service error (%d)", te.Status)
	}
	return err.Error()
}
