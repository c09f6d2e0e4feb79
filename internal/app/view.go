package app

import (
	"github.com/couchcryptid/flood-risk-viewer/internal/chat"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/presenter"
)

// View is a point-in-time copy of everything the screen shows.
type View struct {
	Level      domain.FloodLevel        `json:"level"`
	Label      string                   `json:"label"`
	Address    string                   `json:"address"`
	Frame      *presenter.Frame         `json:"frame,omitempty"`
	Statistics *domain.StatisticsResult `json:"statistics,omitempty"`
	Notice     string                   `json:"notice,omitempty"`
	Ready      bool                     `json:"ready"`
	Chat       chat.Snapshot            `json:"chat"`
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	v := View{
		Label:  c.label,
		Notice: c.notice,
	}
	c.mu.Unlock()

	v.Level = c.store.Level()
	v.Address = c.store.Address()
	v.Ready = c.ready.Load()
	if f, ok := c.maps.Current(); ok {
		v.Frame = &f
	}
	if s, ok := c.stats.Latest(); ok {
		v.Statistics = &s
	}
	v.Chat = c.chat.Snapshot()
	return v
}
