package app

import (
	"context"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
)

// EventSink receives committed interactions for downstream analytics.
type EventSink interface {
	Publish(ctx context.Context, event domain.InteractionEvent) error
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Publish(context.Context, domain.InteractionEvent) error { return nil }
