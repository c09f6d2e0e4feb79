package app

import (
	"context"
	"fmt"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
)

// EventKind names a user interaction.
type EventKind int

const (
	SliderInput EventKind = iota + 1
	SliderChange
	ChatToggle
	ChatClose
	ChatOutsideClick
	ChatSend
	AddressChanged
	NavigateBack
)

func (k EventKind) String() string {
	switch k {
	case SliderInput:
		return "slider_input"
	case SliderChange:
		return "slider_change"
	case ChatToggle:
		return "chat_toggle"
	case ChatClose:
		return "chat_close"
	case ChatOutsideClick:
		return "chat_outside_click"
	case ChatSend:
		return "chat_send"
	case AddressChanged:
		return "address_changed"
	case NavigateBack:
		return "navigate_back"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a user interaction delivered by the UI toolkit.
type Event struct {
	Kind  EventKind
	Level domain.FloodLevel // SliderInput, SliderChange
	Text  string            // ChatSend
}

// Dispatch routes e to the matching operation. Chat send rejections
// (busy, closed, empty) are returned so the UI can ignore them.
func (c *Controller) Dispatch(ctx context.Context, e Event) error {
	c.logger.Debug("dispatch", "event", e.Kind.String())
	switch e.Kind {
	case SliderInput:
		c.Preview(e.Level)
		return nil
	case SliderChange:
		return c.Commit(ctx, e.Level)
	case ChatToggle:
		c.chat.Toggle()
		return nil
	case ChatClose:
		c.chat.Close()
		return nil
	case ChatOutsideClick:
		c.chat.OutsideClick()
		return nil
	case ChatSend:
		_, err := c.SendChat(ctx, e.Text)
		return err
	case AddressChanged:
		return c.Reload(ctx)
	case NavigateBack:
		return c.Back(ctx)
	default:
		return fmt.Errorf("dispatch: unknown event %s", e.Kind)
	}
}
