package chat

import "context"

// PendingPlaceholder is shown while a remote reply is outstanding.
const PendingPlaceholder = "Thinking…"

// Sender posts a message to the conversational endpoint.
type Sender interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Remote delegates replies to the backend /chat endpoint.
type Remote struct {
	sender Sender
}

// NewRemote creates a remote strategy.
func NewRemote(sender Sender) *Remote {
	return &Remote{sender: sender}
}

func (r *Remote) Mode() string { return ModeRemote }

func (r *Remote) Placeholder() string { return PendingPlaceholder }

func (r *Remote) Reply(ctx context.Context, message string) (string, error) {
	return r.sender.Chat(ctx, message)
}
