// Package chat implements the chat window: an append-only transcript, a
// single in-flight send gate and pluggable reply strategies.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
	"github.com/google/uuid"
)

// WelcomeMessage is added the first time the window opens on an empty transcript.
const WelcomeMessage = "Hello! I'm here to help you learn more about Flood Risk modeling using CoastalDEM dataset. What would you like to know?"

// Apology texts appended in place of a reply when the strategy fails.
const (
	networkApology = "Sorry, I'm having trouble connecting right now. Please try again later."
	genericApology = "Sorry, I encountered an error processing your request."
	serverApology  = "Sorry, I encountered an error: "
)

// State is the window state derived from the open and processing flags.
type State string

const (
	StateClosed      State = "closed"
	StateOpenIdle    State = "open_idle"
	StateOpenSending State = "open_sending"
)

// Exchange outcomes, also used as metric and event labels.
const (
	OutcomeAnswered = "answered"
	OutcomeApology  = "apology"
	OutcomeBusy     = "busy"
)

// Strategy produces the bot reply for a trimmed user message.
type Strategy interface {
	Mode() string
	Reply(ctx context.Context, message string) (string, error)
}

// pendingStrategy is implemented by strategies that show a transient
// placeholder while a reply is outstanding.
type pendingStrategy interface {
	Placeholder() string
}

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	SessionID  string               `json:"session_id"`
	Mode       string               `json:"mode"`
	State      State                `json:"state"`
	Open       bool                 `json:"open"`
	Processing bool                 `json:"processing"`
	Transcript []domain.ChatMessage `json:"transcript"`
	Pending    string               `json:"pending,omitempty"`
}

// Exchange is the result of one completed send.
type Exchange struct {
	User    domain.ChatMessage
	Bot     domain.ChatMessage
	Outcome string
	// Err is the strategy failure behind an apology, nil when answered.
	Err error
}

// Session owns one chat window. All methods are safe for concurrent use;
// the strategy is always called without holding the lock.
type Session struct {
	id       string
	strategy Strategy
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu         sync.Mutex
	open       bool
	processing bool
	transcript []domain.ChatMessage
	pending    string
	listeners  map[int]func(Snapshot)
	nextID     int
}

// NewSession creates a closed session with an empty transcript.
func NewSession(strategy Strategy, logger *slog.Logger, metrics *observability.Metrics) *Session {
	id := uuid.NewString()
	return &Session{
		id:        id,
		strategy:  strategy,
		logger:    logger.With("session_id", id, "mode", strategy.Mode()),
		metrics:   metrics,
		listeners: make(map[int]func(Snapshot)),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the name of the reply strategy.
func (s *Session) Mode() string { return s.strategy.Mode() }

// Open shows the window. The welcome message is appended only when the
// transcript is empty.
func (s *Session) Open() {
	s.mu.Lock()
	if s.open {
		s.mu.Unlock()
		return
	}
	s.open = true
	if len(s.transcript) == 0 {
		s.transcript = append(s.transcript, domain.NewChatMessage(domain.RoleBot, WelcomeMessage))
	}
	s.mu.Unlock()
	s.notify()
}

// Close hides the window. An in-flight reply still lands in the transcript.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.open = false
	s.mu.Unlock()
	s.notify()
}

// Toggle opens a closed window and closes an open one.
func (s *Session) Toggle() {
	if s.IsOpen() {
		s.Close()
		return
	}
	s.Open()
}

// OutsideClick closes the window if it is open.
func (s *Session) OutsideClick() {
	s.Close()
}

// IsOpen reports whether the window is visible.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// State returns the current window state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case !s.open:
		return StateClosed
	case s.processing:
		return StateOpenSending
	default:
		return StateOpenIdle
	}
}

// Send appends the trimmed user message, waits for the strategy and appends
// exactly one bot message: the reply or an apology. Strategy failures are
// reported through Exchange.Err, not the returned error, which is reserved for
// rejected sends (ErrClosed, ErrBusy, ErrEmptyMessage). A rejected send
// leaves the transcript untouched.
func (s *Session) Send(ctx context.Context, text string) (Exchange, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return Exchange{}, domain.ErrClosed
	}
	if s.processing {
		s.mu.Unlock()
		s.metrics.ChatSends.WithLabelValues(s.strategy.Mode(), OutcomeBusy).Inc()
		return Exchange{}, domain.ErrBusy
	}
	message := strings.TrimSpace(text)
	if message == "" {
		s.mu.Unlock()
		return Exchange{}, domain.ErrEmptyMessage
	}

	user := domain.NewChatMessage(domain.RoleUser, message)
	s.transcript = append(s.transcript, user)
	s.processing = true
	if p, ok := s.strategy.(pendingStrategy); ok {
		s.pending = p.Placeholder()
	}
	s.mu.Unlock()
	s.notify()

	reply, err := s.strategy.Reply(ctx, message)
	outcome := OutcomeAnswered
	if err != nil {
		outcome = OutcomeApology
		reply = apology(err)
		s.logger.Error("chat reply failed", "error", err)
	}

	s.mu.Lock()
	bot := domain.NewChatMessage(domain.RoleBot, reply)
	s.transcript = append(s.transcript, bot)
	s.pending = ""
	s.processing = false
	s.mu.Unlock()
	s.notify()

	s.metrics.ChatSends.WithLabelValues(s.strategy.Mode(), outcome).Inc()
	s.logger.Debug("chat exchange complete", "outcome", outcome)
	return Exchange{User: user, Bot: bot, Outcome: outcome, Err: err}, nil
}

// apology picks the user-facing text for a failed reply.
func apology(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) {
		if te.Network() {
			return networkApology
		}
		if te.Message != "" {
			return serverApology + te.Message
		}
	}
	return genericApology
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	transcript := make([]domain.ChatMessage, len(s.transcript))
	copy(transcript, s.transcript)
	return Snapshot{
		SessionID:  s.id,
		Mode:       s.strategy.Mode(),
		State:      s.stateLocked(),
		Open:       s.open,
		Processing: s.processing,
		Transcript: transcript,
		Pending:    s.pending,
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes the listener.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
