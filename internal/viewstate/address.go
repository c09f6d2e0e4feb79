package viewstate

import (
	"fmt"
	"net/url"
	"sync"
)

// AddressBar is the page address the view mirrors its state into.
type AddressBar interface {
	// URL returns a copy of the current address.
	URL() *url.URL
	// Push records a new address without reloading, like history.pushState.
	Push(u *url.URL)
}

// Navigator is an AddressBar with browser-style history.
type Navigator interface {
	// Back steps to the previous entry and reports whether there was one.
	Back() bool
}

// MemoryAddressBar is an in-process AddressBar with a history stack.
type MemoryAddressBar struct {
	mu      sync.Mutex
	history []*url.URL
}

// NewMemoryAddressBar starts the history at the given address.
func NewMemoryAddressBar(raw string) (*MemoryAddressBar, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse address: %w", err)
	}
	return &MemoryAddressBar{history: []*url.URL{u}}, nil
}

func (b *MemoryAddressBar) URL() *url.URL {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneURL(b.history[len(b.history)-1])
}

func (b *MemoryAddressBar) Push(u *url.URL) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history, cloneURL(u))
}

// Back pops the latest entry, like the browser back button. It reports false
// when already at the first entry.
func (b *MemoryAddressBar) Back() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.history) < 2 {
		return false
	}
	b.history = b.history[:len(b.history)-1]
	return true
}

// History returns every address pushed so far, oldest first.
func (b *MemoryAddressBar) History() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.history))
	for i, u := range b.history {
		out[i] = u.String()
	}
	return out
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
