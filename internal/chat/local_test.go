package chat

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func ruleResponse(t *testing.T, name string) string {
	t.Helper()
	for _, r := range DefaultRules {
		if r.Name == name {
			return r.Response
		}
	}
	t.Fatalf("no rule %q", name)
	return ""
}

func TestLocal_Match(t *testing.T) {
	l := NewLocal(nil, 0)

	tests := []struct {
		name    string
		message string
		rule    string // empty means fallback
	}{
		{"dataset question", "Tell me about the dataset", "dataset"},
		{"gibberish", "asdkj", ""},
		{"greeting", "Hello there", "greeting"},
		{"upper case", "TELL ME ABOUT THE DATASET", "dataset"},
		{"first match wins", "hello, what data do you have?", "greeting"},
		{"flood before method", "how is flood risk calculated", "flood_risk"},
		{"elevation", "what is dem", "elevation"},
		{"coastal", "tell me about the coast", "coastal"},
		{"help", "can you help me", "help"},
		{"thanks", "Thanks a lot", "thanks"},
		{"substring inside a word", "show me", "method"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := FallbackResponse
			if tt.rule != "" {
				want = ruleResponse(t, tt.rule)
			}
			assert.Equal(t, want, l.Match(tt.message))
		})
	}
}

func TestLocal_EveryKeywordReachesItsRule(t *testing.T) {
	l := NewLocal(nil, 0)
	for _, r := range DefaultRules {
		for _, kw := range r.Keywords {
			assert.Equal(t, r.Response, l.Match(strings.ToUpper(kw)), "keyword %q", kw)
		}
	}
}

func TestLocal_MatchIgnoresCase(t *testing.T) {
	l := NewLocal(nil, 0)
	rapid.Check(t, func(rt *rapid.T) {
		msg := rapid.StringMatching(`[a-zA-Z ?!,']{0,48}`).Draw(rt, "message")
		flipped := []rune(msg)
		for i, r := range flipped {
			if rapid.Bool().Draw(rt, "flip") {
				if unicode.IsUpper(r) {
					flipped[i] = unicode.ToLower(r)
				} else {
					flipped[i] = unicode.ToUpper(r)
				}
			}
		}
		if got, want := l.Match(string(flipped)), l.Match(msg); got != want {
			rt.Fatalf("Match(%q) = %q, Match(%q) = %q", string(flipped), got, msg, want)
		}
	})
}

func TestLocal_ReplyWaitsForDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLocal(clock, time.Second)
	ctx := context.Background()

	type result struct {
		reply string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := l.Reply(ctx, "hello")
		done <- result{reply, err}
	}()

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	select {
	case <-done:
		t.Fatal("reply returned before the delay elapsed")
	default:
	}

	clock.Advance(time.Second)
	r := <-done
	require.NoError(t, r.err)
	assert.Equal(t, ruleResponse(t, "greeting"), r.reply)
}

func TestLocal_ReplyCancelled(t *testing.T) {
	l := NewLocal(clockwork.NewFakeClock(), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Reply(ctx, "hello")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocal_ReplyWithoutDelay(t *testing.T) {
	l := NewLocal(nil, 0)
	reply, err := l.Reply(context.Background(), "asdkj")
	require.NoError(t, err)
	assert.Equal(t, FallbackResponse, reply)
	assert.Equal(t, ModeLocal, l.Mode())
}
