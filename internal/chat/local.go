package chat

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Reply strategy names.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Rule maps any of its keywords to a canned response.
type Rule struct {
	Name     string
	Keywords []string
	Response string
}

// FallbackResponse is returned when no rule matches.
const FallbackResponse = "That's an interesting question! While I'm currently providing basic information about the flood risk dataset, I can help you understand the data sources, methodology, and key findings. Could you try asking about the dataset, flood risk, methodology, or coastal analysis?"

// DefaultRules is the ordered rule table. Matching is substring based, so
// order matters: the first rule with any matching keyword wins.
var DefaultRules = []Rule{
	{
		Name:     "greeting",
		Keywords: []string{"hello", "hi", "hey"},
		Response: "Hello! How can I help you understand the flood risk dataset today?",
	},
	{
		Name:     "dataset",
		Keywords: []string{"dataset", "data"},
		Response: "This dataset contains flood risk analysis for coastal areas, including elevation data, flood frequency, and risk assessments. What specific aspect would you like to know more about?",
	},
	{
		Name:     "flood_risk",
		Keywords: []string{"flood", "risk"},
		Response: "The flood risk analysis is based on multiple factors including elevation data, historical flood events, and climate projections. The slider on the left allows you to visualize different flood levels from 0 to 3 meters.",
	},
	{
		Name:     "method",
		Keywords: []string{"method", "how", "calculate"},
		Response: "The flood risk assessment uses digital elevation models (DEM), historical flood data, and statistical modeling to predict flood probabilities at different water levels. The methodology incorporates both physical and statistical approaches.",
	},
	{
		Name:     "elevation",
		Keywords: []string{"elevation", "dem"},
		Response: "The elevation data comes from high-resolution digital elevation models that provide detailed topographic information. This data is crucial for determining which areas would be affected at different flood levels.",
	},
	{
		Name:     "coastal",
		Keywords: []string{"coastal", "coast"},
		Response: "This dataset focuses on coastal flood risk, which is particularly important due to sea level rise and storm surge events. Coastal areas are vulnerable to both gradual sea level rise and extreme weather events.",
	},
	{
		Name:     "help",
		Keywords: []string{"help", "what can you do"},
		Response: "I can help you understand the flood risk dataset, explain the methodology, discuss coastal flood risks, and answer questions about the data sources and analysis techniques. Just ask me anything!",
	},
	{
		Name:     "thanks",
		Keywords: []string{"thank"},
		Response: "You're welcome! Feel free to ask more questions about the dataset or flood risk analysis.",
	},
}

// Local answers from the rule table without any network access.
type Local struct {
	rules    []Rule
	fallback string
	clock    clockwork.Clock
	delay    time.Duration
}

// NewLocal creates a local strategy over DefaultRules. A positive delay is
// waited out on clock before each reply.
func NewLocal(clock clockwork.Clock, delay time.Duration) *Local {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Local{
		rules:    DefaultRules,
		fallback: FallbackResponse,
		clock:    clock,
		delay:    delay,
	}
}

func (l *Local) Mode() string { return ModeLocal }

// Match returns the response of the first rule with a keyword contained in
// message, ignoring case, or the fallback.
func (l *Local) Match(message string) string {
	lower := strings.ToLower(message)
	for _, r := range l.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Response
			}
		}
	}
	return l.fallback
}

// Reply waits out the think delay, then matches.
func (l *Local) Reply(ctx context.Context, message string) (string, error) {
	if l.delay > 0 {
		select {
		case <-l.clock.After(l.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return l.Match(message), nil
}
