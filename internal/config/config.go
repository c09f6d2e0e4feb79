package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Chat response strategies.
const (
	ChatModeLocal  = "local"
	ChatModeRemote = "remote"
)

// Config holds all viewer settings, populated from environment variables.
type Config struct {
	APIBaseURL      string
	APITimeout      time.Duration // 0 leaves the transport's own behavior in charge
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	ShutdownTimeout time.Duration

	// InitialURL seeds the address bar; its level query parameter, if any,
	// is applied before the first render.
	InitialURL string

	ChatMode       string
	ChatLocalDelay time.Duration

	// Interaction event publishing.
	EventsEnabled    bool
	KafkaBrokers     []string
	KafkaEventsTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parseNonNegativeDuration("API_TIMEOUT", "0s")
	if err != nil {
		return nil, err
	}

	chatDelay, err := parseNonNegativeDuration("CHAT_LOCAL_DELAY", "0s")
	if err != nil {
		return nil, err
	}

	apiBaseURL := strings.TrimRight(sharedcfg.EnvOrDefault("API_BASE_URL", "http://127.0.0.1:5001"), "/")
	if u, err := url.Parse(apiBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid API_BASE_URL")
	}

	initialURL := sharedcfg.EnvOrDefault("INITIAL_URL", apiBaseURL+"/")
	if _, err := url.Parse(initialURL); err != nil {
		return nil, errors.New("invalid INITIAL_URL")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	eventsEnabled := len(brokers) > 0
	if v := os.Getenv("EVENTS_ENABLED"); v != "" {
		eventsEnabled = v == "true"
	}

	cfg := &Config{
		APIBaseURL:      apiBaseURL,
		APITimeout:      apiTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		LogFile:         sharedcfg.EnvOrDefault("LOG_FILE", "floodview.log"),
		ShutdownTimeout: shutdownTimeout,
		InitialURL:      initialURL,

		ChatMode:       strings.ToLower(sharedcfg.EnvOrDefault("CHAT_MODE", ChatModeRemote)),
		ChatLocalDelay: chatDelay,

		EventsEnabled:    eventsEnabled,
		KafkaBrokers:     brokers,
		KafkaEventsTopic: sharedcfg.EnvOrDefault("KAFKA_EVENTS_TOPIC", "flood-viewer-events"),
	}

	if cfg.ChatMode != ChatModeLocal && cfg.ChatMode != ChatModeRemote {
		return nil, fmt.Errorf("invalid CHAT_MODE %q: want %q or %q", cfg.ChatMode, ChatModeLocal, ChatModeRemote)
	}
	if cfg.EventsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("EVENTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.EventsEnabled && cfg.KafkaEventsTopic == "" {
		return nil, errors.New("KAFKA_EVENTS_TOPIC is required when events are enabled")
	}

	return cfg, nil
}

func parseNonNegativeDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
