//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/flood-risk-viewer/internal/adapter/floodapi"
	"github.com/couchcryptid/flood-risk-viewer/internal/adapter/kafka"
	"github.com/couchcryptid/flood-risk-viewer/internal/app"
	"github.com/couchcryptid/flood-risk-viewer/internal/chat"
	"github.com/couchcryptid/flood-risk-viewer/internal/config"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
	"github.com/couchcryptid/flood-risk-viewer/internal/presenter"
	"github.com/couchcryptid/flood-risk-viewer/internal/viewstate"
	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testEventsTopic = "test-flood-viewer-events"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("flood-viewer-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	admin, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer admin.Close()

	require.NoError(t, admin.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type receivedEvent struct {
	Event   domain.InteractionEvent
	Key     string
	Headers map[string]string
}

func readEvent(ctx context.Context, t *testing.T, consumer *kafkago.Reader) receivedEvent {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from events topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.InteractionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal event")
	return receivedEvent{Event: event, Key: string(msg.Key), Headers: headers}
}

func fakeFloodAPI() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/map/{level}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status":"success","map_url":"/static/folium_map_%s.html"}`, r.PathValue("level"))
	})
	mux.HandleFunc("GET /api/statistics/{level}", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"success","statistics":{"affected_area_km2":1}}`)
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"response":"hi there"}`)
	})
	return mux
}

// TestControllerPublishesInteractions drives the controller against a fake
// flood API and verifies both event types land on Kafka with key and headers.
func TestControllerPublishesInteractions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testEventsTopic)

	api := httptest.NewServer(fakeFloodAPI())
	t.Cleanup(api.Close)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaEventsTopic: testEventsTopic,
	}
	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()
	bar, err := viewstate.NewMemoryAddressBar(api.URL + "/")
	require.NoError(t, err)
	store := viewstate.New(bar, logger)
	client := floodapi.NewClient(api.URL, 10*time.Second, metrics, logger)
	session := chat.NewSession(chat.NewRemote(client), logger, metrics)
	ctrl := app.New(store,
		presenter.NewMapPresenter(client, presenter.NewMemorySurface(), store, logger, metrics),
		presenter.NewStatisticsPanel(client, store, logger, metrics),
		session, publisher, logger, metrics)

	require.NoError(t, ctrl.Start(ctx))
	require.NoError(t, ctrl.Dispatch(ctx, app.Event{Kind: app.SliderChange, Level: 1.5}))
	require.NoError(t, ctrl.Dispatch(ctx, app.Event{Kind: app.ChatToggle}))
	require.NoError(t, ctrl.Dispatch(ctx, app.Event{Kind: app.ChatSend, Text: "hello"}))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testEventsTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	committed := readEvent(ctx, t, consumer)
	assert.Equal(t, session.ID(), committed.Key)
	assert.Equal(t, domain.EventLevelCommitted, committed.Headers["event_type"])
	_, err = time.Parse(time.RFC3339, committed.Headers["occurred_at"])
	assert.NoError(t, err, "occurred_at should be valid RFC3339")
	require.NotNil(t, committed.Event.Level)
	assert.Equal(t, domain.FloodLevel(1.5), *committed.Event.Level)
	assert.Contains(t, committed.Event.Address, "level=1.5")

	exchanged := readEvent(ctx, t, consumer)
	assert.Equal(t, session.ID(), exchanged.Key)
	assert.Equal(t, domain.EventChatExchanged, exchanged.Event.Type)
	assert.Equal(t, chat.ModeRemote, exchanged.Event.Mode)
	assert.Equal(t, "hello", exchanged.Event.UserText)
	assert.Equal(t, "hi there", exchanged.Event.BotText)
	assert.Equal(t, chat.OutcomeAnswered, exchanged.Event.Outcome)
}
