package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/flood-risk-viewer/internal/adapter/httpadapter"
	"github.com/couchcryptid/flood-risk-viewer/internal/app"
	"github.com/couchcryptid/flood-risk-viewer/internal/chat"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/presenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type staticView struct {
	view app.View
}

func (s staticView) Snapshot() app.View { return s.view }

func newTestServer(readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, staticView{}, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("no map mounted yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestViewEndpoint(t *testing.T) {
	view := app.View{
		Level:   2.5,
		Label:   "2.5",
		Address: "http://127.0.0.1:5001/?level=2.5",
		Frame:   &presenter.Frame{ID: presenter.FrameID, Src: "/static/folium_map_2.5.html", Level: 2.5},
		Notice:  "Statistics: flood service unreachable",
		Ready:   true,
		Chat: chat.Snapshot{
			SessionID: "sess-1",
			Mode:      chat.ModeLocal,
			State:     chat.StateOpenIdle,
			Open:      true,
			Transcript: []domain.ChatMessage{
				{ID: "m1", Role: domain.RoleBot, Text: chat.WelcomeMessage},
			},
		},
	}
	srv := httpadapter.NewServer(":0", &mockReadiness{}, staticView{view: view}, slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Level   float64 `json:"level"`
		Address string  `json:"address"`
		Notice  string  `json:"notice"`
		Ready   bool    `json:"ready"`
		Frame   struct {
			ID  string `json:"id"`
			Src string `json:"src"`
		} `json:"frame"`
		Chat struct {
			State      string `json:"state"`
			Transcript []struct {
				Role string `json:"role"`
				Text string `json:"text"`
			} `json:"transcript"`
		} `json:"chat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2.5, body.Level)
	assert.Equal(t, view.Address, body.Address)
	assert.Equal(t, view.Notice, body.Notice)
	assert.True(t, body.Ready)
	assert.Equal(t, presenter.FrameID, body.Frame.ID)
	assert.Equal(t, "/static/folium_map_2.5.html", body.Frame.Src)
	assert.Equal(t, "open_idle", body.Chat.State)
	require.Len(t, body.Chat.Transcript, 1)
	assert.Equal(t, "bot", body.Chat.Transcript[0].Role)
}

func TestViewEndpointRejectsPost(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/view", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
