package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError_Message(t *testing.T) {
	network := &TransportError{Op: "map", Err: errors.New("connection refused")}
	assert.Equal(t, "map request: connection refused", network.Error())
	assert.True(t, network.Network())

	withBody := &TransportError{Op: "chat", Status: 500, Message: "model unavailable"}
	assert.Equal(t, "chat request: status 500: model unavailable", withBody.Error())
	assert.False(t, withBody.Network())

	bare := &TransportError{Op: "statistics", Status: 404}
	assert.Equal(t, "statistics request: status 404", bare.Error())
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	wrapped := fmt.Errorf("render: %w", &TransportError{Op: "map", Err: cause})

	var te *TransportError
	require.ErrorAs(t, wrapped, &te)
	assert.Equal(t, "map", te.Op)
	assert.ErrorIs(t, wrapped, cause)
}

func TestBackendError_Message(t *testing.T) {
	err := &BackendError{Op: "map", Status: StatusError, Message: "ee quota exceeded"}
	assert.Equal(t, `map: backend status "error": ee quota exceeded`, err.Error())

	bare := &BackendError{Op: "tile-url", Status: StatusWarning}
	assert.Equal(t, `tile-url: backend status "warning"`, bare.Error())
}

func TestMapRenderResult_Renderable(t *testing.T) {
	assert.True(t, MapRenderResult{Status: StatusSuccess, MapURL: "/static/folium_map_2.0.html"}.Renderable())
	assert.False(t, MapRenderResult{Status: StatusSuccess}.Renderable())
	assert.False(t, MapRenderResult{Status: StatusWarning, MapURL: "/x"}.Renderable())
}
