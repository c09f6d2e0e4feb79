package floodapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
	json "github.com/goccy/go-json"
)

// Endpoint names, used as error ops and metric labels.
const (
	EndpointFloodLevel = "flood-level"
	EndpointMap        = "map"
	EndpointStatistics = "statistics"
	EndpointTileURL    = "tile-url"
	EndpointChat       = "chat"
)

// maxErrorBody bounds how much of a failed response body is kept as message.
const maxErrorBody = 512

// Client talks to the flood-risk REST API. Every call is a single round trip:
// no retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a flood API client. A zero timeout leaves the transport
// without a client-side deadline.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// FloodData fetches map metadata and statistics for a level.
func (c *Client) FloodData(ctx context.Context, level domain.FloodLevel) (domain.FloodData, error) {
	var out domain.FloodData
	if err := c.get(ctx, EndpointFloodLevel, level, &out); err != nil {
		return domain.FloodData{}, err
	}
	return out, c.checkStatus(EndpointFloodLevel, out.Status, out.Message)
}

// MapHTML fetches the reference to the server-rendered map for a level.
func (c *Client) MapHTML(ctx context.Context, level domain.FloodLevel) (domain.MapRenderResult, error) {
	var out domain.MapRenderResult
	if err := c.get(ctx, EndpointMap, level, &out); err != nil {
		return domain.MapRenderResult{}, err
	}
	return out, c.checkStatus(EndpointMap, out.Status, out.Message)
}

// Statistics fetches flood impact statistics for a level.
func (c *Client) Statistics(ctx context.Context, level domain.FloodLevel) (domain.StatisticsResult, error) {
	var out domain.StatisticsResult
	if err := c.get(ctx, EndpointStatistics, level, &out); err != nil {
		return domain.StatisticsResult{}, err
	}
	return out, c.checkStatus(EndpointStatistics, out.Status, out.Message)
}

// TileURL fetches the map tile URL template for a level.
func (c *Client) TileURL(ctx context.Context, level domain.FloodLevel) (domain.TileURLResult, error) {
	var out domain.TileURLResult
	if err := c.get(ctx, EndpointTileURL, level, &out); err != nil {
		return domain.TileURLResult{}, err
	}
	return out, c.checkStatus(EndpointTileURL, out.Status, out.Message)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

// Chat posts a message to the conversational endpoint and returns its reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out chatResponse
	if err := c.do(req, EndpointChat, &out); err != nil {
		return "", err
	}
	if out.Response == nil {
		c.metrics.APIRequests.WithLabelValues(EndpointChat, "backend_error").Inc()
		return "", &domain.BackendError{Op: EndpointChat, Message: "response missing from body"}
	}
	return *out.Response, nil
}

func (c *Client) get(ctx context.Context, endpoint string, level domain.FloodLevel, out any) error {
	u := fmt.Sprintf("%s/api/%s/%s", c.baseURL, endpoint, level.PathString())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, endpoint, out)
}

// do executes one round trip and decodes a 2xx body into out. Every failure
// comes back as *domain.TransportError.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	start := time.Now()
	defer func() {
		c.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(endpoint, "network_error", &domain.TransportError{Op: endpoint, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(endpoint, "network_error", &domain.TransportError{Op: endpoint, Err: fmt.Errorf("read body: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(endpoint, "http_error", &domain.TransportError{
			Op:      endpoint,
			Status:  resp.StatusCode,
			Message: errorMessage(body),
		})
	}

	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(endpoint, "decode_error", &domain.TransportError{
			Op:     endpoint,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response: %w", err),
		})
	}

	c.metrics.APIRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func (c *Client) fail(endpoint, outcome string, err *domain.TransportError) error {
	c.metrics.APIRequests.WithLabelValues(endpoint, outcome).Inc()
	c.logger.Warn("flood api request failed", "endpoint", endpoint, "status", err.Status, "error", err)
	return err
}

// checkStatus turns a 2xx body reporting status "error" into a BackendError.
func (c *Client) checkStatus(endpoint string, status domain.Status, message string) error {
	if status != domain.StatusError {
		return nil
	}
	c.metrics.APIRequests.WithLabelValues(endpoint, "backend_error").Inc()
	err := &domain.BackendError{Op: endpoint, Status: status, Message: message}
	c.logger.Warn("flood api reported error", "endpoint", endpoint, "error", err)
	return err
}

// errorBody covers both error shapes the backend uses: {"error": "..."} from
// /chat and {"status":"error","message":"..."} from /api routes.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}

// IsNetworkError reports whether err is a transport failure with no response.
func IsNetworkError(err error) bool {
	var te *domain.TransportError
	return errors.As(err, &te) && te.Network()
}
