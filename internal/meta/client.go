package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/retry"
)

// partnerAgent identifies this relay to the platform on every delivery.
const partnerAgent = "broker_landing_go_v1.0"

type Config struct {
	PixelID     string        `env:"META_PIXEL_ID"`
	AccessToken string        `env:"META_ACCESS_TOKEN"`
	BaseURL     string        `env:"META_BASE_URL" envDefault:"https://graph.facebook.com"`
	APIVersion  string        `env:"META_API_VERSION" envDefault:"v18.0"`
	MaxAttempts int           `env:"META_MAX_ATTEMPTS" envDefault:"3"`
	Timeout     time.Duration `env:"META_TIMEOUT" envDefault:"10s"`
	BackoffBase time.Duration `env:"META_BACKOFF_BASE" envDefault:"1s"`
}

// Configured reports whether both required credentials are present.
func (c Config) Configured() bool {
	return c.PixelID != "" && c.AccessToken != ""
}

// Response is the upstream ingestion result passed back to the relay
// caller unchanged.
type Response struct {
	EventsReceived int      `json:"events_received"`
	Messages       []string `json:"messages"`
	FBTraceID      string   `json:"fbtrace_id"`
}

// DeliveryError is a non-2xx upstream response. Retryable until the
// attempt ceiling; the last one is surfaced to the relay caller.
type DeliveryError struct {
	Status int
	Body   string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("meta api error: %d - %s", e.Status, e.Body)
}

type request struct {
	Data          []domain.ConversionEvent `json:"data"`
	AccessToken   string                   `json:"access_token"`
	PartnerAgent  string                   `json:"partner_agent"`
	TestEventCode string                   `json:"test_event_code,omitempty"`
}

// Client delivers enriched conversion batches to the platform's events
// endpoint with bounded retry. It performs no batching of its own: the
// caller controls batch size.
type Client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("client", "meta").Logger(),
	}
}

// Send posts the batch and returns the parsed upstream result. Non-2xx
// responses are retried up to the configured ceiling with exponential
// backoff; the final failure propagates to the caller.
func (c *Client) Send(ctx context.Context, batch domain.ConversionBatch) (*Response, error) {
	body, err := json.Marshal(request{
		Data:          batch.Events,
		AccessToken:   c.cfg.AccessToken,
		PartnerAgent:  partnerAgent,
		TestEventCode: batch.TestEventCode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/events", c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.PixelID)

	var result *Response
	err = retry.Do(ctx, c.logger, c.cfg.MaxAttempts, retry.Exponential(c.cfg.BackoffBase), func(ctx context.Context) error {
		res, postErr := c.post(ctx, url, body)
		if postErr != nil {
			return postErr
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Int("events_received", result.EventsReceived).
		Str("fbtrace_id", result.FBTraceID).
		Msg("batch delivered")
	return result, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post events: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &DeliveryError{Status: res.StatusCode, Body: string(data)}
	}

	var result Response
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
