package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/agenciau/leadrelay/internal/domain"
)

type Config struct {
	WebhookURL string        `env:"WORKFLOW_WEBHOOK_URL"`
	NumWorkers int           `env:"FORWARD_NUM_WORKERS" envDefault:"4"`
	QueueSize  int           `env:"FORWARD_QUEUE_SIZE" envDefault:"64"`
	RetryMax   int           `env:"FORWARD_RETRY_MAX" envDefault:"2"`
	Timeout    time.Duration `env:"FORWARD_TIMEOUT" envDefault:"10s"`
}

// WebhookClient posts qualified leads to the external workflow webhook.
// The webhook has no response contract; any 2xx counts as accepted.
type WebhookClient struct {
	url    string
	http   *retryablehttp.Client
	logger zerolog.Logger
}

func NewWebhookClient(cfg Config, logger zerolog.Logger) *WebhookClient {
	cli := retryablehttp.NewClient()
	cli.RetryMax = cfg.RetryMax
	cli.HTTPClient.Timeout = cfg.Timeout
	cli.Logger = nil

	return &WebhookClient{
		url:    cfg.WebhookURL,
		http:   cli,
		logger: logger.With().Str("client", "workflow_webhook").Logger(),
	}
}

// Forward posts the raw lead to the workflow webhook.
func (c *WebhookClient) Forward(ctx context.Context, lead domain.Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("webhook status: %d", res.StatusCode)
	}

	c.logger.Debug().Int("status", res.StatusCode).Msg("lead forwarded")
	return nil
}
