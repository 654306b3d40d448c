package service

import (
	"context"
	"fmt"

	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/enrich"
	"github.com/agenciau/leadrelay/internal/meta"
)

// RelayResult is the upstream result plus the count of events the server
// enriched before delivery.
type RelayResult struct {
	*meta.Response
	EnhancedEvents int
}

// RelayBatch enriches every event with the request's IP and user agent and
// hands the batch to the delivery client. Enrichment failure is fatal for
// the request: an event must never leave with unhashed identity data.
func (s *Service) RelayBatch(ctx context.Context, batch domain.ConversionBatch, clientIP, userAgent string) (*RelayResult, error) {
	l := s.logger.With().Str("service", "RelayBatch").Logger()

	enriched, err := enrich.Batch(batch, clientIP, userAgent)
	if err != nil {
		return nil, fmt.Errorf("enrich batch: %w", err)
	}
	l.Info().
		Int("event_count", len(enriched.Events)).
		Str("client_ip", clientIP).
		Msg("batch enriched")

	// Delivery runs to completion even if the caller disconnects mid-retry:
	// ad-spend attribution depends on the upstream attempt happening.
	result, err := s.deliverer.Send(context.Background(), enriched)
	if err != nil {
		return nil, err
	}

	return &RelayResult{
		Response:       result,
		EnhancedEvents: len(enriched.Events),
	}, nil
}
