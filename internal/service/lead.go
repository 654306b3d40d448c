package service

import (
	"context"

	"github.com/agenciau/leadrelay/internal/domain"
)

// LeadResult reports what happened to an accepted lead. Tracked is false
// when conversion tracking failed; the lead itself was still forwarded and
// the caller's flow must not be blocked by a tracking failure.
type LeadResult struct {
	Classification domain.LeadClassification
	EventID        string
	Tracked        bool
}

// SubmitLead qualifies a lead, forwards the raw form data to the workflow
// webhook and reports the conversion event through the relay pipeline.
// Unqualified leads return domain.ErrNotQualified and touch neither the
// webhook nor the event builder.
func (s *Service) SubmitLead(ctx context.Context, lead domain.Lead, eventID, testEventCode, clientIP, userAgent string) (*LeadResult, error) {
	l := s.logger.With().Str("service", "SubmitLead").Logger()

	classification, err := domain.Qualify(lead, s.thresholds)
	if err != nil {
		return nil, err
	}

	event, err := domain.BuildEvent(lead, classification, eventID)
	if err != nil {
		return nil, err
	}
	l.Info().
		Str("classification", classification.String()).
		Str("event_id", event.EventID).
		Msg("lead qualified")

	s.forwardPool.Process(lead)

	batch := domain.ConversionBatch{
		Events:        []domain.ConversionEvent{event},
		TestEventCode: testEventCode,
	}
	if _, err := s.RelayBatch(ctx, batch, clientIP, userAgent); err != nil {
		l.Err(err).Str("event_id", event.EventID).Msg("conversion tracking failed")
		return &LeadResult{Classification: classification, EventID: event.EventID}, nil
	}

	return &LeadResult{Classification: classification, EventID: event.EventID, Tracked: true}, nil
}
