package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/enrich"
)

type conversionRequest struct {
	Events        []domain.ConversionEvent `json:"events"`
	TestEventCode string                   `json:"test_event_code,omitempty"`
}

type conversionResponse struct {
	Success         bool     `json:"success"`
	EventsReceived  int      `json:"events_received"`
	Messages        []string `json:"messages"`
	FBTraceID       string   `json:"fbtrace_id"`
	EnhancedEvents  int      `json:"enhanced_events"`
	ServerTimestamp string   `json:"server_timestamp"`
}

type conversionError struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Conversions is the server-side Conversions API relay: validate, enrich
// with request-derived attributes, deliver upstream with bounded retry and
// answer with the normalized JSON bodies of the endpoint contract.
func (h *Handler) Conversions(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With().Str("handler", "Conversions").Logger()

	if !h.metaCfg.Configured() {
		l.Error().Msg("meta credentials not configured")
		_ = encodeJSONResponse(w, http.StatusInternalServerError, conversionError{
			Error: "Meta credentials not configured",
		})
		return
	}

	var payload conversionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.Events) == 0 {
		l.Error().Msg("invalid payload: missing or empty events array")
		_ = encodeJSONResponse(w, http.StatusBadRequest, conversionError{
			Error: "Invalid payload: events array is required",
		})
		return
	}

	batch := domain.ConversionBatch{
		Events:        payload.Events,
		TestEventCode: payload.TestEventCode,
	}
	l.Info().Int("event_count", len(batch.Events)).Msg("conversion batch received")

	result, err := h.conversions.RelayBatch(r.Context(), batch, enrich.ClientIP(r), r.UserAgent())
	if err != nil {
		l.Err(err).Msg("relay failed")
		_ = encodeJSONResponse(w, http.StatusInternalServerError, conversionError{
			Error:     "Internal server error",
			Message:   err.Error(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	messages := result.Messages
	if messages == nil {
		messages = []string{}
	}
	_ = encodeJSONResponse(w, http.StatusOK, conversionResponse{
		Success:         true,
		EventsReceived:  result.EventsReceived,
		Messages:        messages,
		FBTraceID:       result.FBTraceID,
		EnhancedEvents:  result.EnhancedEvents,
		ServerTimestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
