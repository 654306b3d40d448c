package enrich

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/pii"
)

// countryCode is the lowercase ISO country the server reports for every
// event. The client cannot hash geo fields consistently with server
// policy, so enrichment always overwrites country with this value hashed.
const countryCode = "cl"

// ClientIP resolves the caller's address from proxy headers: first
// X-Forwarded-For entry, then X-Real-IP, then the edge connecting-IP
// header, then loopback.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if cfIP := r.Header.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}
	return "127.0.0.1"
}

// Event augments one conversion event with request-derived attributes:
// client IP, user agent and the server-hashed country. event_id,
// event_time and custom_data pass through untouched. Idempotent — running
// it twice re-derives the same values.
func Event(event domain.ConversionEvent, clientIP, userAgent string) (domain.ConversionEvent, error) {
	hashedCountry, err := pii.Hash(countryCode)
	if err != nil {
		return domain.ConversionEvent{}, fmt.Errorf("hash country: %w", err)
	}

	event.UserData.ClientIPAddress = clientIP
	event.UserData.ClientUserAgent = userAgent
	event.UserData.Country = hashedCountry
	return event, nil
}

// Batch applies Event to every event of a batch. All events in one relay
// call share one request, hence one IP and user agent.
func Batch(batch domain.ConversionBatch, clientIP, userAgent string) (domain.ConversionBatch, error) {
	enriched := make([]domain.ConversionEvent, len(batch.Events))
	for i, event := range batch.Events {
		var err error
		if enriched[i], err = Event(event, clientIP, userAgent); err != nil {
			return domain.ConversionBatch{}, fmt.Errorf("enrich event %s: %w", event.EventID, err)
		}
	}
	batch.Events = enriched
	return batch, nil
}
