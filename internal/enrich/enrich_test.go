package enrich

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/pii"
)

func TestClientIP(t *testing.T) {
	cases := map[string]struct {
		headers  map[string]string
		expected string
	}{
		"forwarded-for first entry trimmed": {
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5, 70.41.3.18"},
			expected: "203.0.113.5",
		},
		"forwarded-for single entry": {
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5"},
			expected: "203.0.113.5",
		},
		"forwarded-for wins over real-ip": {
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.5",
				"X-Real-IP":       "198.51.100.7",
			},
			expected: "203.0.113.5",
		},
		"real-ip": {
			headers:  map[string]string{"X-Real-IP": "198.51.100.7"},
			expected: "198.51.100.7",
		},
		"edge connecting ip": {
			headers:  map[string]string{"CF-Connecting-IP": "192.0.2.9"},
			expected: "192.0.2.9",
		},
		"loopback fallback": {
			headers:  map[string]string{},
			expected: "127.0.0.1",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/meta/conversions", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tc.expected, ClientIP(req))
		})
	}
}

func TestEvent(t *testing.T) {
	event := domain.ConversionEvent{
		EventName: "Lead",
		EventTime: 1693526400,
		EventID:   "broker_1693526400000_abc123def",
		UserData:  domain.UserData{Country: "raw-country-from-client"},
		CustomData: domain.CustomData{
			Value:           2_200_000,
			ContentCategory: "real_estate_premium_individual",
		},
	}

	enriched, err := Event(event, "203.0.113.5", "Mozilla/5.0")
	require.NoError(t, err)

	require.Equal(t, "203.0.113.5", enriched.UserData.ClientIPAddress)
	require.Equal(t, "Mozilla/5.0", enriched.UserData.ClientUserAgent)

	expectedCountry, err := pii.Hash("cl")
	require.NoError(t, err)
	require.Equal(t, expectedCountry, enriched.UserData.Country)

	// event identity and attribution never mutate
	require.Equal(t, event.EventID, enriched.EventID)
	require.Equal(t, event.EventTime, enriched.EventTime)
	require.Equal(t, event.CustomData, enriched.CustomData)
}

func TestEvent_Idempotent(t *testing.T) {
	event := domain.ConversionEvent{EventID: "broker_1_a"}

	once, err := Event(event, "203.0.113.5", "Mozilla/5.0")
	require.NoError(t, err)
	twice, err := Event(once, "203.0.113.5", "Mozilla/5.0")
	require.NoError(t, err)

	require.Equal(t, once, twice)
}

func TestEvent_EmptyUserAgent(t *testing.T) {
	enriched, err := Event(domain.ConversionEvent{}, "127.0.0.1", "")
	require.NoError(t, err)
	require.Empty(t, enriched.UserData.ClientUserAgent)
}

func TestBatch(t *testing.T) {
	batch := domain.ConversionBatch{
		Events: []domain.ConversionEvent{
			{EventID: "broker_1_a"},
			{EventID: "broker_2_b"},
		},
		TestEventCode: "TEST123",
	}

	enriched, err := Batch(batch, "203.0.113.5", "Mozilla/5.0")
	require.NoError(t, err)

	require.Len(t, enriched.Events, 2)
	require.Equal(t, "TEST123", enriched.TestEventCode)
	for _, event := range enriched.Events {
		require.Equal(t, "203.0.113.5", event.UserData.ClientIPAddress)
		require.Equal(t, "Mozilla/5.0", event.UserData.ClientUserAgent)
		require.NotEmpty(t, event.UserData.Country)
	}
	require.Equal(t, "broker_1_a", enriched.Events[0].EventID)
	require.Equal(t, "broker_2_b", enriched.Events[1].EventID)
}
