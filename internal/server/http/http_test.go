package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenciau/leadrelay/internal/meta"
	"github.com/agenciau/leadrelay/internal/service"
)

func newTestServer(svc ConversionService) *httptest.Server {
	s := New(newTestHandler(svc, testMetaCfg))
	s.registerPublicRoutes()
	return httptest.NewServer(s.publicRouter)
}

func TestServer_Ready(t *testing.T) {
	ts := newTestServer(&stubConversionService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/_/ready")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_PreflightOnConversionsRoute(t *testing.T) {
	ts := newTestServer(&stubConversionService{})
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/meta/conversions", nil)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "authorization, x-client-info, apikey, content-type", res.Header.Get("Access-Control-Allow-Headers"))
}

func TestServer_ConversionsRouteWired(t *testing.T) {
	svc := &stubConversionService{
		relayResult: &service.RelayResult{
			Response:       &meta.Response{EventsReceived: 1, FBTraceID: "trace-abc"},
			EnhancedEvents: 1,
		},
	}
	ts := newTestServer(svc)
	defer ts.Close()

	body := `{"events":[{"event_name":"Lead","event_time":1,"event_id":"broker_1_a","user_data":{},"custom_data":{}}]}`
	res, err := http.Post(ts.URL+"/v1/meta/conversions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, 1, svc.relayCalls)
}
