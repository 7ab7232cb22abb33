package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)

	RecordRequest("GET", "/health", 200, time.Millisecond)
	RecordAuthEvent("login", nil)
	RecordLinkClick()

	families, err := reg.Gather()
	require.NoError(t, err)

	registered := make(map[string]bool)
	for _, family := range families {
		registered[family.GetName()] = true
	}
	for _, name := range []string{
		"linkbio_http_requests_total",
		"linkbio_http_request_duration_seconds",
		"linkbio_auth_events_total",
		"linkbio_link_clicks_total",
	} {
		assert.True(t, registered[name], "metric %q should be registered", name)
	}
}

func TestRecordAuthEvent(t *testing.T) {
	success := testutil.ToFloat64(AuthEvents.WithLabelValues("refresh", OutcomeSuccess))
	failure := testutil.ToFloat64(AuthEvents.WithLabelValues("refresh", OutcomeFailure))

	RecordAuthEvent("refresh", nil)
	RecordAuthEvent("refresh", errors.New("boom"))
	RecordAuthEvent("refresh", errors.New("boom"))

	assert.Equal(t, success+1, testutil.ToFloat64(AuthEvents.WithLabelValues("refresh", OutcomeSuccess)))
	assert.Equal(t, failure+2, testutil.ToFloat64(AuthEvents.WithLabelValues("refresh", OutcomeFailure)))
}

func TestRecordRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404"))

	RecordRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
