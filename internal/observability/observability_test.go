package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/mgplatform/mgapi/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	m := observability.NewMetrics()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, p := range []string{"/a", "/b", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "2xx")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "4xx")))
}

func TestObserveHelpers(t *testing.T) {
	m := observability.NewMetrics()

	m.ObserveAuthOutcome("authenticated")
	m.ObserveAuthOutcome("authenticated")
	m.ObserveAuthOutcome("expired")
	m.ObserveLogin("success")

	require.Equal(t, 2.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("authenticated")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("expired")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("success")))

	t.Run("nil receiver is a no-op", func(t *testing.T) {
		var none *observability.Metrics
		require.NotPanics(t, func() {
			none.ObserveAuthOutcome("authenticated")
			none.ObserveLogin("success")
		})
	})
}

func TestMetricsHandler(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveLogin("password_mismatch")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `mgapi_login_attempts_total{result="password_mismatch"} 1`)
	require.True(t, strings.Contains(string(body), "go_goroutines"))
}

// newCaptureHub returns a hub whose events are collected in memory and
// never leave the process.
func newCaptureHub(t *testing.T) (*sentry.Hub, *[]*sentry.Event) {
	t.Helper()
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn: "https://public@sentry.example.com/1",
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, e)
			return nil
		},
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), &events
}

func TestReporter(t *testing.T) {
	hub, events := newCaptureHub(t)
	rp := observability.NewReporter(hub)
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)

	rp.ReportPanic(req, "boom", []byte("stack"))
	rp.ReportError(req, "lookup", errors.New("db down"))

	require.Len(t, *events, 2)
	require.Equal(t, "panic in request", (*events)[0].Message)
	require.Equal(t, "lookup", (*events)[1].Tags["stage"])
}

func TestInitSentryWithoutDSN(t *testing.T) {
	require.NoError(t, observability.InitSentry("", "test", "dev"))
}
