package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global Sentry client. An empty dsn leaves
// reporting disabled; the Report methods are then no-ops.
func InitSentry(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
	})
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// Reporter forwards recovered panics and unexpected pipeline errors to
// Sentry with the request attached.
type Reporter struct {
	hub *sentry.Hub
}

// NewReporter reports through hub, or the current global hub when nil.
func NewReporter(hub *sentry.Hub) *Reporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &Reporter{hub: hub}
}

// ReportPanic matches httpx.PanicReporter.
func (rp *Reporter) ReportPanic(r *http.Request, v any, stack []byte) {
	hub := rp.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		scope.SetExtra("panic", fmt.Sprint(v))
		scope.SetExtra("stack", string(stack))
		hub.CaptureMessage("panic in request")
	})
}

// ReportError records err as an exception tagged with the pipeline stage
// it came from.
func (rp *Reporter) ReportError(r *http.Request, stage string, err error) {
	hub := rp.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		scope.SetTag("stage", stage)
		hub.CaptureException(err)
	})
}
