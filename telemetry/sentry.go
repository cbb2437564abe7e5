package telemetry

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// SentryReporter reports application failures to sentry.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter creates a reporter on the given hub. A nil hub
// uses the current hub.
func NewSentryReporter(hub *sentry.Hub) *SentryReporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	return &SentryReporter{hub: hub}
}

// Report captures the error, tagged with the request id.
func (r *SentryReporter) Report(ctx context.Context, err error, requestID string) {
	hub := r.hub
	if h := sentry.GetHubFromContext(ctx); h != nil {
		hub = h
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", requestID)
		hub.CaptureException(err)
	})
}
