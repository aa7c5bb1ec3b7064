// Package webhook holds the plumbing shared by webhook providers: the
// metrics contract and the error taxonomy of the receiving side.
package webhook

import "time"

// Metrics defines the interface for tracking webhook processing.
// All methods are optional - providers should gracefully handle nil metrics.
type Metrics interface {
	// RecordEvent records a webhook event received from the payment provider.
	// eventType: the provider event kind (e.g. "checkout.session.completed")
	// status: "success", "skipped" or "error"
	RecordEvent(eventType, status string)

	// RecordProcessingDuration records how long it took to process a webhook.
	RecordProcessingDuration(eventType string, duration time.Duration)

	// RecordError records a webhook processing error.
	// errorType: the failure class (e.g. "auth_failed", "invalid_payload",
	// "missing_client_reference", "write_failed")
	RecordError(errorType string)

	// RecordUnlock records a purchase-unlock write.
	// status: "success" or "error"
	RecordUnlock(status string)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordEvent(_, _ string)                            {}
func (n *NoopMetrics) RecordProcessingDuration(_ string, _ time.Duration) {}
func (n *NoopMetrics) RecordError(_ string)                               {}
func (n *NoopMetrics) RecordUnlock(_ string)                              {}
