package webhook

import "errors"

var (
	// ErrNotConfigured is returned when a provider is missing required configuration
	ErrNotConfigured = errors.New("webhook provider not configured")

	// ErrInvalidSignature is returned when webhook signature validation fails
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidPayload is returned when a webhook payload cannot be parsed
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrSessionIncomplete is returned when a resynced checkout session has not completed
	ErrSessionIncomplete = errors.New("checkout session not complete")

	// ErrMissingClientReference is returned when a checkout session carries no user identifier
	ErrMissingClientReference = errors.New("checkout session has no client_reference_id")
)
