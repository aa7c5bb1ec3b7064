package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v83"
	stripewebhook "github.com/stripe/stripe-go/v83/webhook"

	"github.com/fincapp/unlockd/pkg/purchase"
	"github.com/fincapp/unlockd/pkg/webhook/internal"
)

// handleWebhook processes an incoming Stripe webhook delivery.
//
// Verification runs over the exact raw body bytes before any payload field is
// trusted. The response tells Stripe's retry subsystem what to do: 400 means
// the signature was wrong (don't retry), 500 means the downstream write
// failed (retry later), 200 means the delivery was accepted whether or not an
// unlock was written.
func (p *Provider) handleWebhook(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	setSecurityHeaders(w)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := internal.ReadRawBody(w, r, maxPayloadBytes)
	if err != nil {
		p.metrics.RecordError("invalid_payload")
		http.Error(w, fmt.Sprintf("Webhook Error: %v", err), http.StatusBadRequest)
		return
	}

	sig := r.Header.Get("Stripe-Signature")

	// Signature is computed over the raw bytes; this is the sole security
	// boundary between a Stripe delivery and an arbitrary POST.
	event, err := stripewebhook.ConstructEventWithOptions(body, sig, string(p.webhookSecret),
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		p.logger.Warn("webhook signature verification failed",
			purchase.Field{Key: "error", Value: err.Error()})
		p.metrics.RecordError("auth_failed")
		http.Error(w, fmt.Sprintf("Webhook Error: %v", err), http.StatusBadRequest)
		return
	}

	eventType := string(event.Type)
	if eventType == "" {
		eventType = "UNKNOWN"
	}

	if err := p.processEvent(r.Context(), &event); err != nil {
		p.logger.Error("webhook processing failed",
			purchase.Field{Key: "event_id", Value: event.ID},
			purchase.Field{Key: "event_type", Value: eventType},
			purchase.Field{Key: "error", Value: err.Error()})
		p.metrics.RecordEvent(eventType, "error")
		p.metrics.RecordError("processing_error")
		p.metrics.RecordProcessingDuration(eventType, time.Since(startTime))
		_ = internal.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	_ = internal.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})

	p.metrics.RecordEvent(eventType, "success")
	p.metrics.RecordProcessingDuration(eventType, time.Since(startTime))
}

// processEvent dispatches a verified event by type. Stripe sends many event
// kinds to every endpoint; anything but the target type is acknowledged
// without action.
func (p *Provider) processEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case eventCheckoutCompleted:
		return p.handleCheckoutCompleted(ctx, event)
	default:
		return nil
	}
}

// handleCheckoutCompleted writes the purchase-unlock record for the user
// referenced by the checkout session.
//
// A session without a client_reference_id is acknowledged without a write:
// the sender did nothing wrong, the gap is in the upstream checkout flow that
// failed to embed the user id. The skip is surfaced through the
// missing_client_reference counter rather than the response code.
func (p *Provider) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	userID := session.ClientReferenceID
	if userID == "" {
		p.logger.Warn("checkout session completed without client_reference_id",
			purchase.Field{Key: "session_id", Value: session.ID})
		p.metrics.RecordError("missing_client_reference")
		return nil
	}

	unlock := purchase.Unlock{
		SessionID: session.ID,
		Amount:    session.AmountTotal,
	}

	if err := p.store.Unlock(ctx, userID, unlock); err != nil {
		p.metrics.RecordUnlock("error")
		return fmt.Errorf("failed to unlock purchase for user %s: %w", userID, err)
	}

	p.metrics.RecordUnlock("success")
	p.logger.Info("purchase unlocked",
		purchase.Field{Key: "user_id", Value: userID},
		purchase.Field{Key: "session_id", Value: session.ID},
		purchase.Field{Key: "amount_total", Value: session.AmountTotal})

	return nil
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
