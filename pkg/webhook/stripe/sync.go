package stripe

import (
	"context"
	"fmt"

	"github.com/fincapp/unlockd/pkg/purchase"
	"github.com/fincapp/unlockd/pkg/webhook"
)

// SyncSession fetches a checkout session from the Stripe API and re-applies
// the unlock write. It recovers deliveries this service missed (e.g. the
// endpoint was down past Stripe's retry horizon) and is safe to repeat
// because the write is a full overwrite.
//
// Returns the user id the unlock was applied to.
func (p *Provider) SyncSession(ctx context.Context, sessionID string) (string, error) {
	session, err := p.stripeClient.V1CheckoutSessions.Retrieve(ctx, sessionID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch checkout session %s: %w", sessionID, err)
	}

	if session.Status != sessionStatusComplete {
		return "", fmt.Errorf("%w: %s is %s", webhook.ErrSessionIncomplete, sessionID, session.Status)
	}

	userID := session.ClientReferenceID
	if userID == "" {
		return "", fmt.Errorf("%w: %s", webhook.ErrMissingClientReference, sessionID)
	}

	unlock := purchase.Unlock{
		SessionID: session.ID,
		Amount:    session.AmountTotal,
	}

	if err := p.store.Unlock(ctx, userID, unlock); err != nil {
		p.metrics.RecordUnlock("error")
		return "", fmt.Errorf("failed to unlock purchase for user %s: %w", userID, err)
	}

	p.metrics.RecordUnlock("success")
	p.logger.Info("purchase unlock resynced",
		purchase.Field{Key: "user_id", Value: userID},
		purchase.Field{Key: "session_id", Value: session.ID})

	return userID, nil
}
