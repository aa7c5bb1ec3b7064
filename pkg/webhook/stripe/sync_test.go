package stripe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"

	"github.com/fincapp/unlockd/pkg/webhook"
	"github.com/fincapp/unlockd/storage/memory"
)

// stubStripeAPI points the provider's Stripe client at a local test server.
func stubStripeAPI(t *testing.T, provider *Provider, handler http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(server.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	provider.stripeClient = stripe.NewClient(testStripeAPIKey, stripe.WithBackends(&stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	}))
}

func sessionJSON(status, clientRef string) string {
	return fmt.Sprintf(
		`{"id":%q,"object":"checkout.session","status":%q,"client_reference_id":%q,"amount_total":%d}`,
		testSessionID, status, clientRef, testAmountTotal)
}

func TestSyncSession_CompleteSession_UnlocksPurchase(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	provider := newTestProvider(t, store)
	stubStripeAPI(t, provider, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "/v1/checkout/sessions/"+testSessionID)
		fmt.Fprint(w, sessionJSON(sessionStatusComplete, testUserID))
	})

	userID, err := provider.SyncSession(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, 1, store.unlockCount())

	record, err := store.Get(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, record.Unlocked)
	assert.Equal(t, testSessionID, record.StripeSessionID)
	assert.Equal(t, int64(testAmountTotal), record.PlanAmount)
}

func TestSyncSession_IncompleteSession_NoWrite(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	provider := newTestProvider(t, store)
	stubStripeAPI(t, provider, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sessionJSON("open", testUserID))
	})

	_, err := provider.SyncSession(context.Background(), testSessionID)
	require.ErrorIs(t, err, webhook.ErrSessionIncomplete)
	assert.Equal(t, 0, store.unlockCount())
}

func TestSyncSession_MissingClientReference_NoWrite(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	provider := newTestProvider(t, store)
	stubStripeAPI(t, provider, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sessionJSON(sessionStatusComplete, ""))
	})

	_, err := provider.SyncSession(context.Background(), testSessionID)
	require.ErrorIs(t, err, webhook.ErrMissingClientReference)
	assert.Equal(t, 0, store.unlockCount())
}

func TestSyncSession_APIError_NoWrite(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	provider := newTestProvider(t, store)
	stubStripeAPI(t, provider, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`)
	})

	_, err := provider.SyncSession(context.Background(), "cs_missing")
	require.Error(t, err)
	assert.Equal(t, 0, store.unlockCount())
}

func TestSyncSession_StoreFailure(t *testing.T) {
	provider := newTestProvider(t, &failingStore{})
	stubStripeAPI(t, provider, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sessionJSON(sessionStatusComplete, testUserID))
	})

	_, err := provider.SyncSession(context.Background(), testSessionID)
	require.Error(t, err)
}
