package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincapp/unlockd/pkg/webhook"
	"github.com/fincapp/unlockd/storage/memory"
)

func TestNewProvider_RequiresStore(t *testing.T) {
	_, err := NewProvider(Config{
		StripeAPIKey:        testStripeAPIKey,
		StripeWebhookSecret: testStripeWebhookSecret,
	})
	require.ErrorIs(t, err, webhook.ErrNotConfigured)
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(Config{
		Store:               memory.New(),
		StripeWebhookSecret: testStripeWebhookSecret,
	})
	require.ErrorIs(t, err, webhook.ErrNotConfigured)

	_, err = NewProvider(Config{
		Store:               memory.New(),
		StripeAPIKey:        "   ",
		StripeWebhookSecret: testStripeWebhookSecret,
	})
	require.ErrorIs(t, err, webhook.ErrNotConfigured)
}

func TestNewProvider_RequiresWebhookSecret(t *testing.T) {
	_, err := NewProvider(Config{
		Store:        memory.New(),
		StripeAPIKey: testStripeAPIKey,
	})
	require.ErrorIs(t, err, webhook.ErrNotConfigured)
}

func TestNewProvider_Defaults(t *testing.T) {
	provider, err := NewProvider(Config{
		Store:               memory.New(),
		StripeAPIKey:        testStripeAPIKey,
		StripeWebhookSecret: "  " + testStripeWebhookSecret + "  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "stripe", provider.Name())
	assert.NotNil(t, provider.WebhookHandler())
	// Secret is trimmed so a padded env value still verifies.
	assert.Equal(t, testStripeWebhookSecret, string(provider.webhookSecret))
}
