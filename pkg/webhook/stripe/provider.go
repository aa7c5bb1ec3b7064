// Package stripe receives Stripe webhook deliveries and turns completed
// checkout sessions into purchase-unlock writes.
package stripe

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v83"

	"github.com/fincapp/unlockd/pkg/purchase"
	"github.com/fincapp/unlockd/pkg/webhook"
	"github.com/fincapp/unlockd/pkg/webhook/internal"
)

const (
	providerName             = "stripe"
	defaultRateLimitWindow   = time.Minute
	defaultRateLimitRequests = 100
	maxPayloadBytes          = 256 * 1024

	eventCheckoutCompleted = "checkout.session.completed"
	sessionStatusComplete  = "complete"
)

// Config configures the Stripe webhook provider.
type Config struct {
	// Store receives the purchase-unlock writes. Required.
	Store purchase.Store

	// StripeAPIKey is the secret API key for the Stripe client. Required.
	StripeAPIKey string

	// StripeWebhookSecret is the endpoint signing secret used to verify
	// incoming deliveries. Distinct from the API key. Required.
	StripeWebhookSecret string

	// Logger is an optional structured logger. Defaults to a no-op logger.
	Logger purchase.Logger

	// Metrics is an optional metrics collector. Defaults to a no-op collector.
	Metrics webhook.Metrics
}

// Provider verifies and processes Stripe webhook deliveries.
type Provider struct {
	store         purchase.Store
	webhookSecret []byte
	stripeClient  *stripe.Client
	rateLimiter   *internal.RateLimiter
	logger        purchase.Logger
	metrics       webhook.Metrics
}

// NewProvider creates a new Stripe webhook provider. Both secrets are
// validated here so a misconfigured deployment refuses to start instead of
// failing on the first delivery.
func NewProvider(config Config) (*Provider, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("%w: store is required", webhook.ErrNotConfigured)
	}

	apiKey := strings.TrimSpace(config.StripeAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: stripe api key is required", webhook.ErrNotConfigured)
	}

	webhookSecret := strings.TrimSpace(config.StripeWebhookSecret)
	if webhookSecret == "" {
		return nil, fmt.Errorf("%w: stripe webhook signing secret is required", webhook.ErrNotConfigured)
	}

	logger := config.Logger
	if logger == nil {
		logger = &purchase.NoopLogger{}
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = &webhook.NoopMetrics{}
	}

	return &Provider{
		store:         config.Store,
		webhookSecret: []byte(webhookSecret),
		stripeClient:  stripe.NewClient(apiKey),
		rateLimiter:   internal.NewRateLimiter(defaultRateLimitRequests, defaultRateLimitWindow),
		logger:        logger,
		metrics:       metrics,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// WebhookHandler returns the HTTP handler for the Stripe webhook route,
// wrapped with per-IP rate limiting.
func (p *Provider) WebhookHandler() http.Handler {
	return p.rateLimiter.Middleware(http.HandlerFunc(p.handleWebhook))
}
