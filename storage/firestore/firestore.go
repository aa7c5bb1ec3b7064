// Package firestore provides a Firestore implementation of the purchase.Store
// interface. Records live at users/{userID}/purchases/{purchaseKind}, the
// layout the unlock-listening frontend watches.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fincapp/unlockd/pkg/purchase"
)

// Store implements purchase.Store using Google Cloud Firestore
type Store struct {
	client              *firestore.Client
	usersCollection     string
	purchasesCollection string
	purchaseKind        string
}

// Config holds Firestore store configuration
type Config struct {
	// UsersCollection is the top-level collection of user documents.
	// Default: "users"
	UsersCollection string

	// PurchasesCollection is the per-user subcollection of purchase records.
	// Default: "purchases"
	PurchasesCollection string

	// PurchaseKind is the fixed document id for this deployment's product.
	// Default: "main-course"
	PurchaseKind string
}

// New creates a new Firestore store adapter
func New(client *firestore.Client, config Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client is required")
	}

	if config.UsersCollection == "" {
		config.UsersCollection = "users"
	}
	if config.PurchasesCollection == "" {
		config.PurchasesCollection = "purchases"
	}
	if config.PurchaseKind == "" {
		config.PurchaseKind = "main-course"
	}

	return &Store{
		client:              client,
		usersCollection:     config.UsersCollection,
		purchasesCollection: config.PurchasesCollection,
		purchaseKind:        config.PurchaseKind,
	}, nil
}

// Unlock implements purchase.Store. The write is a full overwrite of the
// record document (no merge): whichever of two racing writes lands last
// wins, and both encode unlocked=true. The purchase timestamp is assigned
// by the Firestore server at write time.
func (s *Store) Unlock(ctx context.Context, userID string, u purchase.Unlock) error {
	if userID == "" {
		return purchase.ErrInvalidUserID
	}

	data := map[string]interface{}{
		"unlocked":        true,
		"purchaseDate":    firestore.ServerTimestamp,
		"stripeSessionId": u.SessionID,
		"planAmount":      u.Amount,
	}

	if _, err := s.purchaseDoc(userID).Set(ctx, data); err != nil {
		return fmt.Errorf("failed to write purchase record: %w", err)
	}

	return nil
}

// Get implements purchase.Store
func (s *Store) Get(ctx context.Context, userID string) (*purchase.Record, error) {
	if userID == "" {
		return nil, purchase.ErrInvalidUserID
	}

	snap, err := s.purchaseDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, purchase.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase record: %w", err)
	}

	if !snap.Exists() {
		return nil, purchase.ErrPurchaseNotFound
	}

	data := snap.Data()
	return &purchase.Record{
		UserID:          userID,
		Unlocked:        getBool(data, "unlocked"),
		PurchaseDate:    getTime(data, "purchaseDate"),
		StripeSessionID: getString(data, "stripeSessionId"),
		PlanAmount:      getInt64(data, "planAmount"),
	}, nil
}

// purchaseDoc returns the deterministic document reference for a user's
// purchase record: users/{userID}/purchases/{purchaseKind}
func (s *Store) purchaseDoc(userID string) *firestore.DocumentRef {
	return s.client.Collection(s.usersCollection).
		Doc(userID).
		Collection(s.purchasesCollection).
		Doc(s.purchaseKind)
}

// Helper functions for type conversion from Firestore data

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getInt64(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}
