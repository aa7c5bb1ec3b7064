// Package purchase defines the purchase-unlock domain model shared by the
// webhook handler and the storage backends.
package purchase

import "time"

// Record is the persisted unlock state for one user and one purchase kind.
// It is addressed deterministically by (userID, purchase kind) and written
// as a full overwrite: a repeated checkout for the same user replaces the
// session id, amount and timestamp but never flips Unlocked back to false.
type Record struct {
	UserID          string
	Unlocked        bool
	PurchaseDate    time.Time
	StripeSessionID string
	PlanAmount      int64
}

// Unlock carries the session details copied into the record on write.
type Unlock struct {
	// SessionID is the provider-assigned checkout session identifier.
	SessionID string

	// Amount is the session total in minor currency units (e.g. 500 for $5.00).
	Amount int64
}
