package purchase

import "context"

// Store persists purchase-unlock records.
//
// Unlock must be a last-write-wins overwrite at the record address: no
// read-before-write, no merge. The store is the authority on concurrent-write
// resolution, so implementations need no additional locking.
type Store interface {
	// Unlock writes the record for userID with Unlocked=true and a
	// store-assigned purchase timestamp.
	Unlock(ctx context.Context, userID string, u Unlock) error

	// Get returns the record for userID, or ErrPurchaseNotFound.
	Get(ctx context.Context, userID string) (*Record, error)
}
