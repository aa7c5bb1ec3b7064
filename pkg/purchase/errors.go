package purchase

import "errors"

var (
	// ErrPurchaseNotFound is returned when no record exists for a user
	ErrPurchaseNotFound = errors.New("purchase record not found")

	// ErrInvalidUserID is returned when a store operation is attempted with an empty user id
	ErrInvalidUserID = errors.New("user id is required")
)
