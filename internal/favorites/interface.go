// Package favorites ranks a user's favorite stations and persists the
// favorite sets behind a small storage interface.
package favorites

import "context"

// Store persists one favorite Set per owner (a device or user identifier).
type Store interface {
	// Get returns the owner's favorites; an unknown owner has an empty set.
	Get(ctx context.Context, ownerID string) (Set, error)

	// Add marks stationID as a favorite of ownerID.
	Add(ctx context.Context, ownerID, stationID string) error

	// Remove unmarks stationID; removing an unknown favorite is not an error.
	Remove(ctx context.Context, ownerID, stationID string) error
}
