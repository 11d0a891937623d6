package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// FlipStateRepository is the ephemeral orientation cache, keyed per room.
// Entries expire on their own; losing them is acceptable and readers must
// treat an absent map as all face-down. It must never be consulted for which
// cards are drawn.
type FlipStateRepository interface {
	// Get returns the room's flip map. A missing key yields an empty map, not
	// an error.
	Get(ctx context.Context, roomID uuid.UUID) (domain.FlipMap, error)

	// Set overwrites the room's flip map and refreshes its TTL.
	Set(ctx context.Context, roomID uuid.UUID, flips domain.FlipMap) error

	// Clear resets the room's flip map to empty.
	Clear(ctx context.Context, roomID uuid.UUID) error
}
