package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// RoomRepository stores and retrieves rooms.
type RoomRepository interface {
	// FindByID returns the room or ErrRoomNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)

	// Create inserts a new room; the id is assigned on insert.
	Create(ctx context.Context, room *domain.Room) error

	// Save updates an existing room. In practice only IsActive changes after
	// creation.
	Save(ctx context.Context, room *domain.Room) error

	// FindCreatedBefore returns the ids of rooms created before cutoff,
	// optionally restricted to inactive ones. Used by the retention sweep.
	FindCreatedBefore(ctx context.Context, cutoff time.Time, onlyInactive bool) ([]uuid.UUID, error)

	// DeleteByIDs removes the given rooms and returns how many were deleted.
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}
