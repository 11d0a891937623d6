package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// EventRepository is the append-only session event log. Events are never
// mutated or reordered after Append.
type EventRepository interface {
	// Append inserts one event. It fails only on storage errors, which are
	// surfaced to the caller untouched.
	Append(ctx context.Context, event *domain.Event) error

	// LatestByKind returns the most recent event of the given kind for the
	// room, or ErrNotFound when the room has none. "Most recent" is the
	// maximum created_at; identical timestamps are broken by the highest
	// primary key, so the result is deterministic.
	LatestByKind(ctx context.Context, roomID uuid.UUID, kind domain.EventKind) (*domain.Event, error)

	// DeleteByRoomIDs removes all events belonging to the given rooms.
	DeleteByRoomIDs(ctx context.Context, roomIDs []uuid.UUID) (int64, error)

	// DeleteOlderThan removes events created before cutoff regardless of room.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
