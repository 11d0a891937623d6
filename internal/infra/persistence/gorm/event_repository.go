package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// GormEventRepository is the GORM implementation of the append-only session
// event log.
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	if db == nil {
		panic("database connection cannot be nil for GormEventRepository")
	}
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Append(ctx context.Context, event *domain.Event) error {
	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil {
		return fmt.Errorf("gorm: append %s event for room %s: %w", event.Kind, event.RoomID, err)
	}
	return nil
}

// LatestByKind orders by created_at then id so that two events stored within
// the same timestamp granularity still resolve deterministically: the higher
// id (the later insert) wins.
func (r *GormEventRepository) LatestByKind(ctx context.Context, roomID uuid.UUID, kind domain.EventKind) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND kind = ?", roomID.String(), kind).
		Order("created_at DESC, id DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: latest %s event for room %s: %w", kind, roomID, err)
	}
	return &event, nil
}

func (r *GormEventRepository) DeleteByRoomIDs(ctx context.Context, roomIDs []uuid.UUID) (int64, error) {
	if len(roomIDs) == 0 {
		return 0, nil
	}
	raw := make([]string, len(roomIDs))
	for i, id := range roomIDs {
		raw[i] = id.String()
	}
	result := r.db.WithContext(ctx).Where("room_id IN ?", raw).Delete(&domain.Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete events by room ids: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete events older than %v: %w", cutoff, result.Error)
	}
	return result.RowsAffected, nil
}
