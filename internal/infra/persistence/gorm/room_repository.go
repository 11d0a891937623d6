package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nastiaetstesha/metadeck/internal/domain"
	"github.com/nastiaetstesha/metadeck/internal/repository"
)

// GormRoomRepository is the GORM implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %s: %w", id, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Create(room).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create room (deck %d): %w", room.DeckID, err)
	}
	return nil
}

func (r *GormRoomRepository) Save(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Save(room).Error
	if err != nil {
		return fmt.Errorf("gorm: save room %s: %w", room.ID, err)
	}
	return nil
}

func (r *GormRoomRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time, onlyInactive bool) ([]uuid.UUID, error) {
	var rawIDs []string
	query := r.db.WithContext(ctx).Model(&domain.Room{}).Where("created_at < ?", cutoff)
	if onlyInactive {
		query = query.Where("is_active = ?", false)
	}
	if err := query.Pluck("id", &rawIDs).Error; err != nil {
		return nil, fmt.Errorf("gorm: find rooms created before %v: %w", cutoff, err)
	}
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("gorm: invalid room id %q in storage: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *GormRoomRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	result := r.db.WithContext(ctx).Where("id IN ?", raw).Delete(&domain.Room{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete rooms by ids: %w", result.Error)
	}
	return result.RowsAffected, nil
}
