package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// RoomRepository is a mock type for the repository.RoomRepository interface.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	ret := m.Called(ctx, id)

	var r0 *domain.Room
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Room)
	}
	return r0, ret.Error(1)
}

func (m *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	ret := m.Called(ctx, room)
	return ret.Error(0)
}

func (m *RoomRepository) Save(ctx context.Context, room *domain.Room) error {
	ret := m.Called(ctx, room)
	return ret.Error(0)
}

func (m *RoomRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time, onlyInactive bool) ([]uuid.UUID, error) {
	ret := m.Called(ctx, cutoff, onlyInactive)

	var r0 []uuid.UUID
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]uuid.UUID)
	}
	return r0, ret.Error(1)
}

func (m *RoomRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	ret := m.Called(ctx, ids)
	return ret.Get(0).(int64), ret.Error(1)
}
