package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// EventRepository is a mock type for the repository.EventRepository interface.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Append(ctx context.Context, event *domain.Event) error {
	ret := m.Called(ctx, event)
	return ret.Error(0)
}

func (m *EventRepository) LatestByKind(ctx context.Context, roomID uuid.UUID, kind domain.EventKind) (*domain.Event, error) {
	ret := m.Called(ctx, roomID, kind)

	var r0 *domain.Event
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Event)
	}
	return r0, ret.Error(1)
}

func (m *EventRepository) DeleteByRoomIDs(ctx context.Context, roomIDs []uuid.UUID) (int64, error) {
	ret := m.Called(ctx, roomIDs)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *EventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ret := m.Called(ctx, cutoff)
	return ret.Get(0).(int64), ret.Error(1)
}
